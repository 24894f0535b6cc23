package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFile(t *testing.T) {
	data := []byte(`{
		"customerName": "acme",
		"invoiceNumber": "INV-042",
		"productId": "prod-7",
		"quantity": 2,
		"totalValue": 99.5
	}`)

	f, err := ParseFile(data)
	require.NoError(t, err)
	assert.Equal(t, "acme", f.CustomerName)
	assert.Equal(t, "INV-042", f.InvoiceNumber)
	assert.Equal(t, "prod-7", f.ProductID)
	assert.Equal(t, 2, f.Quantity)
	assert.Equal(t, 99.5, f.TotalValue)
}

func TestParseFile_InvalidJSON(t *testing.T) {
	_, err := ParseFile([]byte("<xml>nope</xml>"))
	assert.Error(t, err)
}

func TestParseFile_MissingIdentity(t *testing.T) {
	// decodes fine but carries no invoice number
	_, err := ParseFile([]byte(`{"customerName": "acme", "quantity": 1}`))
	assert.Error(t, err)
}

func TestCustomerPK(t *testing.T) {
	assert.Equal(t, "#invoice_acme", CustomerPK("acme"))
}
