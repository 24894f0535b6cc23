package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() CreateOrderRequest {
	return CreateOrderRequest{
		Email:      "a@example.com",
		ProductIDs: []string{"prod-1", "prod-2"},
		Payment:    "CREDIT_CARD",
		Shipping: ShippingRequest{
			Type:    "URGENT",
			Carrier: "FEDEX",
		},
	}
}

func TestCreateOrderRequest_Valid(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(validRequest()))
}

func TestCreateOrderRequest_MissingEmail(t *testing.T) {
	v := New()

	req := validRequest()
	req.Email = ""
	assert.Error(t, v.Struct(req))

	req.Email = "not-an-email"
	assert.Error(t, v.Struct(req))
}

func TestCreateOrderRequest_EmptyProducts(t *testing.T) {
	v := New()

	req := validRequest()
	req.ProductIDs = nil
	assert.Error(t, v.Struct(req))

	req.ProductIDs = []string{"prod-1", ""}
	assert.Error(t, v.Struct(req))
}

func TestCreateOrderRequest_DuplicateProducts(t *testing.T) {
	v := New()

	req := validRequest()
	req.ProductIDs = []string{"prod-1", "prod-1"}
	err := v.Struct(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unique_product_ids")
}

func TestCreateOrderRequest_BadEnums(t *testing.T) {
	v := New()

	req := validRequest()
	req.Payment = "BARTER"
	assert.Error(t, v.Struct(req))

	req = validRequest()
	req.Shipping.Type = "TELEPORT"
	assert.Error(t, v.Struct(req))

	req = validRequest()
	req.Shipping.Carrier = "PIGEON"
	assert.Error(t, v.Struct(req))
}
