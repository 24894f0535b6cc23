package invoice

import (
	"encoding/json"
	"fmt"
)

// Record is a finalized invoice, created exactly once per transaction that
// reaches PROCESSED and never mutated afterwards. Partition key is the
// customer namespace, sort key the invoice number from the file.
type Record struct {
	PK            string  `dynamodbav:"pk"` // #invoice_<customerName>
	SK            string  `dynamodbav:"sk"` // invoice number
	ProductID     string  `dynamodbav:"productId"`
	TotalValue    float64 `dynamodbav:"totalValue"`
	Quantity      int     `dynamodbav:"quantity"`
	TransactionID string  `dynamodbav:"transactionId"`
	CreatedAt     int64   `dynamodbav:"createdAt"` // epoch millis
	TTL           int64   `dynamodbav:"ttl"`       // 0: never reclaimed
}

// File is the structure clients upload to the bucket.
type File struct {
	CustomerName  string  `json:"customerName"`
	InvoiceNumber string  `json:"invoiceNumber"`
	ProductID     string  `json:"productId"`
	Quantity      int     `json:"quantity"`
	TotalValue    float64 `json:"totalValue"`
}

// CustomerPK returns the partition key for a customer's invoices.
func CustomerPK(customerName string) string {
	return "#invoice_" + customerName
}

// ParseFile decodes an uploaded object body. Structural checks only; a file
// that decodes but misses its identifying fields is also malformed.
func ParseFile(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode invoice file: %w", err)
	}
	if f.CustomerName == "" || f.InvoiceNumber == "" {
		return nil, fmt.Errorf("invoice file missing customerName or invoiceNumber")
	}
	return &f, nil
}
