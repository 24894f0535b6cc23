package transaction

// Status of an invoice import transaction. Transitions are forward-only:
// GENERATED -> RECEIVED -> PROCESSED, or GENERATED -> CANCELLED.
// PROCESSED and CANCELLED are absorbing.
type Status string

const (
	StatusGenerated Status = "GENERATED"
	StatusReceived  Status = "RECEIVED"
	StatusProcessed Status = "PROCESSED"
	StatusCancelled Status = "CANCELLED"
)

// PartitionKey is the fixed pk marking the transaction namespace in the
// invoices table.
const PartitionKey = "#transaction"

// Record is one in-flight (or recently finished) transfer. The sort key is
// the transaction id, which doubles as the S3 object key the client uploads
// to.
type Record struct {
	PK           string `dynamodbav:"pk"`
	SK           string `dynamodbav:"sk"`
	Status       Status `dynamodbav:"transactionStatus"`
	Timestamp    int64  `dynamodbav:"timestamp"` // created-at, epoch millis
	ExpiresIn    int64  `dynamodbav:"expiresIn"` // upload URL validity quoted to the client, seconds
	TTL          int64  `dynamodbav:"ttl"`       // epoch seconds; the table reclaims the row after this
	RequestID    string `dynamodbav:"requestId"`
	ConnectionID string `dynamodbav:"connectionId"`
	Endpoint     string `dynamodbav:"endpoint"`
}

// TransactionID returns the sort key under its domain name.
func (r Record) TransactionID() string { return r.SK }
