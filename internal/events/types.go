package events

// EventType of an order lifecycle event.
type EventType string

const (
	OrderCreated EventType = "ORDER_CREATED"
	OrderDeleted EventType = "ORDER_DELETED"
)

// Envelope wraps an event for transport; Data is the serialized OrderEvent.
type Envelope struct {
	EventType EventType `json:"eventType"`
	Data      string    `json:"data"`
}

// OrderEvent is the payload fanned out when an order changes.
type OrderEvent struct {
	OrderID      string   `json:"orderId"`
	Email        string   `json:"email"`
	RequestID    string   `json:"requestId"`
	ProductCodes []string `json:"productCodes"`
}

// Record is the persisted form in the events table, reclaimed by ttl.
type Record struct {
	PK        string    `dynamodbav:"pk"` // #order_<orderId>
	SK        string    `dynamodbav:"sk"` // <eventType>#<timestamp millis>
	Email     string    `dynamodbav:"email"`
	CreatedAt int64     `dynamodbav:"createdAt"`
	RequestID string    `dynamodbav:"requestId"`
	EventType EventType `dynamodbav:"eventType"`
	Info      Info      `dynamodbav:"info"`
	TTL       int64     `dynamodbav:"ttl"`
}

// Info carries the delivery details worth keeping with the record.
type Info struct {
	MessageID    string   `dynamodbav:"messageId"`
	OrderID      string   `dynamodbav:"orderId"`
	ProductCodes []string `dynamodbav:"productCodes"`
}
