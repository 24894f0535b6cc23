package orders

// Payment and shipping enums accepted on order creation.
const (
	PaymentCash       = "CASH"
	PaymentDebitCard  = "DEBIT_CARD"
	PaymentCreditCard = "CREDIT_CARD"

	ShippingUrgent   = "URGENT"
	ShippingEconomic = "ECONOMIC"

	CarrierCorreios = "CORREIOS"
	CarrierFedex    = "FEDEX"
)

// OrderProduct is a priced line captured at order time.
type OrderProduct struct {
	Code  string  `dynamodbav:"code" json:"code"`
	Price float64 `dynamodbav:"price" json:"price"`
}

// Billing groups payment details.
type Billing struct {
	Payment    string  `dynamodbav:"payment" json:"payment"`
	TotalPrice float64 `dynamodbav:"totalPrice" json:"totalPrice"`
}

// Shipping groups delivery details.
type Shipping struct {
	Type    string `dynamodbav:"type" json:"type"`
	Carrier string `dynamodbav:"carrier" json:"carrier"`
}

// Order is keyed by (customer email, order id).
type Order struct {
	PK        string         `dynamodbav:"pk" json:"email"`
	SK        string         `dynamodbav:"sk" json:"id"`
	CreatedAt int64          `dynamodbav:"createdAt" json:"createdAt"`
	Billing   Billing        `dynamodbav:"billing" json:"billing"`
	Shipping  Shipping       `dynamodbav:"shipping" json:"shipping"`
	Products  []OrderProduct `dynamodbav:"products" json:"products"`
}
