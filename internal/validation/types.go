package validation

// ShippingRequest selects delivery for a new order.
type ShippingRequest struct {
	Type    string `json:"type" validate:"required,oneof=URGENT ECONOMIC"`
	Carrier string `json:"carrier" validate:"required,oneof=CORREIOS FEDEX"`
}

// CreateOrderRequest is the payload for POST /orders.
type CreateOrderRequest struct {
	Email      string          `json:"email" validate:"required,email"`
	ProductIDs []string        `json:"productIds" validate:"required,min=1,dive,required"`
	Payment    string          `json:"payment" validate:"required,oneof=CASH DEBIT_CARD CREDIT_CARD"`
	Shipping   ShippingRequest `json:"shipping" validate:"required"`
}
