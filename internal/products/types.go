package products

// Product is one catalog item, keyed by id.
type Product struct {
	ID          string  `dynamodbav:"id" json:"id"`
	ProductName string  `dynamodbav:"productName" json:"productName" binding:"required"`
	Code        string  `dynamodbav:"code" json:"code" binding:"required"`
	Price       float64 `dynamodbav:"price" json:"price" binding:"required,gt=0"`
	Model       string  `dynamodbav:"model" json:"model,omitempty"`
	ProductURL  string  `dynamodbav:"productUrl" json:"productUrl,omitempty"`
}
