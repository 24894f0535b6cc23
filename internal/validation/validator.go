package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation
// registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// an order must not reference the same product twice
	v.RegisterStructValidation(createOrderStructValidation, CreateOrderRequest{})

	return v
}

func createOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)

	seen := make(map[string]bool, len(req.ProductIDs))
	for _, id := range req.ProductIDs {
		if seen[id] {
			sl.ReportError(req.ProductIDs, "productIds", "ProductIDs", "unique_product_ids", id)
			return
		}
		seen[id] = true
	}
}
