package market

import "errors"

// Domain errors for market state

var (
	// ErrInvalidProduct is returned when a product id is empty
	ErrInvalidProduct = errors.New("invalid product id")

	// ErrDemandOutOfRange is returned when a restored multiplier lies outside its band
	ErrDemandOutOfRange = errors.New("demand multiplier out of range")
)
