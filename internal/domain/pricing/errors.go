package pricing

import "errors"

var (
	ErrInvalidBasePrice = errors.New("base price must be positive")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrUnknownUrgency   = errors.New("unknown urgency")
	ErrInvalidDiscount  = errors.New("invalid discount")
	ErrDiscountTooHigh  = errors.New("discount must be below 100%")
	ErrInvalidModifier  = errors.New("invalid modifier")
	ErrPriceOutOfRange  = errors.New("final price outside the allowed range of base price")
	ErrNoItems          = errors.New("no items to calculate")
)
