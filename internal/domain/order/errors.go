package order

import "errors"

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrItemNotFound            = errors.New("order item not found")
	ErrInvalidStatusTransition = errors.New("status transition not allowed")
	ErrNotEditable             = errors.New("order can no longer be edited")
	ErrNotDeletable            = errors.New("only draft orders can be deleted")
	ErrInvalidPayment          = errors.New("payment amount must be positive")
	ErrOverpayment             = errors.New("payment exceeds the order total")
	ErrPaymentsClosed          = errors.New("order does not accept payments")
	ErrInvalidPaymentMethod    = errors.New("unknown payment method")
	ErrReceiptNumberExhausted  = errors.New("could not allocate a unique receipt number")
	ErrTooManyItems            = errors.New("too many items in the order")
	ErrNoItems                 = errors.New("order has no items")
)
