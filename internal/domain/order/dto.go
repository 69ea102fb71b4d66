package order

import "github.com/shopspring/decimal"

type StatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method PaymentMethod   `json:"method" binding:"required"`
}

type ChangeClientRequest struct {
	ClientID int64 `json:"client_id" binding:"required"`
}
