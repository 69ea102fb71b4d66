package client

type ClientRequest struct {
	FirstName          string    `json:"first_name" binding:"required"`
	LastName           string    `json:"last_name" binding:"required"`
	Phone              string    `json:"phone" binding:"required"`
	Email              string    `json:"email"`
	Address            string    `json:"address"`
	DiscountCardNumber string    `json:"discount_card_number"`
	Channels           []Channel `json:"communication_channels"`
	Source             Source    `json:"source"`
	SourceDetails      string    `json:"source_details"`
	Notes              string    `json:"notes"`
}
