package client

import "errors"

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrPhoneExists        = errors.New("client with this phone already exists")
	ErrEmailExists        = errors.New("client with this email already exists")
	ErrDiscountCardExists = errors.New("client with this discount card already exists")
	ErrQueryTooShort      = errors.New("search query is too short")
	ErrInvalidAmount      = errors.New("amount must be positive")
)
