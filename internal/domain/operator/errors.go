package operator

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrLoginExists        = errors.New("login already exists")
	ErrNotFound           = errors.New("operator not found")
	ErrInvalidRole        = errors.New("invalid role")
)
