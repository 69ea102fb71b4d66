package catalog

import "errors"

var (
	ErrCategoryNotFound  = errors.New("service category not found")
	ErrPriceItemNotFound = errors.New("price list item not found")
	ErrModifierNotFound  = errors.New("modifier not found")
	ErrModifierExists    = errors.New("modifier code already exists")
	ErrUnknownIssue      = errors.New("unknown stain, defect or risk code")
	ErrInvalidModifier   = errors.New("invalid modifier definition")
	ErrInvalidPriceItem  = errors.New("invalid price list item")
)
