package photo

import "errors"

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrItemNotFound  = errors.New("order item not found")
	ErrEmptyFile     = errors.New("file is empty")
	ErrOrderClosed   = errors.New("photos cannot be changed on a closed order")
	ErrObjectMissing = errors.New("object not found in storage")
)
