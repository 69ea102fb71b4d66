package wizard

import "errors"

var (
	ErrSessionNotFound = errors.New("wizard session not found")
	ErrUnknownEvent    = errors.New("unknown wizard event")
	ErrInvalidPayload  = errors.New("invalid wizard event payload")
	ErrUnknownStep     = errors.New("unknown wizard step")
)
