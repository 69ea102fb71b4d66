package order

import "fmt"

var allowedTransitions = map[Status][]Status{
	StatusDraft:      {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// ValidateStatusTransition rejects every move that is not on the allow-list.
func ValidateStatusTransition(from, to Status) error {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanEditClient reports whether the order's client may still be changed.
func (s Status) CanEditClient() bool { return s == StatusDraft }

func (s Status) CanEditItems() bool { return s == StatusDraft }

func (s Status) CanDelete() bool { return s == StatusDraft }

func (s Status) AcceptsPayments() bool {
	return s == StatusDraft || s == StatusInProgress
}
