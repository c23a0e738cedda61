package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrCapacity          = errors.New("capacity exceeded")
	ErrInsufficient      = errors.New("insufficient input")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrConflict          = errors.New("version conflict")
	ErrDuplicate         = errors.New("duplicate record id")
)

// Rejection is a user-input failure carrying the text shown to the operator.
// Nothing has been mutated when a Rejection is returned.
type Rejection struct {
	Kind        error
	Title       string
	Description string
}

func Reject(kind error, title, description string) *Rejection {
	return &Rejection{Kind: kind, Title: title, Description: description}
}

func (r *Rejection) Error() string {
	if r.Description == "" {
		return fmt.Sprintf("%v: %s", r.Kind, r.Title)
	}
	return fmt.Sprintf("%v: %s (%s)", r.Kind, r.Title, r.Description)
}

func (r *Rejection) Unwrap() error {
	return r.Kind
}
