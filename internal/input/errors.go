// Package input defines the normalized input event model and its vocabulary.
package input

import "errors"

var (
	// ErrInvalidArguments reports a malformed request or a missing required field.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrInvalidEventKind reports a kind string outside the vocabulary of its category.
	ErrInvalidEventKind = errors.New("invalid event kind")
	// ErrInvalidCategory reports a category name other than keyboard or mouse.
	ErrInvalidCategory = errors.New("invalid input category")
)
