package kxlrc

import (
	"errors"
	"fmt"
)

// Erreurs exportées
var (
	ErrInvalidInput    = errors.New("invalid lyrics input")
	ErrDecode          = errors.New("lyrics decode error")
	ErrIndexOutOfRange = errors.New("line index out of range")
)

// InvalidInputError : l'entrée de Parse n'a pas une forme interprétable.
type InvalidInputError struct {
	Type   string // type Go (ou JSON) reçu
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid lyrics input (%s): %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("invalid lyrics input: unsupported type %s", e.Type)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// DecodeError : le décodage JSON ou MessagePack a échoué avant toute validation.
// L'erreur du codec reste accessible via errors.Is / errors.As.
type DecodeError struct {
	Format string // "json" ou "msgpack"
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

func indexError(op string, index, length int) error {
	return fmt.Errorf("%s: index %d (len %d): %w", op, index, length, ErrIndexOutOfRange)
}
