package schema

import (
	"errors"
	"fmt"
)

// ErrValidation est la sentinelle de toutes les erreurs de validation.
var ErrValidation = errors.New("validation failed")

// ValidationError décrit le champ qui ne respecte pas le schéma.
type ValidationError struct {
	Index   int    // index de la ligne dans le document, -1 hors document
	Field   string // chemin du champ, ex: "text[2].timestamp"
	Message string
}

func (e *ValidationError) Error() string {
	loc := e.Field
	if e.Index >= 0 {
		if loc == "" {
			loc = fmt.Sprintf("line %d", e.Index)
		} else {
			loc = fmt.Sprintf("line %d: %s", e.Index, loc)
		}
	}
	if loc == "" {
		return fmt.Sprintf("validation failed: %s", e.Message)
	}
	return fmt.Sprintf("validation failed for %s: %s", loc, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func fieldError(path, format string, args ...any) *ValidationError {
	return &ValidationError{Index: -1, Field: path, Message: fmt.Sprintf(format, args...)}
}

// atIndex rattache l'erreur à la ligne i du document.
func atIndex(err error, i int) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		cp := *ve
		cp.Index = i
		return &cp
	}
	return err
}
