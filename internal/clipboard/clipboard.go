package clipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

// ErrUnavailable : aucun outil de presse-papier (xclip, xsel, wl-clipboard...) n'a été trouvé.
var ErrUnavailable = errors.New("aucun presse-papier système disponible (installer xclip, xsel ou wl-clipboard)")

// ReadAll lit le texte du presse-papier, BOM retiré et fins de ligne normalisées en "\n".
func ReadAll() (string, error) {
	if !Available() {
		return "", ErrUnavailable
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return Normalize(text), nil
}

// WriteAll écrit text dans le presse-papier.
func WriteAll(text string) error {
	if text == "" {
		return errors.New("le texte à copier ne peut pas être vide")
	}
	if !Available() {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Available indique si un presse-papier système est utilisable.
func Available() bool {
	return !clipboard.Unsupported
}

// Normalize retire le BOM et convertit les fins de ligne Windows.
func Normalize(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.ReplaceAll(s, "\r\n", "\n")
}
