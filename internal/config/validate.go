package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/patrickprogramme/kxlrc/internal/logging"
	"github.com/patrickprogramme/kxlrc/pkg/schema"
)

// Validate vérifie la cohérence de la configuration.
// Retourne warnings (non-fataux) et une erreur si c'est critique.
func (c *Config) Validate() (warnings []string, err error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}

	var errs []error
	switch c.DefaultFormat {
	case FormatJSON, FormatPack:
	default:
		errs = append(errs, fmt.Errorf("default_format invalide : %q (attendu: json, pack)", c.DefaultFormat))
	}
	switch c.Compression {
	case CompressionNone, CompressionXZ:
	default:
		errs = append(errs, fmt.Errorf("compression invalide : %q (attendu: none, xz)", c.Compression))
	}
	if c.SourceRevision < int(schema.RevisionPlainText) || c.SourceRevision > int(schema.RevisionCurrent) {
		errs = append(errs, fmt.Errorf("source_revision invalide : %d (attendu: %d à %d)",
			c.SourceRevision, schema.RevisionPlainText, schema.RevisionCurrent))
	}
	if _, lerr := logging.New(io.Discard, c.Log.Level, c.Log.Format); lerr != nil {
		errs = append(errs, fmt.Errorf("log : %w", lerr))
	}
	if err := errors.Join(errs...); err != nil {
		return warnings, err
	}

	if st, serr := os.Stat(c.OutputDir); serr != nil {
		if os.IsNotExist(serr) {
			warnings = append(warnings, fmt.Sprintf("le dossier de sortie n'existe pas encore : %s", c.OutputDir))
		} else {
			return warnings, fmt.Errorf("impossible d'accéder au dossier de sortie %s : %w", c.OutputDir, serr)
		}
	} else if !st.IsDir() {
		return warnings, fmt.Errorf("output_dir n'est pas un répertoire : %s", c.OutputDir)
	}

	if c.TemplatesDir != "" {
		if _, serr := os.Stat(c.TemplatesDir); os.IsNotExist(serr) {
			warnings = append(warnings, fmt.Sprintf("dossier de templates introuvable, templates embarqués utilisés : %s", c.TemplatesDir))
		}
	}

	if c.Editor.User == "" {
		warnings = append(warnings, "editor.user est vide : les lignes horodatées ne seront pas attribuées")
	}

	return warnings, nil
}
