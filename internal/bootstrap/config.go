package bootstrap

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/patrickprogramme/kxlrc/internal/fsutil"
)

// EnsureConfigPresent copie l'asset embarqué assetPath vers dstPath si dstPath n'existe pas.
// Idempotent : un fichier existant n'est jamais remplacé. created indique une copie.
func EnsureConfigPresent(dstPath string, fsys fs.FS, assetPath string) (created bool, err error) {
	if st, err := os.Stat(dstPath); err == nil {
		if st.IsDir() {
			return false, fmt.Errorf("%s est un répertoire", dstPath)
		}
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("échec stat fichier cible %s: %w", dstPath, err)
	}

	data, err := fs.ReadFile(fsys, assetPath)
	if err != nil {
		return false, fmt.Errorf("lecture asset embarqué %s: %w", assetPath, err)
	}

	// WriteFileAtomic crée le dossier parent
	if err := fsutil.WriteFileAtomic(dstPath, data, 0o644); err != nil {
		return false, fmt.Errorf("échec écriture config %s: %w", dstPath, err)
	}

	slog.Info("fichier de configuration par défaut créé", "path", dstPath)
	return true, nil
}
