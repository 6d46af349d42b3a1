package bootstrap

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"time"

	"github.com/patrickprogramme/kxlrc/internal/fsutil"
)

// Status décrit le sort d'un fichier lors d'un export.
type Status string

const (
	StatusWritten     Status = "written"
	StatusUnchanged   Status = "unchanged"
	StatusSkipped     Status = "skipped (different)"
	StatusOverwritten Status = "overwritten"
)

// Exported associe un fichier embarqué à son sort.
type Exported struct {
	Asset  string // chemin dans fsys
	Dest   string // chemin sur disque
	Status Status
}

// ExportDefaults copie les fichiers sous srcPrefix (dans fsys) vers destDir en
// conservant l'arborescence relative. Un fichier existant et différent n'est
// remplacé qu'avec force, après sauvegarde horodatée.
// Le résultat est trié par chemin embarqué.
func ExportDefaults(fsys fs.FS, srcPrefix, destDir string, force bool) ([]Exported, error) {
	var out []Exported

	err := fs.WalkDir(fsys, srcPrefix, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(srcPrefix, filepath.FromSlash(p))
		if err != nil {
			return err
		}
		dest := filepath.Join(destDir, rel)
		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("lecture de la ressource embarquée %s : %w", p, err)
		}

		st, err := exportFile(dest, data, force)
		if err != nil {
			return err
		}
		out = append(out, Exported{Asset: p, Dest: dest, Status: st})
		return nil
	})

	slices.SortFunc(out, func(a, b Exported) int { return cmp.Compare(a.Asset, b.Asset) })
	return out, err
}

func exportFile(dest string, data []byte, force bool) (Status, error) {
	existing, err := os.ReadFile(dest)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := fsutil.WriteFileAtomic(dest, data, 0o644); err != nil {
			return "", err
		}
		return StatusWritten, nil
	case err != nil:
		return "", fmt.Errorf("lecture de %s : %w", dest, err)
	case bytes.Equal(existing, data):
		return StatusUnchanged, nil
	case !force:
		return StatusSkipped, nil
	}

	backup := dest + ".bak." + time.Now().Format("20060102T150405")
	if err := os.WriteFile(backup, existing, 0o644); err != nil {
		return "", fmt.Errorf("sauvegarde de %s impossible : %w", dest, err)
	}
	if err := fsutil.WriteFileAtomic(dest, data, 0o644); err != nil {
		return "", err
	}
	return StatusOverwritten, nil
}

// EnsureTemplatesPresent s'assure que les templates listés (chemins DANS fsys) existent
// dans tplDir. Le dossier est créé au besoin ; les fichiers présents ne sont jamais remplacés.
// Retourne les chemins écrits.
func EnsureTemplatesPresent(tplDir string, fsys fs.FS, srcFiles []string) ([]string, error) {
	parent := filepath.Dir(tplDir)
	if st, err := os.Stat(parent); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("le répertoire parent n'existe pas : %s", parent)
		}
		return nil, fmt.Errorf("échec lors du test du répertoire parent %s : %w", parent, err)
	} else if !st.IsDir() {
		return nil, fmt.Errorf("le parent existe mais n'est pas un répertoire : %s", parent)
	}

	// absent ou vide : installation initiale des templates par défaut
	fresh, err := fsutil.IsDirEmpty(tplDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fresh = true
	case err != nil:
		return nil, fmt.Errorf("répertoire de templates invalide %s : %w", tplDir, err)
	}
	if err := os.MkdirAll(tplDir, 0o755); err != nil {
		return nil, fmt.Errorf("échec de création du répertoire de templates %s : %w", tplDir, err)
	}

	var written []string
	for _, src := range srcFiles {
		dest := filepath.Join(tplDir, path.Base(src))
		if _, err := os.Stat(dest); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return written, fmt.Errorf("échec lors du test du fichier %s : %w", dest, err)
		}

		data, err := fs.ReadFile(fsys, src)
		if err != nil {
			return written, fmt.Errorf("fichier embarqué introuvable %s : %w", src, err)
		}
		if err := fsutil.WriteFileAtomic(dest, data, 0o644); err != nil {
			return written, fmt.Errorf("échec d'écriture du template %s : %w", dest, err)
		}
		written = append(written, dest)
		if !fresh {
			slog.Info("template manquant restauré", "path", dest)
		}
	}
	if fresh && len(written) > 0 {
		slog.Info("templates par défaut installés", "dir", tplDir, "count", len(written))
	}
	return written, nil
}
