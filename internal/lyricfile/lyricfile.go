// Package lyricfile lit et écrit des fichiers de paroles KXLRC sur disque :
// JSON ou MessagePack, compressés ou non en xz.
package lyricfile

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"

	"github.com/patrickprogramme/kxlrc/internal/fsutil"
	"github.com/patrickprogramme/kxlrc/pkg/kxlrc"
	"github.com/patrickprogramme/kxlrc/pkg/model"
	"github.com/patrickprogramme/kxlrc/pkg/schema"
)

// Extensions des fichiers produits
const (
	ExtJSON = ".kxlrc.json"
	ExtPack = ".kxlrc"
	ExtXZ   = ".xz"
)

// xzMagic : en-tête d'un flux xz (fd 37 7a 58 5a 00)
var xzMagic = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}

// utf8BOM : marque d'ordre des octets ajoutée par certains éditeurs Windows
var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Options règle l'écriture d'un fichier.
type Options struct {
	Packed   bool // MessagePack au lieu de JSON
	Compress bool // compression xz
	Pretty   bool // JSON indenté (ignoré si Packed)
}

// Info décrit un fichier lu.
type Info struct {
	Path       string
	Size       int64 // taille sur disque
	Compressed bool
	Packed     bool
}

// IsXZ indique si data commence par l'en-tête xz.
func IsXZ(data []byte) bool {
	return bytes.HasPrefix(data, xzMagic)
}

// IsPacked indique si data (décompressé) est du MessagePack : un document JSON
// commence par '[' après d'éventuels espaces, ce qui n'est jamais le cas d'un tableau MessagePack.
func IsPacked(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] != '['
}

// Decompress retourne data décompressé s'il s'agit d'un flux xz, data sinon.
func Decompress(data []byte) ([]byte, bool, error) {
	if !IsXZ(data) {
		return data, false, nil
	}
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, true, fmt.Errorf("failed to create xz reader: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, true, fmt.Errorf("xz decompress: %w", err)
	}
	return out, true, nil
}

// Compress compresse data en xz.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create xz writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("xz compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("xz close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode analyse le contenu brut d'un fichier (xz et format détectés).
func Decode(data []byte, rev schema.Revision) (model.Lyrics, Info, error) {
	var info Info
	raw, compressed, err := Decompress(data)
	info.Compressed = compressed
	if err != nil {
		return nil, info, err
	}
	// un tableau MessagePack ne commence jamais par 0xef : le BOM ne peut venir que d'un JSON
	raw = bytes.TrimPrefix(raw, utf8BOM)
	info.Packed = IsPacked(raw)

	doc, err := kxlrc.ParseWith(raw, info.Packed, kxlrc.FromRevision(rev))
	if err != nil {
		return nil, info, err
	}
	return doc, info, nil
}

// Load lit et valide le fichier path.
func Load(path string, rev schema.Revision) (model.Lyrics, Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Info{Path: path}, fmt.Errorf("lecture de %s impossible : %w", path, err)
	}
	doc, info, err := Decode(data, rev)
	info.Path = path
	info.Size = int64(len(data))
	if err != nil {
		return nil, info, fmt.Errorf("%s : %w", path, err)
	}
	return doc, info, nil
}

// Encode sérialise doc selon opts.
func Encode(doc model.Lyrics, opts Options) ([]byte, error) {
	var data []byte
	switch {
	case opts.Packed:
		b, err := kxlrc.Pack(doc)
		if err != nil {
			return nil, err
		}
		data = b
	case opts.Pretty:
		s, err := kxlrc.StringifyIndent(doc)
		if err != nil {
			return nil, err
		}
		data = []byte(s + "\n")
	default:
		s, err := kxlrc.Stringify(doc)
		if err != nil {
			return nil, err
		}
		data = []byte(s + "\n")
	}
	if !opts.Compress {
		return data, nil
	}
	return Compress(data)
}

// Save écrit doc dans path de manière atomique.
func Save(path string, doc model.Lyrics, opts Options) error {
	data, err := Encode(doc, opts)
	if err != nil {
		return fmt.Errorf("encodage de %s : %w", path, err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("écriture de %s : %w", path, err)
	}
	return nil
}

// Digest retourne l'empreinte BLAKE3 (hex) du JSON compact du document.
// Deux documents équivalents ont la même empreinte, quel que soit leur format sur disque.
func Digest(doc model.Lyrics) (string, error) {
	s, err := kxlrc.Stringify(doc)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256([]byte(s))
	return hex.EncodeToString(sum[:]), nil
}

// Ext retourne l'extension correspondant à opts, ex: ".kxlrc.json.xz".
func Ext(opts Options) string {
	ext := ExtJSON
	if opts.Packed {
		ext = ExtPack
	}
	if opts.Compress {
		ext += ExtXZ
	}
	return ext
}

// BaseName retire du nom de fichier les extensions connues (.xz, .kxlrc, .json, .txt, .lrc).
func BaseName(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{ExtXZ, ".json", ExtPack, ".txt", ".lrc"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// OutputPath construit le chemin de sortie dans dir pour le fichier source src.
func OutputPath(dir, src string, opts Options) string {
	return filepath.Join(dir, fsutil.SanitizeFilename(BaseName(src))+Ext(opts))
}
