package kxlrc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/patrickprogramme/kxlrc/pkg/model"
)

// decodeJSON décode un texte JSON complet en valeur générique.
// Les nombres restent des json.Number pour ne pas perdre de précision sur les timestamps.
func decodeJSON(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &DecodeError{Format: "json", Err: err}
	}
	// rien ne doit suivre la valeur
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &DecodeError{Format: "json", Err: errors.New("unexpected data after top-level value")}
	}
	return v, nil
}

// decodePack décode un blob MessagePack complet en valeur générique.
func decodePack(b []byte) (any, error) {
	if len(b) == 0 {
		return nil, &DecodeError{Format: "msgpack", Err: io.ErrUnexpectedEOF}
	}
	r := bytes.NewReader(b)
	dec := msgpack.NewDecoder(r)
	// entiers en int64/uint64, flottants en float64
	dec.UseLooseInterfaceDecoding(true)
	v, err := dec.DecodeInterface()
	if err != nil {
		return nil, &DecodeError{Format: "msgpack", Err: err}
	}
	if r.Len() > 0 {
		return nil, &DecodeError{Format: "msgpack", Err: fmt.Errorf("%d unexpected trailing bytes", r.Len())}
	}
	return v, nil
}

// Stringify encode un document (déjà validé) en JSON compact, sans toucher à un moteur.
// Un document nil est encodé comme un tableau vide.
func Stringify(doc model.Lyrics) (string, error) {
	if doc == nil {
		doc = model.Lyrics{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("stringify: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// StringifyIndent encode le document en JSON indenté (4 espaces).
func StringifyIndent(doc model.Lyrics) (string, error) {
	if doc == nil {
		doc = model.Lyrics{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("stringify: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// Pack encode le document en MessagePack, avec les mêmes clés que le JSON.
func Pack(doc model.Lyrics) ([]byte, error) {
	if doc == nil {
		doc = model.Lyrics{}
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	return buf.Bytes(), nil
}
