package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/kxlrc/pkg/model"
)

func TestUpgrade_PlainText(t *testing.T) {
	raw := decodeJSON(t, `[{"timestamp":0,"text":"Hello  World!","voice":"mf","part":"Pre-Chorus","edited":{}}]`)

	up, err := Upgrade(raw, RevisionPlainText)
	require.NoError(t, err)

	doc, err := ValidateDocument(up)
	require.NoError(t, err)
	require.Len(t, doc, 1)
	assert.Equal(t, "Hello World!", doc[0].String())
	assert.Equal(t, model.VoiceMF, *doc[0].Voice)
	assert.Equal(t, model.PartPrechorus, *doc[0].Part)
	assert.Nil(t, doc[0].Edited)

	// l'entrée de l'appelant n'est pas modifiée
	first := raw.([]any)[0].(map[string]any)
	assert.Equal(t, "Hello  World!", first["text"])
}

func TestUpgrade_StrictNullText(t *testing.T) {
	raw := decodeJSON(t, `[{"text":null}]`)

	_, err := ValidateDocument(raw)
	require.ErrorIs(t, err, ErrValidation)

	up, err := Upgrade(raw, RevisionStrict)
	require.NoError(t, err)
	doc, err := ValidateDocument(up)
	require.NoError(t, err)
	assert.Equal(t, []model.TextWord{}, doc[0].Text)
}

func TestUpgrade_StrictDoesNotSplitStrings(t *testing.T) {
	up, err := Upgrade([]any{map[string]any{"text": "a b"}}, RevisionStrict)
	require.NoError(t, err)
	_, err = ValidateDocument(up)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpgrade_CurrentIsIdentity(t *testing.T) {
	raw := []any{map[string]any{"voice": "mf"}}
	up, err := Upgrade(raw, RevisionCurrent)
	require.NoError(t, err)
	assert.Equal(t, raw, up)
}

func TestUpgrade_UnknownRevision(t *testing.T) {
	_, err := Upgrade([]any{}, Revision(7))
	assert.Error(t, err)
	_, err = Upgrade([]any{}, Revision(-1))
	assert.Error(t, err)
}

func TestUpgrade_NonObjectsKept(t *testing.T) {
	up, err := Upgrade([]any{42}, RevisionPlainText)
	require.NoError(t, err)
	assert.Equal(t, []any{42}, up)

	up, err = Upgrade("not a doc", RevisionPlainText)
	require.NoError(t, err)
	assert.Equal(t, "not a doc", up)
}
