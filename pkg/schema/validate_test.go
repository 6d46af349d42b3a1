package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickprogramme/kxlrc/pkg/model"
)

func decodeJSON(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestValidateLine_AppliesDefaults(t *testing.T) {
	line, err := ValidateLine(decodeJSON(t, `{"text":[{"text":"Hello World!"}]}`))
	require.NoError(t, err)

	assert.False(t, line.Instrumental)
	require.NotNil(t, line.Emphasis)
	assert.Equal(t, int64(0), *line.Emphasis)
	assert.Equal(t, []string{}, line.Authors)
	assert.Equal(t, []model.Comment{}, line.Comments)
	assert.Equal(t, []int64{0}, line.Singers)
	require.NotNil(t, line.Voice)
	assert.Equal(t, model.VoiceMF, *line.Voice)
	assert.Nil(t, line.Timestamp)
	assert.Nil(t, line.Part)
	assert.Nil(t, line.Verse)
	assert.Nil(t, line.Edited)
	require.Len(t, line.Text, 1)
	assert.Equal(t, "Hello World!", line.Text[0].Text)
	assert.Nil(t, line.Text[0].Timestamp)
}

func TestValidateLine_EmptyObject(t *testing.T) {
	line, err := ValidateLine(map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []model.TextWord{}, line.Text)
	assert.Equal(t, model.NewLine(), line)
}

func TestValidateLine_NullsAreKept(t *testing.T) {
	line, err := ValidateLine(decodeJSON(t, `{"voice":null,"emphasis":null,"comments":null,"singers":null}`))
	require.NoError(t, err)
	assert.Nil(t, line.Voice)
	assert.Nil(t, line.Emphasis)
	assert.Nil(t, line.Comments)
	assert.Nil(t, line.Singers)
}

func TestValidateLine_Enums(t *testing.T) {
	_, err := ValidateLine(map[string]any{"voice": "MF"})
	require.NoError(t, err)

	_, err = ValidateLine(map[string]any{"voice": "LOUD"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "voice", ve.Field)

	_, err = ValidateLine(map[string]any{"part": "chorus"})
	require.NoError(t, err)

	_, err = ValidateLine(map[string]any{"part": "solo"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidateLine_FieldErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		field string
	}{
		{"timestamp string", `{"timestamp":"10"}`, "timestamp"},
		{"timestamp fraction", `{"timestamp":1.5}`, "timestamp"},
		{"instrumental null", `{"instrumental":null}`, "instrumental"},
		{"authors null", `{"authors":null}`, "authors"},
		{"authors item", `{"authors":["a",2]}`, "authors[1]"},
		{"text null", `{"text":null}`, "text"},
		{"word without text", `{"text":[{"text":"a"},{"timestamp":3}]}`, "text[1].text"},
		{"word timestamp", `{"text":[{"text":"a","timestamp":"x"}]}`, "text[0].timestamp"},
		{"edited user", `{"edited":{"timestamp":1}}`, "edited.user"},
		{"edited timestamp", `{"edited":{"user":"u"}}`, "edited.timestamp"},
		{"comment text", `{"comments":[{"user":"u","text":1}]}`, "comments[0].text"},
		{"singers item", `{"singers":[0,"1"]}`, "singers[1]"},
		{"voice number", `{"voice":3}`, "voice"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateLine(decodeJSON(t, tc.in))
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "want ValidationError, got %v", err)
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, -1, ve.Index)
		})
	}
}

func TestValidateLine_NotAnObject(t *testing.T) {
	_, err := ValidateLine("hello")
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidateLine_UnknownKeysStripped(t *testing.T) {
	line, err := ValidateLine(map[string]any{"foo": "bar", "verse": 2})
	require.NoError(t, err)
	require.NotNil(t, line.Verse)
	assert.Equal(t, int64(2), *line.Verse)
}

func TestValidateLine_NumericKinds(t *testing.T) {
	for _, v := range []any{int8(5), uint16(5), int32(5), uint64(5), float32(5), 5.0, json.Number("5")} {
		line, err := ValidateLine(map[string]any{"timestamp": v})
		require.NoError(t, err, "%T", v)
		assert.Equal(t, int64(5), *line.Timestamp, "%T", v)
	}
	_, err := ValidateLine(map[string]any{"timestamp": uint64(1 << 63)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateLine_TypedLine(t *testing.T) {
	in := model.NewLine(model.StringToWords("typed line")...)
	in.Timestamp = model.Ptr[int64](42)
	in.Authors = []string{"A"}

	out, err := ValidateLine(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// non-nullable nil fields fall back to defaults, nullable nil stay null
	out, err = ValidateLine(model.Line{})
	require.NoError(t, err)
	assert.Equal(t, []string{}, out.Authors)
	assert.Equal(t, []model.TextWord{}, out.Text)
	assert.Nil(t, out.Voice)
	assert.Nil(t, out.Singers)
}

func TestValidateLine_MapAnyKeys(t *testing.T) {
	line, err := ValidateLine(map[any]any{"voice": "PP", "singers": []any{int8(1), uint8(2)}})
	require.NoError(t, err)
	assert.Equal(t, model.VoicePP, *line.Voice)
	assert.Equal(t, []int64{1, 2}, line.Singers)

	_, err = ValidateLine(map[any]any{1: "x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidatePartialLine_LeavesAbsentFields(t *testing.T) {
	p, err := ValidatePartialLine(decodeJSON(t, `{"text":[{"text":"hi"}],"voice":null}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"voice", "text"}, p.Fields())
	assert.True(t, p.Voice.Set)
	assert.Nil(t, p.Voice.Value)
	assert.False(t, p.Authors.Set)
	assert.False(t, p.Singers.Set)
}

func TestValidatePartialLine_RejectsBadEnum(t *testing.T) {
	_, err := ValidatePartialLine(map[string]any{"part": "middle8"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestValidateDocument_FailFast(t *testing.T) {
	doc, err := ValidateDocument(decodeJSON(t, `[{"timestamp":0},{"timestamp":1000}]`))
	require.NoError(t, err)
	assert.Len(t, doc, 2)

	doc, err = ValidateDocument(decodeJSON(t, `[{"timestamp":0},{"voice":"LOUD"},{"voice":"nope"}]`))
	assert.Nil(t, doc)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 1, ve.Index)
	assert.Equal(t, "voice", ve.Field)
	assert.Contains(t, ve.Error(), "line 1: voice")
}

func TestValidateDocument_NotArray(t *testing.T) {
	_, err := ValidateDocument(map[string]any{"timestamp": 0})
	assert.ErrorIs(t, err, ErrValidation)

	doc, err := ValidateDocument([]any{})
	require.NoError(t, err)
	assert.Empty(t, doc)
}

func TestValidateDocument_TypedRoundTrip(t *testing.T) {
	l := model.NewLine(model.StringToWords("one two")...)
	l.Voice = nil
	l.Comments = nil
	doc := model.Lyrics{l, model.NewLine()}

	out, err := ValidateDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, out)
}
