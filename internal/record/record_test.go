package record

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/Aman-CERP/pulse/internal/errors"
)

func TestParse_FullRecord(t *testing.T) {
	line := `{"url":"http://a.example/x","title":"T","content_text":"body","meta_content":"m","language":"de","extra":42}`

	rec, err := Parse([]byte(line))

	require.NoError(t, err)
	assert.Equal(t, "http://a.example/x", rec.URL)
	assert.Equal(t, "T", Deref(rec.Title))
	assert.Equal(t, "body", Deref(rec.ContentText))
	assert.Equal(t, "m", Deref(rec.MetaContent))
	assert.Equal(t, "de", Deref(rec.Language))
}

func TestParse_OptionalFieldsAbsent(t *testing.T) {
	rec, err := Parse([]byte(`{"url":"http://a.example"}`))

	require.NoError(t, err)
	assert.Nil(t, rec.Title)
	assert.Nil(t, rec.ContentText)
	assert.Nil(t, rec.MetaContent)
	assert.Nil(t, rec.Language)
	assert.Equal(t, "", Deref(rec.Title))
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		line string
		code string
	}{
		{"invalid json", `{"url": "http://a.example"`, perrors.ErrCodeMalformedRecord},
		{"not an object", `[1,2,3]`, perrors.ErrCodeMalformedRecord},
		{"wrong url type", `{"url": 7}`, perrors.ErrCodeMalformedRecord},
		{"wrong title type", `{"url": "http://a.example", "title": 1}`, perrors.ErrCodeMalformedRecord},
		{"missing url", `{"title": "x"}`, perrors.ErrCodeMissingURL},
		{"null url", `{"url": null}`, perrors.ErrCodeMissingURL},
		{"empty url", `{"url": ""}`, perrors.ErrCodeMissingURL},
		{"blank", `   `, perrors.ErrCodeBlankLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Parse([]byte(tt.line))
			assert.Nil(t, rec)
			require.Error(t, err)
			assert.Equal(t, tt.code, perrors.GetCode(err))
		})
	}
}

func readAll(t *testing.T, r *Reader) []Line {
	t.Helper()
	var lines []Line
	for {
		l, err := r.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return lines
		}
		require.NoError(t, err)
		lines = append(lines, l)
	}
}

func TestReader_GoodAndBadLines(t *testing.T) {
	// Given: one well-formed line and one with invalid JSON
	input := "{\"url\":\"http://a.example\"}\n{not json}\n"

	// When: streaming
	lines := readAll(t, NewReader(strings.NewReader(input)))

	// Then: one record and one skip, with line numbers
	require.Len(t, lines, 2)
	assert.True(t, lines[0].Outcome.OK())
	assert.Equal(t, 1, lines[0].Number)
	assert.Equal(t, "http://a.example", lines[0].Record.URL)

	assert.Equal(t, perrors.Skipped, lines[1].Outcome.Kind)
	assert.Equal(t, perrors.ErrCodeMalformedRecord, lines[1].Outcome.Reason)
	assert.Equal(t, 2, lines[1].Number)
	assert.Nil(t, lines[1].Record)
}

func TestReader_LastLineWithoutNewlineAndCRLF(t *testing.T) {
	input := "{\"url\":\"http://a.example\"}\r\n{\"url\":\"http://b.example\"}"

	lines := readAll(t, NewReader(strings.NewReader(input)))

	require.Len(t, lines, 2)
	assert.True(t, lines[0].Outcome.OK())
	assert.Equal(t, "http://b.example", lines[1].Record.URL)
}

func TestReader_LongLine(t *testing.T) {
	content := strings.Repeat("x", 256*1024)
	input := `{"url":"http://a.example","content_text":"` + content + `"}` + "\n"

	r := NewReader(strings.NewReader(input))
	lines := readAll(t, r)

	require.Len(t, lines, 1)
	assert.Equal(t, content, Deref(lines[0].Record.ContentText))
	assert.Equal(t, 1, r.LineCount())
}

func TestReader_EmptyInput(t *testing.T) {
	assert.Empty(t, readAll(t, NewReader(strings.NewReader(""))))
}

func TestReader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReader(strings.NewReader("{}\n")).Next(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}
