package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPulseError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("disk full")

	// When: wrapping with PulseError
	pe := New(ErrCodeIndexCreate, "cannot create index directory", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, pe)
	assert.Equal(t, originalErr, errors.Unwrap(pe))
	assert.True(t, errors.Is(pe, originalErr))
}

func TestPulseError_Error_ReturnsFormattedMessage(t *testing.T) {
	err := New(ErrCodeNoInput, "no files match analyses/*.jsonl", nil)
	assert.Equal(t, "[ERR_201_NO_INPUT] no files match analyses/*.jsonl", err.Error())
}

func TestPulseError_Is_MatchesByCode(t *testing.T) {
	err1 := New(ErrCodeMissingURL, "line 3", nil)
	err2 := New(ErrCodeMissingURL, "line 9", nil)
	other := New(ErrCodeMalformedRecord, "line 3", nil)

	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, other))
}

func TestPulseError_IsFatal_FollowsTaxonomy(t *testing.T) {
	tests := []struct {
		code  string
		fatal bool
	}{
		{ErrCodeNoInput, true},
		{ErrCodeIndexCreate, true},
		{ErrCodeFinalCommitFailed, true},
		{ErrCodeConfigInvalid, true},
		{ErrCodeCommitFailed, false},
		{ErrCodeBlocklistUnreadable, false},
		{ErrCodeMalformedRecord, false},
		{ErrCodeMissingURL, false},
		{ErrCodeInputUnreadable, false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatal(New(tt.code, "x", nil)))
		})
	}
}

func TestPulseError_IsFatal_SeesThroughWrapping(t *testing.T) {
	inner := New(ErrCodeFinalCommitFailed, "commit failed", nil)
	wrapped := fmt.Errorf("job failed: %w", inner)

	assert.True(t, IsFatal(wrapped))
	assert.Equal(t, ErrCodeFinalCommitFailed, GetCode(wrapped))
	assert.False(t, IsFatal(errors.New("plain")))
	assert.Empty(t, GetCode(errors.New("plain")))
}

func TestCategoryFromCode(t *testing.T) {
	assert.Equal(t, CategoryConfig, New(ErrCodeConfigInvalid, "", nil).Category)
	assert.Equal(t, CategoryIO, New(ErrCodeNoInput, "", nil).Category)
	assert.Equal(t, CategoryValidation, New(ErrCodeMalformedRecord, "", nil).Category)
	assert.Equal(t, CategoryIndex, New(ErrCodeCommitFailed, "", nil).Category)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeAddFailed, nil))
}

func TestOutcome_Skip_UsesCodeAsReason(t *testing.T) {
	o := Skip("", New(ErrCodeMissingURL, "url missing", nil))

	assert.Equal(t, Skipped, o.Kind)
	assert.Equal(t, ErrCodeMissingURL, o.Reason)
	assert.False(t, o.OK())
	assert.True(t, Succeeded().OK())
	assert.Equal(t, "fatal", Abort(New(ErrCodeNoInput, "", nil)).Kind.String())
}

func TestFormatForCLI_IncludesHintAndCode(t *testing.T) {
	err := New(ErrCodeNoInput, "no input files found", nil).
		WithDetail("pattern", "analyses/partition=*/*.jsonl").
		WithSuggestion("Check input.pattern in .pulse.yaml")

	out := FormatForCLI(err)

	assert.Contains(t, out, "Error: no input files found")
	assert.Contains(t, out, "pattern: analyses/partition=*/*.jsonl")
	assert.Contains(t, out, "Hint: Check input.pattern")
	assert.Contains(t, out, "Code: ERR_201_NO_INPUT")
}

func TestFormatForCLI_PlainError(t *testing.T) {
	assert.Equal(t, "Error: boom\n", FormatForCLI(errors.New("boom")))
	assert.Empty(t, FormatForCLI(nil))
}
