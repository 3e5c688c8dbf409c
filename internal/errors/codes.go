// Package errors provides structured error handling for pulse.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (input files, index directory, blocklist)
//   - 4XX: Record validation errors
//   - 5XX: Index sink errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and directory I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input record validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryIndex indicates index sink errors.
	CategoryIndex Category = "INDEX"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal aborts the job.
	SeverityFatal Severity = "FATAL"
	// SeverityError means one unit of work failed and the job continues.
	SeverityError Severity = "ERROR"
	// SeverityWarning means the job continues in a degraded mode.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeNoInput             = "ERR_201_NO_INPUT"
	ErrCodeIndexCreate         = "ERR_202_INDEX_CREATE"
	ErrCodeBlocklistUnreadable = "ERR_203_BLOCKLIST_UNREADABLE"
	ErrCodeInputUnreadable     = "ERR_204_INPUT_UNREADABLE"
	ErrCodeIndexNotFound       = "ERR_205_INDEX_NOT_FOUND"

	// Validation errors (400-499)
	ErrCodeMalformedRecord = "ERR_401_MALFORMED_RECORD"
	ErrCodeMissingURL      = "ERR_402_MISSING_URL"
	ErrCodeBlankLine       = "ERR_403_BLANK_LINE"

	// Index errors (500-599)
	ErrCodeCommitFailed      = "ERR_501_COMMIT_FAILED"
	ErrCodeFinalCommitFailed = "ERR_502_FINAL_COMMIT_FAILED"
	ErrCodeAddFailed         = "ERR_503_ADD_FAILED"
	ErrCodeSearchFailed      = "ERR_504_SEARCH_FAILED"
	ErrCodeCancelled         = "ERR_505_CANCELLED"
)

// categoryFromCode extracts category from the numeric part of a code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryIndex
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryIndex
	}
}

// severityFromCode maps a code onto the job's error taxonomy.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeConfigNotFound, ErrCodeConfigInvalid, ErrCodeNoInput,
		ErrCodeIndexCreate, ErrCodeIndexNotFound, ErrCodeFinalCommitFailed,
		ErrCodeSearchFailed, ErrCodeCancelled:
		return SeverityFatal
	case ErrCodeBlocklistUnreadable, ErrCodeCommitFailed:
		return SeverityWarning
	default:
		return SeverityError
	}
}
