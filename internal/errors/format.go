package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// FormatForCLI formats an error for terminal output on the process exit path.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	var pe *PulseError
	if !errors.As(err, &pe) {
		return fmt.Sprintf("Error: %s\n", err.Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", pe.Message))
	if pe.Cause != nil && pe.Cause.Error() != pe.Message {
		sb.WriteString(fmt.Sprintf("  Cause: %v\n", pe.Cause))
	}

	if len(pe.Details) > 0 {
		keys := make([]string, 0, len(pe.Details))
		for k := range pe.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, pe.Details[k]))
		}
	}

	if pe.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", pe.Suggestion))
	}
	sb.WriteString(fmt.Sprintf("  Code: %s\n", pe.Code))

	return sb.String()
}
