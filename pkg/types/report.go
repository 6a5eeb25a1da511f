package types

import (
	"github.com/arthur-debert/rulebook/pkg/errors"
)

// ErrorReport is the structured error object returned for domain failures
// such as an unknown category or a missing rule. Transports send it as a
// regular result instead of failing the request.
type ErrorReport struct {
	Error          string   `json:"error"`
	Code           string   `json:"code,omitempty"`
	AvailableTypes []string `json:"available_types,omitempty"`
	Suggestions    []string `json:"suggestions,omitempty"`
}

// NewErrorReport projects an error into its report. Details recorded under
// the well known keys are carried over.
func NewErrorReport(err error) ErrorReport {
	report := ErrorReport{
		Error: errors.GetMessage(err),
	}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		report.Code = string(code)
	}
	details := errors.GetErrorDetails(err)
	if available, ok := details[errors.DetailAvailableTypes].([]string); ok {
		report.AvailableTypes = append([]string(nil), available...)
	}
	if suggestions, ok := details[errors.DetailSuggestions].([]string); ok && len(suggestions) > 0 {
		report.Suggestions = append([]string(nil), suggestions...)
	}
	return report
}

// MessageReport carries an informational message, used when a sweep finds
// nothing to return
type MessageReport struct {
	Message string `json:"message"`
}
