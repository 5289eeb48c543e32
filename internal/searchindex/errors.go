package searchindex

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformed is returned when an artifact does not have the expected shape
	ErrMalformed = errors.New("malformed search index")

	// ErrNotFound is returned when a requested page does not exist in a collection
	ErrNotFound = errors.New("not found")
)

// Validation error codes
const (
	CodeEmptyLocation     = "EMPTY_LOCATION"
	CodeMalformedLocation = "MALFORMED_LOCATION"
	CodeUnknownCategory   = "UNKNOWN_CATEGORY"
	CodeDuplicateSection  = "DUPLICATE_SECTION"
	CodeSchema            = "SCHEMA_VALIDATION_ERROR"
)

// ValidationError describes one invalid record
type ValidationError struct {
	Code    string `json:"code"`
	Index   int    `json:"index"` // Record position, -1 when not tied to a record
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("record %d: %s: %s", e.Index, e.Code, e.Message)
}

// ValidationErrors collects every violation found in a collection
type ValidationErrors struct {
	Errors []ValidationError
}

func (e *ValidationErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no validation errors"
	case 1:
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		msgs = append(msgs, ve.Error())
	}
	return fmt.Sprintf("%d validation errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *ValidationErrors) add(code string, index int, format string, args ...any) {
	e.Errors = append(e.Errors, ValidationError{
		Code:    code,
		Index:   index,
		Message: fmt.Sprintf(format, args...),
	})
}
