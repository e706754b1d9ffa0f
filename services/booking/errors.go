package booking

import (
	"errors"
	"fmt"
)

// Wizard error codes.
const (
	CodeValidation     = "validationError"
	CodeNotFound       = "notFound"
	CodeSessionExpired = "sessionExpired"
	CodeConflict       = "conflict"
	CodeDispatchFailed = "dispatchFailed"
)

// WizardError carries a machine-readable code plus the offending field for
// validation failures. None of these are fatal; handlers map them to HTTP
// statuses and the client recovers inline.
type WizardError struct {
	Code    string
	Field   string
	Message string
}

func (e *WizardError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewValidationError(field, msg string) error {
	return &WizardError{Code: CodeValidation, Field: field, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &WizardError{Code: CodeNotFound, Message: msg}
}

func NewSessionExpiredError() error {
	return &WizardError{Code: CodeSessionExpired, Message: "booking session not found or expired"}
}

func NewConflictError(msg string) error {
	return &WizardError{Code: CodeConflict, Message: msg}
}

func NewDispatchError(msg string) error {
	return &WizardError{Code: CodeDispatchFailed, Message: msg}
}

func codeOf(err error) string {
	var we *WizardError
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}

func IsValidation(err error) bool     { return codeOf(err) == CodeValidation }
func IsNotFound(err error) bool       { return codeOf(err) == CodeNotFound }
func IsSessionExpired(err error) bool { return codeOf(err) == CodeSessionExpired }
func IsConflict(err error) bool       { return codeOf(err) == CodeConflict }
func IsDispatchFailed(err error) bool { return codeOf(err) == CodeDispatchFailed }
