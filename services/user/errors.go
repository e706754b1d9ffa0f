package user

import "errors"

// AuthError codes.
const (
	CodeInvalidCredentials = "invalidCredentials"
	CodeInvalidOTP         = "invalidOtp"
	CodeOTPThrottled       = "otpThrottled"
	CodeDuplicateAccount   = "duplicateAccount"
	CodeUserNotFound       = "userNotFound"
)

// AuthError is a recoverable authentication failure.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Code + ": " + e.Message
}

func newAuthError(code, msg string) error {
	return &AuthError{Code: code, Message: msg}
}

func authCodeOf(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func IsInvalidCredentials(err error) bool { return authCodeOf(err) == CodeInvalidCredentials }
func IsInvalidOTP(err error) bool         { return authCodeOf(err) == CodeInvalidOTP }
func IsOTPThrottled(err error) bool       { return authCodeOf(err) == CodeOTPThrottled }
func IsDuplicateAccount(err error) bool   { return authCodeOf(err) == CodeDuplicateAccount }
func IsUserNotFound(err error) bool       { return authCodeOf(err) == CodeUserNotFound }
