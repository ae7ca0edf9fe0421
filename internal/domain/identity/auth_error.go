package identity

import "errors"

// AuthErrorType classifies an authentication failure
type AuthErrorType string

const (
	// AuthErrorCredentialsSignin means the credentials were rejected
	AuthErrorCredentialsSignin AuthErrorType = "CredentialsSignin"
	// AuthErrorCallbackRoute means the credential check itself failed
	AuthErrorCallbackRoute AuthErrorType = "CallbackRouteError"
)

// Messages surfaced to the sign-in form
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgSomethingWentWrong = "Something went wrong"
)

// AuthError is an authentication failure with a known classification.
// Errors that are not AuthErrors are not authentication failures and must be
// propagated as-is.
type AuthError struct {
	Type AuthErrorType
	Err  error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return string(e.Type) + ": " + e.Err.Error()
	}
	return string(e.Type)
}

// Unwrap returns the underlying cause
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Message returns the text shown to the user for this failure
func (e *AuthError) Message() string {
	if e.Type == AuthErrorCredentialsSignin {
		return MsgInvalidCredentials
	}
	return MsgSomethingWentWrong
}

// NewCredentialsError creates a credentials rejection
func NewCredentialsError() *AuthError {
	return &AuthError{Type: AuthErrorCredentialsSignin}
}

// NewCallbackError wraps a failure raised while checking credentials
func NewCallbackError(err error) *AuthError {
	return &AuthError{Type: AuthErrorCallbackRoute, Err: err}
}

// AsAuthError reports whether err is classified as an authentication failure
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}
