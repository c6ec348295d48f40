package errors

import "net/http"

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Business errors. The message strings are the wire contract: clients and
// tests match them verbatim, so changing one is a breaking change.
var (
	// Input errors
	ErrMissingRequiredInputs   = &ErrorWithStatusCode{Message: "Missing required inputs", StatusCode: http.StatusBadRequest}
	ErrInvalidEmailFormat      = &ErrorWithStatusCode{Message: "Invalid email format", StatusCode: http.StatusBadRequest}
	ErrPasswordRequirements    = &ErrorWithStatusCode{Message: "Password requirements not met", StatusCode: http.StatusBadRequest}
	ErrConfirmPasswordMismatch = &ErrorWithStatusCode{Message: "Confirm password mismatch", StatusCode: http.StatusBadRequest}
	ErrInvalidUserRole         = &ErrorWithStatusCode{Message: "Invalid user role", StatusCode: http.StatusBadRequest}

	// State errors
	ErrUserAlreadyExists     = &ErrorWithStatusCode{Message: "User already exists", StatusCode: http.StatusBadRequest}
	ErrUserNotFound          = &ErrorWithStatusCode{Message: "User not found", StatusCode: http.StatusBadRequest}
	ErrUserAlreadyRegistered = &ErrorWithStatusCode{Message: "User already registered", StatusCode: http.StatusBadRequest}
	ErrUserNotRegistered     = &ErrorWithStatusCode{Message: "User not registered", StatusCode: http.StatusBadRequest}
	ErrUserBlocked           = &ErrorWithStatusCode{Message: "User blocked", StatusCode: http.StatusForbidden}

	// Verification errors
	ErrMaxAttemptsReached = &ErrorWithStatusCode{Message: "Maximum verification attempts reached", StatusCode: http.StatusBadRequest}
	ErrCodeInvalid        = &ErrorWithStatusCode{Message: "Invalid verification code", StatusCode: http.StatusBadRequest}
	ErrCodeExpired        = &ErrorWithStatusCode{Message: "Verification code expired", StatusCode: http.StatusBadRequest}
	ErrAlreadyVerified    = &ErrorWithStatusCode{Message: "Already verified", StatusCode: http.StatusBadRequest}
	ErrSameAsOldPassword  = &ErrorWithStatusCode{Message: "New password cannot be the same as the old password", StatusCode: http.StatusBadRequest}

	// Credential errors
	ErrInvalidCredentials = &ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusBadRequest}
	ErrEmailNotVerified   = &ErrorWithStatusCode{Message: "Email not verified", StatusCode: http.StatusBadRequest}

	// Token errors
	ErrInvalidToken = &ErrorWithStatusCode{Message: "Invalid token", StatusCode: http.StatusUnauthorized}
	ErrAccessDenied = &ErrorWithStatusCode{Message: "Access denied", StatusCode: http.StatusForbidden}

	// Content errors
	ErrArticleNotFound     = &ErrorWithStatusCode{Message: "Article not found", StatusCode: http.StatusNotFound}
	ErrTestimonialNotFound = &ErrorWithStatusCode{Message: "Testimonial not found", StatusCode: http.StatusNotFound}
)

// IsNotFound reports whether err is one of the lookup-miss sentinels.
func IsNotFound(err error) bool {
	return err == ErrUserNotFound || err == ErrArticleNotFound || err == ErrTestimonialNotFound
}
