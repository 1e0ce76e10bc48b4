package apperrors

import "errors"

// Resource errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrUserNotFound     = errors.New("user not found")
)

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidOTP         = errors.New("invalid OTP")
	ErrOTPExpired         = errors.New("OTP expired")
	ErrIncorrectPassword  = errors.New("incorrect old password")
	ErrInvalidResetOTP    = errors.New("invalid or expired OTP")
	ErrTooManyAttempts    = errors.New("too many attempts, try again later")
)

// Account gate errors, checked in this order at login
var (
	ErrNotVerified        = errors.New("please verify your phone number first")
	ErrAccountRejected    = errors.New("your account registration was rejected")
	ErrPendingApproval    = errors.New("your account is pending admin approval")
	ErrAccountDeactivated = errors.New("your account has been deactivated")
)

// Authorization errors
var (
	ErrPermissionDenied = errors.New("permission denied")
)

// Validation errors
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Duplicate field errors
var (
	ErrEmailAlreadyExists   = errors.New("email already in use")
	ErrPhoneAlreadyExists   = errors.New("phone number already in use")
	ErrRegisterNumberExists = errors.New("register number already in use")
	ErrUserAlreadyExists    = errors.New("user already exists with these details")
)

// Mentorship and approval conflicts
var (
	ErrInvalidTransition       = errors.New("mentorship request is no longer pending")
	ErrDuplicatePendingRequest = errors.New("a pending request to this alumni already exists")
	ErrNotPendingApproval      = errors.New("user is not awaiting approval")
	ErrAlreadyVerified         = errors.New("account is already verified")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError reports a single invalid field
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
}

func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// DetailsOf returns the details attached to the first CustomError in the chain
func DetailsOf(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}

// MessageOf returns the user facing message of the first CustomError in the
// chain, falling back to err.Error()
func MessageOf(err error) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return err.Error()
}
