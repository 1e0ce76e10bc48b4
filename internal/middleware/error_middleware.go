package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// apiError is the HTTP rendering of an error category
type apiError struct {
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first sentinel found in the chain wins
var errorMappings = []struct {
	target error
	apiError
}{
	// validation
	{apperrors.ErrValidationFailed, apiError{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"}},
	{apperrors.ErrBadRequest, apiError{http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"}},

	// OTP problems are request errors, the caller can retry with a fresh code
	{apperrors.ErrInvalidOTP, apiError{http.StatusBadRequest, dto.ErrorCodeInvalidOTP, "Invalid OTP"}},
	{apperrors.ErrOTPExpired, apiError{http.StatusBadRequest, dto.ErrorCodeExpiredOTP, "OTP expired"}},

	// authentication
	{apperrors.ErrInvalidCredentials, apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid email or password"}},
	{apperrors.ErrIncorrectPassword, apiError{http.StatusUnauthorized, dto.ErrorCodeIncorrectPassword, "Incorrect old password"}},
	{apperrors.ErrInvalidResetOTP, apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidOTP, "Invalid or expired OTP"}},
	{apperrors.ErrTokenExpired, apiError{http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"}},
	{apperrors.ErrTokenInvalid, apiError{http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"}},
	{apperrors.ErrNotVerified, apiError{http.StatusUnauthorized, dto.ErrorCodeNotVerified, "Please verify your phone number first"}},

	// account state and authorization
	{apperrors.ErrAccountRejected, apiError{http.StatusForbidden, dto.ErrorCodeAccountRejected, "Your account registration was rejected"}},
	{apperrors.ErrPendingApproval, apiError{http.StatusForbidden, dto.ErrorCodePendingApproval, "Your account is pending admin approval"}},
	{apperrors.ErrAccountDeactivated, apiError{http.StatusForbidden, dto.ErrorCodeAccountDeactivated, "Your account has been deactivated"}},
	{apperrors.ErrPermissionDenied, apiError{http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"}},

	// not found
	{apperrors.ErrUserNotFound, apiError{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"}},
	{apperrors.ErrResourceNotFound, apiError{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"}},

	// duplicates
	{apperrors.ErrEmailAlreadyExists, apiError{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already in use"}},
	{apperrors.ErrPhoneAlreadyExists, apiError{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Phone number already in use"}},
	{apperrors.ErrRegisterNumberExists, apiError{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Register number already in use"}},
	{apperrors.ErrUserAlreadyExists, apiError{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "User already exists"}},

	// conflicts
	{apperrors.ErrInvalidTransition, apiError{http.StatusConflict, dto.ErrorCodeConflict, "Mentorship request is no longer pending"}},
	{apperrors.ErrDuplicatePendingRequest, apiError{http.StatusConflict, dto.ErrorCodeConflict, "You already have a pending request with this alumni"}},
	{apperrors.ErrNotPendingApproval, apiError{http.StatusConflict, dto.ErrorCodeConflict, "User is not awaiting approval"}},
	{apperrors.ErrAlreadyVerified, apiError{http.StatusConflict, dto.ErrorCodeConflict, "Phone number is already verified"}},
	{apperrors.ErrConflict, apiError{http.StatusConflict, dto.ErrorCodeConflict, "Conflict"}},

	{apperrors.ErrTooManyAttempts, apiError{http.StatusTooManyRequests, dto.ErrorCodeTooManyRequests, "Too many attempts, try again later"}},
}

var internalError = apiError{http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"}

func classify(err error) (apiError, bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.apiError, true
		}
	}
	return internalError, false
}

// HandleAPIError writes the error envelope for err. Known categories keep the
// message attached by the service; anything else is logged and answered with
// a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	mapped, known := classify(err)
	if !known {
		logger.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		c.AbortWithStatusJSON(mapped.status, dto.NewErrorResponse(dto.NewErrorDetail(mapped.code, mapped.message)))
		return
	}

	message := mapped.message
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		message = ce.Message
	}

	detail := dto.NewErrorDetail(mapped.code, message)
	if details := apperrors.DetailsOf(err); details != nil {
		if field, ok := details["field"].(string); ok {
			detail.WithField(field)
		}
		detail.WithDetails(details)
	}
	if mapped.status < http.StatusInternalServerError {
		detail.WithSeverity(dto.ErrorSeverityWarning)
	}

	c.AbortWithStatusJSON(mapped.status, dto.NewErrorResponse(detail))
}

// HandleBindError answers a request whose body or query failed to bind
func HandleBindError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}
