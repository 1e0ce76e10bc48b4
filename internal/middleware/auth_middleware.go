package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID          = "userID"
	ContextEmail           = "email"
	ContextRole            = "role"
	ContextPendingApproval = "pendingApproval"
)

// AccountLookup loads the account behind a token. Satisfied by the user repository.
type AccountLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	accounts   AccountLookup
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// WithAccountCheck makes JWTAuth reload the account on every request, so
// deactivation and rejection take effect before the token expires
func (m *AuthMiddleware) WithAccountCheck(accounts AccountLookup) *AuthMiddleware {
	m.accounts = accounts
	return m
}

// checkAccount applies the account switches to a validated token. It writes
// the response and returns false when the request must stop.
func (m *AuthMiddleware) checkAccount(c *gin.Context, userID int64) bool {
	u, err := m.accounts.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Authentication failed", "Account no longer exists")
			return false
		}
		HandleAPIError(c, err)
		return false
	}

	switch {
	case !u.IsActive:
		HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrAccountDeactivated, "Your account has been deactivated"))
		return false
	case u.IsRejected():
		HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrAccountRejected, "Your account registration was rejected"))
		return false
	}

	c.Set(ContextRole, u.Role)
	c.Set(ContextPendingApproval, u.Role == models.RoleAlumni && !u.IsApproved)
	return true
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message, details string) {
	errorDetail := dto.NewErrorDetail(code, message).WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// JWTAuth validates the bearer token and stores the caller in the context
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Authentication failed", "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Authentication failed", "Invalid token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, models.RoleType(claims.Role))

		if m.accounts != nil && !m.checkAccount(c, claims.UserID) {
			return
		}

		c.Next()
	}
}

// RoleRequired allows the request through when the caller has one of roles.
// Alumni still awaiting approval are refused. It must run after JWTAuth.
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := CurrentRole(c)
		if !exists {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "User role not found")
			return
		}
		if c.GetBool(ContextPendingApproval) {
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrPendingApproval, "Your account is pending admin approval"))
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}

// CurrentUserID returns the authenticated user's id
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

// CurrentRole returns the authenticated user's role
func CurrentRole(c *gin.Context) (models.RoleType, bool) {
	v, exists := c.Get(ContextRole)
	if !exists {
		return "", false
	}
	role, ok := v.(models.RoleType)
	return role, ok
}
