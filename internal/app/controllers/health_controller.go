package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusconnect/internal/app/models/dto"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports liveness
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController. db may be nil.
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(pingCtx); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Database unavailable")
			ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
			return
		}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
}

// Ping answers pong
func (c *HealthController) Ping(ctx *gin.Context) {
	ctx.String(http.StatusOK, "pong")
}
