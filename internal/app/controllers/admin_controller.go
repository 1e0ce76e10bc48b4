package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/services"
	"github.com/yigit/campusconnect/internal/middleware"
	"github.com/yigit/campusconnect/internal/pkg/helpers"
)

// AdminController serves the admin console
type AdminController struct {
	adminService services.AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{adminService: adminService, logger: logger}
}

// Stats returns the dashboard counters
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.AdminStats}
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.adminService.Stats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// PendingAlumni returns the approval queue
// @Summary Alumni awaiting approval
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.PendingAlumni}
// @Router /admin/pending-alumni [get]
func (c *AdminController) PendingAlumni(ctx *gin.Context) {
	pending, err := c.adminService.PendingAlumni(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(pending))
}

// ListUsers returns a page of users
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "student, alumni or admin"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	users, err := c.adminService.ListUsers(ctx.Request.Context(), ctx.Query("role"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(users))
}

// UpdateApproval approves or rejects a pending alumni
// @Summary Approve or reject an alumni
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateApprovalRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=dto.MessageResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "User is not awaiting approval"
// @Router /admin/update-approval [post]
func (c *AdminController) UpdateApproval(ctx *gin.Context) {
	var req dto.UpdateApprovalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	if err := c.adminService.UpdateApproval(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MessageResponse{Message: "User " + string(req.Status)}))
}

// ToggleUserStatus activates or deactivates a user
// @Summary Toggle user active status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleStatusResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/users/{id}/toggle-status [patch]
func (c *AdminController) ToggleUserStatus(ctx *gin.Context) {
	adminID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	userID, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp, err := c.adminService.ToggleUserStatus(ctx.Request.Context(), adminID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
