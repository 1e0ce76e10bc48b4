package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/services"
	"github.com/yigit/campusconnect/internal/middleware"
)

// AlumniController serves the alumni area
type AlumniController struct {
	mentorshipService services.MentorshipService
	profileService    services.ProfileService
	logger            zerolog.Logger
}

// NewAlumniController creates a new AlumniController
func NewAlumniController(mentorshipService services.MentorshipService, profileService services.ProfileService, logger zerolog.Logger) *AlumniController {
	return &AlumniController{
		mentorshipService: mentorshipService,
		profileService:    profileService,
		logger:            logger,
	}
}

// ListRequests returns the alumni inbox
// @Summary List incoming mentorship requests
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.IncomingRequest}
// @Router /alumni/requests [get]
func (c *AlumniController) ListRequests(ctx *gin.Context) {
	alumniID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	requests, err := c.mentorshipService.ListIncoming(ctx.Request.Context(), alumniID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// ToggleMentorship flips the availability flag
// @Summary Toggle mentorship availability
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MentorshipAvailabilityResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /alumni/mentorship-status [patch]
func (c *AlumniController) ToggleMentorship(ctx *gin.Context) {
	alumniID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	available, err := c.mentorshipService.ToggleAvailability(ctx.Request.Context(), alumniID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MentorshipAvailabilityResponse{MentorshipAvailable: available}))
}

// UpdateProfile replaces the editable profile fields
// @Summary Update alumni profile
// @Tags alumni
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateAlumniProfileRequest true "Profile"
// @Success 200 {object} dto.APIResponse{data=models.AlumniProfile}
// @Failure 400 {object} dto.ErrorResponse
// @Router /alumni/profile [put]
func (c *AlumniController) UpdateProfile(ctx *gin.Context) {
	alumniID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateAlumniProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	profile, err := c.profileService.UpdateAlumniProfile(ctx.Request.Context(), alumniID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(profile))
}

// UpdateRequestStatus accepts or rejects a pending request
// @Summary Decide a mentorship request
// @Tags mentorship
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.UpdateMentorshipStatusRequest true "accepted or rejected"
// @Success 200 {object} dto.APIResponse{data=models.MentorshipRequest}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Request addressed to another alumni"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Request already decided"
// @Router /mentorship/{id}/status [patch]
func (c *AlumniController) UpdateRequestStatus(ctx *gin.Context) {
	alumniID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	requestID, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateMentorshipStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	updated, err := c.mentorshipService.UpdateStatus(ctx.Request.Context(), alumniID, requestID, req.Status)
	if err != nil {
		c.logger.Warn().Err(err).Int64("requestID", requestID).Msg("Mentorship status update refused")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(updated))
}
