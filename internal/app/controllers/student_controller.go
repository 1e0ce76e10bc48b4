package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/services"
	"github.com/yigit/campusconnect/internal/middleware"
)

// StudentController serves the student area: directory, requests and resume
type StudentController struct {
	directoryService  services.DirectoryService
	mentorshipService services.MentorshipService
	profileService    services.ProfileService
	logger            zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(directoryService services.DirectoryService, mentorshipService services.MentorshipService, profileService services.ProfileService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		directoryService:  directoryService,
		mentorshipService: mentorshipService,
		profileService:    profileService,
		logger:            logger,
	}
}

// SearchAlumni lists alumni matching the filters
// @Summary Search the alumni directory
// @Description All filters are optional. skills is comma separated and matches alumni having any of them.
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name contains"
// @Param company query string false "Company contains"
// @Param department query string false "Department"
// @Param batch query string false "Batch"
// @Param skills query string false "Comma separated skills"
// @Param experience_level query string false "Experience level"
// @Param mentorship_available query bool false "Only alumni open to mentorship"
// @Success 200 {object} dto.APIResponse{data=[]models.AlumniListing}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /student/alumni [get]
func (c *StudentController) SearchAlumni(ctx *gin.Context) {
	var query dto.AlumniSearchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	alumni, err := c.directoryService.SearchAlumni(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(alumni))
}

// RequestMentorship sends a mentorship request
// @Summary Request mentorship from an alumni
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMentorshipRequest true "Request"
// @Success 201 {object} dto.APIResponse{data=models.MentorshipRequest}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Alumni not accepting requests"
// @Failure 404 {object} dto.ErrorResponse "Alumni not found"
// @Failure 409 {object} dto.ErrorResponse "A pending request already exists"
// @Router /student/request-mentorship [post]
func (c *StudentController) RequestMentorship(ctx *gin.Context) {
	studentID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.SendMentorshipRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	mr, err := c.mentorshipService.SendRequest(ctx.Request.Context(), studentID, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("studentID", studentID).Int64("alumniID", req.AlumniID).Msg("Mentorship request refused")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(mr))
}

// ListRequests lists the caller's sent requests
// @Summary List my mentorship requests
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.OutgoingRequest}
// @Router /student/requests [get]
func (c *StudentController) ListRequests(ctx *gin.Context) {
	studentID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	requests, err := c.mentorshipService.ListOutgoing(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// UploadResume stores the student's resume
// @Summary Upload resume
// @Tags student
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param resume formData file true "Resume (.pdf, .doc, .docx)"
// @Success 200 {object} dto.APIResponse{data=dto.ResumeUploadResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /student/upload-resume [post]
func (c *StudentController) UploadResume(ctx *gin.Context) {
	studentID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	file, err := ctx.FormFile("resume")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		middleware.HandleBindError(ctx, err)
		return
	}

	resp, err := c.profileService.UploadResume(ctx.Request.Context(), studentID, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
