package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/validation"
)

// MentorshipService runs the mentorship request workflow
type MentorshipService interface {
	SendRequest(ctx context.Context, studentID int64, req *dto.SendMentorshipRequest) (*models.MentorshipRequest, error)
	UpdateStatus(ctx context.Context, alumniID, requestID int64, status models.MentorshipStatus) (*models.MentorshipRequest, error)
	ToggleAvailability(ctx context.Context, alumniID int64) (bool, error)
	ListIncoming(ctx context.Context, alumniID int64) ([]models.IncomingRequest, error)
	ListOutgoing(ctx context.Context, studentID int64) ([]models.OutgoingRequest, error)
}

type mentorshipService struct {
	mentorshipRepo repositories.IMentorshipRepository
	userRepo       repositories.IUserRepository
	logger         zerolog.Logger
}

// NewMentorshipService creates a new MentorshipService
func NewMentorshipService(mentorshipRepo repositories.IMentorshipRepository, userRepo repositories.IUserRepository, logger zerolog.Logger) MentorshipService {
	return &mentorshipService{
		mentorshipRepo: mentorshipRepo,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// SendRequest files a pending request from a student to an alumni who is
// approved and active
func (s *mentorshipService) SendRequest(ctx context.Context, studentID int64, req *dto.SendMentorshipRequest) (*models.MentorshipRequest, error) {
	if !req.Purpose.IsValid() {
		return nil, apperrors.NewValidationError("purpose", "Purpose must be one of career_guidance, resume_review, interview_prep, referral")
	}
	if !validation.ValidMessage(req.Message) {
		return nil, apperrors.NewValidationError("message", "Message must be between 1 and 2000 characters")
	}
	if req.AlumniID == studentID {
		return nil, apperrors.NewValidationError("alumni_id", "You cannot send a request to yourself")
	}

	target, err := s.userRepo.GetByID(ctx, req.AlumniID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("Alumni not found")
		}
		return nil, err
	}
	if target.Role != models.RoleAlumni {
		return nil, apperrors.NewResourceNotFoundError("Alumni not found")
	}
	if !target.IsApproved || !target.IsActive || target.IsRejected() {
		return nil, apperrors.NewForbiddenError("This alumni is not accepting requests")
	}

	mr := &models.MentorshipRequest{
		StudentID: studentID,
		AlumniID:  req.AlumniID,
		Purpose:   req.Purpose,
		Message:   strings.TrimSpace(req.Message),
	}
	if err := s.mentorshipRepo.Create(ctx, mr); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", mr.ID).Int64("studentID", studentID).Int64("alumniID", req.AlumniID).Msg("Mentorship request sent")
	return mr, nil
}

// UpdateStatus accepts or rejects a pending request addressed to alumniID
func (s *mentorshipService) UpdateStatus(ctx context.Context, alumniID, requestID int64, status models.MentorshipStatus) (*models.MentorshipRequest, error) {
	if !models.MentorshipPending.CanTransitionTo(status) {
		return nil, apperrors.NewValidationError("status", "Status must be accepted or rejected")
	}

	updated, err := s.mentorshipRepo.TransitionFromPending(ctx, requestID, alumniID, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("requestID", requestID).Int64("alumniID", alumniID).Str("status", string(status)).Msg("Mentorship request decided")
	return updated, nil
}

func (s *mentorshipService) ToggleAvailability(ctx context.Context, alumniID int64) (bool, error) {
	available, err := s.userRepo.ToggleMentorship(ctx, alumniID)
	if err != nil {
		return false, err
	}
	s.logger.Info().Int64("alumniID", alumniID).Bool("available", available).Msg("Mentorship availability toggled")
	return available, nil
}

func (s *mentorshipService) ListIncoming(ctx context.Context, alumniID int64) ([]models.IncomingRequest, error) {
	return s.mentorshipRepo.ListForAlumni(ctx, alumniID)
}

func (s *mentorshipService) ListOutgoing(ctx context.Context, studentID int64) ([]models.OutgoingRequest, error) {
	return s.mentorshipRepo.ListForStudent(ctx, studentID)
}
