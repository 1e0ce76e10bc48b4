package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/filestorage"
)

// resumeSubPath is the storage folder for student resumes
const resumeSubPath = "resumes"

var allowedResumeExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// ProfileService edits role profiles
type ProfileService interface {
	UpdateAlumniProfile(ctx context.Context, alumniID int64, req *dto.UpdateAlumniProfileRequest) (*models.AlumniProfile, error)
	UploadResume(ctx context.Context, studentID int64, file *multipart.FileHeader) (*dto.ResumeUploadResponse, error)
}

type profileService struct {
	userRepo       repositories.IUserRepository
	storage        filestorage.FileStorage
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo repositories.IUserRepository, storage filestorage.FileStorage, maxUploadBytes int64, logger zerolog.Logger) ProfileService {
	return &profileService{
		userRepo:       userRepo,
		storage:        storage,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// UpdateAlumniProfile replaces the editable profile fields. Skills are normalized.
func (s *profileService) UpdateAlumniProfile(ctx context.Context, alumniID int64, req *dto.UpdateAlumniProfileRequest) (*models.AlumniProfile, error) {
	p := &models.AlumniProfile{
		UserID:          alumniID,
		Company:         strings.TrimSpace(req.Company),
		JobRole:         strings.TrimSpace(req.JobRole),
		Department:      strings.TrimSpace(req.Department),
		Batch:           strings.TrimSpace(req.Batch),
		Skills:          models.NormalizeSkills(req.Skills),
		ExperienceLevel: optionalString(req.ExperienceLevel),
		Bio:             optionalString(req.Bio),
	}
	required := []struct{ field, value string }{
		{"company", p.Company},
		{"job_role", p.JobRole},
		{"department", p.Department},
		{"batch", p.Batch},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, apperrors.NewValidationError(r.field, r.field+" is required")
		}
	}

	updated, err := s.userRepo.UpdateAlumniProfile(ctx, p)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("alumniID", alumniID).Msg("Alumni profile updated")
	return updated, nil
}

// UploadResume stores the file and points the student profile at it.
// The previous resume, if any, is removed after the profile is updated.
func (s *profileService) UploadResume(ctx context.Context, studentID int64, file *multipart.FileHeader) (*dto.ResumeUploadResponse, error) {
	if file == nil {
		return nil, apperrors.NewValidationError("resume", "No file uploaded")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedResumeExtensions[ext] {
		return nil, apperrors.NewValidationError("resume", "Only .pdf, .doc and .docx files are allowed")
	}
	if s.maxUploadBytes > 0 && file.Size > s.maxUploadBytes {
		return nil, apperrors.NewValidationError("resume", fmt.Sprintf("File must be at most %d bytes", s.maxUploadBytes))
	}

	url, err := s.storage.SaveFileWithPath(ctx, file, resumeSubPath)
	if err != nil {
		return nil, fmt.Errorf("failed to store resume: %w", err)
	}

	previous, err := s.userRepo.SetResumeURL(ctx, studentID, url)
	if err != nil {
		if delErr := s.storage.DeleteFile(ctx, url); delErr != nil {
			s.logger.Warn().Err(delErr).Str("url", url).Msg("Failed to remove orphaned resume")
		}
		return nil, err
	}

	if previous != nil && *previous != "" && *previous != url {
		if err := s.storage.DeleteFile(ctx, *previous); err != nil {
			s.logger.Warn().Err(err).Str("url", *previous).Msg("Failed to delete previous resume")
		}
	}

	s.logger.Info().Int64("studentID", studentID).Str("url", url).Msg("Resume uploaded")
	return &dto.ResumeUploadResponse{Message: "Resume uploaded successfully", ResumeURL: url}, nil
}
