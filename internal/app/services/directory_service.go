package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
)

// DirectoryService searches the alumni directory
type DirectoryService interface {
	SearchAlumni(ctx context.Context, query dto.AlumniSearchQuery) ([]models.AlumniListing, error)
}

type directoryService struct {
	alumniRepo        repositories.IAlumniRepository
	includeUnapproved bool
	logger            zerolog.Logger
}

// NewDirectoryService creates a new DirectoryService. includeUnapproved lists
// every alumni regardless of approval, activity and rejection.
func NewDirectoryService(alumniRepo repositories.IAlumniRepository, includeUnapproved bool, logger zerolog.Logger) DirectoryService {
	return &directoryService{
		alumniRepo:        alumniRepo,
		includeUnapproved: includeUnapproved,
		logger:            logger,
	}
}

// FilterFromQuery turns raw query parameters into a directory filter
func FilterFromQuery(q dto.AlumniSearchQuery) models.AlumniFilter {
	return models.AlumniFilter{
		Name:            strings.TrimSpace(q.Name),
		Company:         strings.TrimSpace(q.Company),
		Department:      strings.TrimSpace(q.Department),
		Batch:           strings.TrimSpace(q.Batch),
		ExperienceLevel: strings.TrimSpace(q.ExperienceLevel),
		OnlyAvailable:   q.MentorshipAvailable == "true",
		Skills:          models.ParseSkillList(q.Skills),
	}
}

func (s *directoryService) SearchAlumni(ctx context.Context, query dto.AlumniSearchQuery) ([]models.AlumniListing, error) {
	filter := FilterFromQuery(query)
	results, err := s.alumniRepo.Search(ctx, filter, s.includeUnapproved)
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("count", len(results)).Strs("skills", filter.Skills).Msg("Alumni search")
	return results, nil
}
