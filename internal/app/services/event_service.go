package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

// EventService manages campus events
type EventService interface {
	List(ctx context.Context) ([]models.Event, error)
	Create(ctx context.Context, adminID int64, req *dto.EventRequest) (*models.Event, error)
	Update(ctx context.Context, id int64, req *dto.EventRequest) (*models.Event, error)
	Delete(ctx context.Context, id int64) error
}

type eventService struct {
	eventRepo repositories.IEventRepository
	logger    zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repositories.IEventRepository, logger zerolog.Logger) EventService {
	return &eventService{eventRepo: eventRepo, logger: logger}
}

func eventFromRequest(req *dto.EventRequest) (*models.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title", "title is required")
	}
	if !req.Type.IsValid() {
		return nil, apperrors.NewValidationError("type", "Type must be one of general, training, placement, alumni_meet")
	}
	if req.Date.IsZero() {
		return nil, apperrors.NewValidationError("date", "date is required")
	}
	return &models.Event{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Date:        req.Date,
		Type:        req.Type,
	}, nil
}

func (s *eventService) List(ctx context.Context) ([]models.Event, error) {
	return s.eventRepo.List(ctx)
}

func (s *eventService) Create(ctx context.Context, adminID int64, req *dto.EventRequest) (*models.Event, error) {
	e, err := eventFromRequest(req)
	if err != nil {
		return nil, err
	}
	e.CreatedBy = &adminID

	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("eventID", e.ID).Int64("adminID", adminID).Msg("Event created")
	return e, nil
}

func (s *eventService) Update(ctx context.Context, id int64, req *dto.EventRequest) (*models.Event, error) {
	e, err := eventFromRequest(req)
	if err != nil {
		return nil, err
	}
	e.ID = id

	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("eventID", id).Msg("Event deleted")
	return nil
}
