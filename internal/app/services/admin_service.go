package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/helpers"
)

// AdminService backs the admin console
type AdminService interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
	PendingAlumni(ctx context.Context) ([]models.PendingAlumni, error)
	ListUsers(ctx context.Context, role string, page, size int) (*dto.UserListResponse, error)
	UpdateApproval(ctx context.Context, req *dto.UpdateApprovalRequest) error
	ToggleUserStatus(ctx context.Context, adminID, userID int64) (*dto.ToggleStatusResponse, error)
}

type adminService struct {
	adminRepo repositories.IAdminRepository
	logger    zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(adminRepo repositories.IAdminRepository, logger zerolog.Logger) AdminService {
	return &adminService{adminRepo: adminRepo, logger: logger}
}

func (s *adminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	return s.adminRepo.Stats(ctx)
}

func (s *adminService) PendingAlumni(ctx context.Context) ([]models.PendingAlumni, error) {
	return s.adminRepo.ListPendingAlumni(ctx)
}

// ListUsers returns one page of users. Admin accounts are only listed when
// role is admin.
func (s *adminService) ListUsers(ctx context.Context, role string, page, size int) (*dto.UserListResponse, error) {
	r := models.RoleType(strings.ToLower(strings.TrimSpace(role)))
	if r != "" && !r.IsValid() {
		return nil, apperrors.NewValidationError("role", "Role must be student, alumni or admin")
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	users, total, err := s.adminRepo.ListUsers(ctx, r, offset, limit)
	if err != nil {
		return nil, err
	}

	return &dto.UserListResponse{
		Users:      users,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// UpdateApproval approves or rejects a pending alumni
func (s *adminService) UpdateApproval(ctx context.Context, req *dto.UpdateApprovalRequest) error {
	var err error
	switch req.Status {
	case dto.ApprovalApproved:
		err = s.adminRepo.Approve(ctx, req.UserID)
	case dto.ApprovalRejected:
		err = s.adminRepo.Reject(ctx, req.UserID)
	default:
		return apperrors.NewValidationError("status", "Status must be approved or rejected")
	}
	if err != nil {
		return err
	}

	s.logger.Info().Int64("userID", req.UserID).Str("decision", string(req.Status)).Msg("Alumni approval updated")
	return nil
}

// ToggleUserStatus flips is_active. Admins cannot switch themselves off.
func (s *adminService) ToggleUserStatus(ctx context.Context, adminID, userID int64) (*dto.ToggleStatusResponse, error) {
	if adminID == userID {
		return nil, apperrors.NewBadRequestError("You cannot deactivate your own account")
	}

	active, err := s.adminRepo.ToggleActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("adminID", adminID).Int64("userID", userID).Bool("active", active).Msg("User status toggled")
	return &dto.ToggleStatusResponse{UserID: userID, IsActive: active}, nil
}
