package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

func seedAdminUsers(users *fakeUserRepo) (admin, pending *models.User) {
	admin = users.add(&models.User{Name: "Admin", Email: "admin@college.edu", PhoneNumber: "9000000000", Role: models.RoleAdmin, IsVerified: true, IsApproved: true, IsActive: true})
	for i, phone := range []string{"9000000011", "9000000012", "9000000013"} {
		users.add(&models.User{Name: "Student", Email: phone + "@college.edu", PhoneNumber: phone, Role: models.RoleStudent, IsVerified: true, IsApproved: true, IsActive: i != 2})
	}
	pending = users.add(&models.User{Name: "Pending", Email: "p@alumni.edu", PhoneNumber: "9000000021", Role: models.RoleAlumni, IsVerified: true, IsActive: true})
	// unverified alumni are not in the approval queue yet
	users.add(&models.User{Name: "Unverified", Email: "u@alumni.edu", PhoneNumber: "9000000022", Role: models.RoleAlumni, IsActive: true})
	return admin, pending
}

func TestAdminStatsAndQueue(t *testing.T) {
	users := newFakeUserRepo()
	_, pending := seedAdminUsers(users)
	svc := NewAdminService(&fakeAdminRepo{users: users}, zerolog.Nop())
	ctx := context.Background()

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.TotalUsers)
	assert.Equal(t, int64(3), stats.TotalStudents)
	assert.Equal(t, int64(2), stats.TotalAlumni)
	assert.Equal(t, int64(1), stats.PendingAlumni)

	queue, err := svc.PendingAlumni(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, pending.ID, queue[0].ID)
}

func TestAdminListUsers(t *testing.T) {
	users := newFakeUserRepo()
	seedAdminUsers(users)
	svc := NewAdminService(&fakeAdminRepo{users: users}, zerolog.Nop())
	ctx := context.Background()

	page, err := svc.ListUsers(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Users, 2)
	assert.Equal(t, int64(5), page.Pagination.TotalItems)
	assert.Equal(t, 3, page.Pagination.TotalPages)

	page, err = svc.ListUsers(ctx, "Student", 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Users, 3)

	page, err = svc.ListUsers(ctx, "admin", 1, 20)
	require.NoError(t, err)
	assert.Len(t, page.Users, 1)

	_, err = svc.ListUsers(ctx, "faculty", 1, 20)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestAdminUpdateApproval(t *testing.T) {
	users := newFakeUserRepo()
	_, pending := seedAdminUsers(users)
	svc := NewAdminService(&fakeAdminRepo{users: users}, zerolog.Nop())
	ctx := context.Background()

	err := svc.UpdateApproval(ctx, &dto.UpdateApprovalRequest{UserID: pending.ID, Status: "maybe"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = svc.UpdateApproval(ctx, &dto.UpdateApprovalRequest{UserID: 999, Status: dto.ApprovalApproved})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	require.NoError(t, svc.UpdateApproval(ctx, &dto.UpdateApprovalRequest{UserID: pending.ID, Status: dto.ApprovalRejected}))
	u, err := users.GetByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.True(t, u.IsRejected())
	assert.False(t, u.IsApproved)

	// rejection is final
	err = svc.UpdateApproval(ctx, &dto.UpdateApprovalRequest{UserID: pending.ID, Status: dto.ApprovalApproved})
	assert.ErrorIs(t, err, apperrors.ErrNotPendingApproval)
}

func TestAdminToggleUserStatus(t *testing.T) {
	users := newFakeUserRepo()
	admin, pending := seedAdminUsers(users)
	svc := NewAdminService(&fakeAdminRepo{users: users}, zerolog.Nop())
	ctx := context.Background()

	resp, err := svc.ToggleUserStatus(ctx, admin.ID, pending.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	resp, err = svc.ToggleUserStatus(ctx, admin.ID, pending.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)

	_, err = svc.ToggleUserStatus(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.ToggleUserStatus(ctx, admin.ID, 999)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
