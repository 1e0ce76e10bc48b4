package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/repositories/user"
	"github.com/yigit/campusconnect/internal/db"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// IAdminRepository is the store surface of the admin console
type IAdminRepository interface {
	Stats(ctx context.Context) (*models.AdminStats, error)
	ListPendingAlumni(ctx context.Context) ([]models.PendingAlumni, error)
	ListUsers(ctx context.Context, role models.RoleType, offset uint64, limit int) ([]models.User, int64, error)
	Approve(ctx context.Context, userID int64) error
	Reject(ctx context.Context, userID int64) error
	ToggleActive(ctx context.Context, userID int64) (bool, error)
}

// AdminRepository handles admin console queries
type AdminRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

var _ IAdminRepository = (*AdminRepository)(nil)

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// pendingAlumniWhere selects verified alumni nobody has decided on yet
var pendingAlumniWhere = squirrel.And{
	squirrel.Eq{"u.role": string(models.RoleAlumni)},
	squirrel.Eq{"u.is_verified": true},
	squirrel.Eq{"u.is_approved": false},
	squirrel.Eq{"u.rejected_at": nil},
}

// Stats collects the dashboard counters in a single round trip
func (r *AdminRepository) Stats(ctx context.Context) (*models.AdminStats, error) {
	// built with ? placeholders; the outer builder numbers them
	pendingSQL, pendingArgs, err := squirrel.Select("COUNT(*)").From("users u").Where(pendingAlumniWhere).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pending alumni count: %w", err)
	}

	sql, args, err := r.sb.Select(
		"(SELECT COUNT(*) FROM users WHERE role <> 'admin')",
		"(SELECT COUNT(*) FROM users WHERE role = 'student')",
		"(SELECT COUNT(*) FROM users WHERE role = 'alumni')",
	).
		Column(squirrel.Expr("("+pendingSQL+")", pendingArgs...)).
		Columns(
			"(SELECT COUNT(*) FROM mentorship_requests)",
			"(SELECT COUNT(*) FROM mentorship_requests WHERE status = 'pending')",
			"(SELECT COUNT(*) FROM mentorship_requests WHERE status = 'accepted')",
			"(SELECT COUNT(*) FROM events)",
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build stats query: %w", err)
	}

	s := &models.AdminStats{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(
		&s.TotalUsers, &s.TotalStudents, &s.TotalAlumni, &s.PendingAlumni,
		&s.TotalRequests, &s.PendingRequests, &s.AcceptedRequests, &s.TotalEvents,
	); err != nil {
		logger.Error().Err(err).Msg("Error collecting admin stats")
		return nil, fmt.Errorf("error collecting stats: %w", err)
	}
	return s, nil
}

// ListPendingAlumni returns the approval queue, newest first
func (r *AdminRepository) ListPendingAlumni(ctx context.Context) ([]models.PendingAlumni, error) {
	sql, args, err := r.sb.Select(
		"u.id", "u.name", "u.email", "u.college",
		"COALESCE(ap.company, '')", "COALESCE(ap.job_role, '')", "COALESCE(ap.batch, '')", "u.created_at",
	).
		From("users u").
		LeftJoin("alumni_profiles ap ON ap.user_id = u.id").
		Where(pendingAlumniWhere).
		OrderBy("u.created_at DESC", "u.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build pending alumni query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing pending alumni: %w", err)
	}
	defer rows.Close()

	out := make([]models.PendingAlumni, 0)
	for rows.Next() {
		var p models.PendingAlumni
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.College, &p.Company, &p.JobRole, &p.Batch, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pending alumni: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListUsers pages through users. An empty role lists every non-admin user.
func (r *AdminRepository) ListUsers(ctx context.Context, role models.RoleType, offset uint64, limit int) ([]models.User, int64, error) {
	where := squirrel.And{}
	if role != "" {
		where = append(where, squirrel.Eq{"role": string(role)})
	} else {
		where = append(where, squirrel.NotEq{"role": string(models.RoleAdmin)})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count users query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}
	if total == 0 {
		return []models.User{}, 0, nil
	}

	sql, args, err := r.sb.Select(user.Columns...).
		From("users").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, limit)
	for rows.Next() {
		var u models.User
		if err := user.Scan(rows, &u); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// Approve marks a pending alumni approved. Anything not in the queue is a conflict.
func (r *AdminRepository) Approve(ctx context.Context, userID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET is_approved = TRUE, updated_at = NOW()
		WHERE id = $1 AND role = 'alumni' AND is_verified AND NOT is_approved AND rejected_at IS NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("error approving user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notPending(ctx, userID)
	}
	return nil
}

// Reject marks a pending alumni rejected. Rejection is final.
func (r *AdminRepository) Reject(ctx context.Context, userID int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET is_approved = FALSE, rejected_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND role = 'alumni' AND is_verified AND NOT is_approved AND rejected_at IS NULL`,
		userID)
	if err != nil {
		return fmt.Errorf("error rejecting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.notPending(ctx, userID)
	}
	return nil
}

func (r *AdminRepository) notPending(ctx context.Context, userID int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("error checking user: %w", err)
	}
	if !exists {
		return apperrors.ErrUserNotFound
	}
	return apperrors.NewCustomError(apperrors.ErrNotPendingApproval, "User is not awaiting approval")
}

// ToggleActive flips is_active and returns the new value
func (r *AdminRepository) ToggleActive(ctx context.Context, userID int64) (bool, error) {
	var active bool
	err := r.db.QueryRow(ctx, `
		UPDATE users SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING is_active`, userID).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.ErrUserNotFound
		}
		return false, fmt.Errorf("error toggling user status: %w", err)
	}
	return active, nil
}
