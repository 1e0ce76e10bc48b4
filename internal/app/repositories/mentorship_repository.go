package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/db"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/dberrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// IMentorshipRepository persists mentorship requests
type IMentorshipRepository interface {
	Create(ctx context.Context, req *models.MentorshipRequest) error
	GetByID(ctx context.Context, id int64) (*models.MentorshipRequest, error)
	// TransitionFromPending moves a pending request owned by alumniID to next.
	TransitionFromPending(ctx context.Context, id, alumniID int64, next models.MentorshipStatus) (*models.MentorshipRequest, error)
	ListForAlumni(ctx context.Context, alumniID int64) ([]models.IncomingRequest, error)
	ListForStudent(ctx context.Context, studentID int64) ([]models.OutgoingRequest, error)
}

// MentorshipRepository handles mentorship_requests database operations
type MentorshipRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

var _ IMentorshipRepository = (*MentorshipRepository)(nil)

// NewMentorshipRepository creates a new MentorshipRepository
func NewMentorshipRepository(pool *pgxpool.Pool) *MentorshipRepository {
	return &MentorshipRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const mentorshipReturning = "RETURNING id, student_id, alumni_id, purpose, message, status, created_at, updated_at"

func scanMentorship(row pgx.Row, m *models.MentorshipRequest) error {
	return row.Scan(&m.ID, &m.StudentID, &m.AlumniID, &m.Purpose, &m.Message, &m.Status, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts a pending request. A second pending request for the same
// student and alumni pair is rejected by the partial unique index.
func (r *MentorshipRepository) Create(ctx context.Context, req *models.MentorshipRequest) error {
	sql, args, err := r.sb.Insert("mentorship_requests").
		Columns("student_id", "alumni_id", "purpose", "message", "status").
		Values(req.StudentID, req.AlumniID, req.Purpose, req.Message, models.MentorshipPending).
		Suffix(mentorshipReturning).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create mentorship request query: %w", err)
	}

	if err := scanMentorship(r.db.QueryRow(ctx, sql, args...), req); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintMentorshipOnePending) {
			return apperrors.NewCustomError(apperrors.ErrDuplicatePendingRequest, "You already have a pending request with this alumni")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.NewResourceNotFoundError("alumni not found")
		}
		logger.Error().Err(err).Int64("studentID", req.StudentID).Int64("alumniID", req.AlumniID).Msg("Error creating mentorship request")
		return fmt.Errorf("error creating mentorship request: %w", err)
	}
	return nil
}

// GetByID retrieves a single request
func (r *MentorshipRepository) GetByID(ctx context.Context, id int64) (*models.MentorshipRequest, error) {
	m := &models.MentorshipRequest{}
	err := scanMentorship(r.db.QueryRow(ctx, `
		SELECT id, student_id, alumni_id, purpose, message, status, created_at, updated_at
		FROM mentorship_requests WHERE id = $1`, id), m)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("mentorship request not found")
		}
		return nil, fmt.Errorf("error fetching mentorship request: %w", err)
	}
	return m, nil
}

// TransitionFromPending applies next only while the request is pending and
// addressed to alumniID. Concurrent callers race on the same row and exactly
// one of them sees a row updated. When nothing changes the request is re-read
// to report why: missing (not found), someone else's (forbidden) or already
// decided (conflict).
func (r *MentorshipRepository) TransitionFromPending(ctx context.Context, id, alumniID int64, next models.MentorshipStatus) (*models.MentorshipRequest, error) {
	sql, args, err := r.sb.Update("mentorship_requests").
		Set("status", next).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":        id,
			"alumni_id": alumniID,
			"status":    models.MentorshipPending,
		}).
		Suffix(mentorshipReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build transition query: %w", err)
	}

	updated := &models.MentorshipRequest{}
	err = scanMentorship(r.db.QueryRow(ctx, sql, args...), updated)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("error updating mentorship request: %w", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.AlumniID != alumniID {
		return nil, apperrors.NewForbiddenError("this request is not addressed to you")
	}
	return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition,
		fmt.Sprintf("request is already %s", current.Status))
}

// ListForAlumni returns the alumni inbox, newest first
func (r *MentorshipRepository) ListForAlumni(ctx context.Context, alumniID int64) ([]models.IncomingRequest, error) {
	rows, err := r.db.Query(ctx, `
		SELECT mr.id, mr.student_id, mr.alumni_id, mr.purpose, mr.message, mr.status, mr.created_at, mr.updated_at,
		       u.name, u.email,
		       COALESCE(sp.department, ''), COALESCE(sp.batch, ''), COALESCE(sp.register_number, '')
		FROM mentorship_requests mr
		JOIN users u ON u.id = mr.student_id
		LEFT JOIN student_profiles sp ON sp.user_id = mr.student_id
		WHERE mr.alumni_id = $1
		ORDER BY mr.created_at DESC, mr.id DESC`, alumniID)
	if err != nil {
		return nil, fmt.Errorf("error listing incoming requests: %w", err)
	}
	defer rows.Close()

	out := make([]models.IncomingRequest, 0)
	for rows.Next() {
		var in models.IncomingRequest
		m := &in.MentorshipRequest
		if err := rows.Scan(&m.ID, &m.StudentID, &m.AlumniID, &m.Purpose, &m.Message, &m.Status, &m.CreatedAt, &m.UpdatedAt,
			&in.StudentName, &in.StudentEmail, &in.Department, &in.Batch, &in.RegisterNumber); err != nil {
			return nil, fmt.Errorf("failed to scan incoming request: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// ListForStudent returns the requests a student has sent, newest first
func (r *MentorshipRepository) ListForStudent(ctx context.Context, studentID int64) ([]models.OutgoingRequest, error) {
	rows, err := r.db.Query(ctx, `
		SELECT mr.id, mr.student_id, mr.alumni_id, mr.purpose, mr.message, mr.status, mr.created_at, mr.updated_at,
		       u.name, COALESCE(ap.company, ''), COALESCE(ap.job_role, '')
		FROM mentorship_requests mr
		JOIN users u ON u.id = mr.alumni_id
		LEFT JOIN alumni_profiles ap ON ap.user_id = mr.alumni_id
		WHERE mr.student_id = $1
		ORDER BY mr.created_at DESC, mr.id DESC`, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing outgoing requests: %w", err)
	}
	defer rows.Close()

	out := make([]models.OutgoingRequest, 0)
	for rows.Next() {
		var o models.OutgoingRequest
		m := &o.MentorshipRequest
		if err := rows.Scan(&m.ID, &m.StudentID, &m.AlumniID, &m.Purpose, &m.Message, &m.Status, &m.CreatedAt, &m.UpdatedAt,
			&o.AlumniName, &o.Company, &o.JobRole); err != nil {
			return nil, fmt.Errorf("failed to scan outgoing request: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
