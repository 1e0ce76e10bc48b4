package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/db"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// StudentRepository handles student_profiles database operations
type StudentRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(q db.Querier) *StudentRepository {
	return &StudentRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a copy of the repository bound to tx
func (r *StudentRepository) WithTx(tx pgx.Tx) *StudentRepository {
	return &StudentRepository{db: tx, sb: r.sb}
}

// CreateProfile inserts the student profile row
func (r *StudentRepository) CreateProfile(ctx context.Context, p *models.StudentProfile) error {
	sql, args, err := r.sb.Insert("student_profiles").
		Columns("user_id", "department", "register_number", "batch").
		Values(p.UserID, p.Department, p.RegisterNumber, p.Batch).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student profile query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating student profile: %w", err)
	}
	return nil
}

// GetProfile retrieves the profile of a student user
func (r *StudentRepository) GetProfile(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	sql, args, err := r.sb.Select("user_id", "department", "register_number", "batch", "resume_url").
		From("student_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student profile query: %w", err)
	}

	p := &models.StudentProfile{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.UserID, &p.Department, &p.RegisterNumber, &p.Batch, &p.ResumeURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("student profile not found")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error fetching student profile")
		return nil, fmt.Errorf("error fetching student profile: %w", err)
	}
	return p, nil
}

// SetResumeURL stores a new resume URL and returns the previous one, if any
func (r *StudentRepository) SetResumeURL(ctx context.Context, userID int64, url string) (*string, error) {
	var previous *string
	err := r.db.QueryRow(ctx, `
		UPDATE student_profiles sp
		SET resume_url = $2
		FROM (SELECT user_id, resume_url FROM student_profiles WHERE user_id = $1 FOR UPDATE) old
		WHERE sp.user_id = old.user_id
		RETURNING old.resume_url`,
		userID, url).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("student profile not found")
		}
		return nil, fmt.Errorf("error updating resume url: %w", err)
	}
	return previous, nil
}
