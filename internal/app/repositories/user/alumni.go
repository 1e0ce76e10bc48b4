package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/db"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

var alumniProfileColumns = []string{
	"user_id", "company", "job_role", "department", "batch",
	"skills", "experience_level", "mentorship_available", "bio",
}

func scanAlumniProfile(row pgx.Row, p *models.AlumniProfile) error {
	return row.Scan(&p.UserID, &p.Company, &p.JobRole, &p.Department, &p.Batch,
		&p.Skills, &p.ExperienceLevel, &p.MentorshipAvailable, &p.Bio)
}

// AlumniRepository handles alumni_profiles database operations
type AlumniRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewAlumniRepository creates a new AlumniRepository
func NewAlumniRepository(q db.Querier) *AlumniRepository {
	return &AlumniRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a copy of the repository bound to tx
func (r *AlumniRepository) WithTx(tx pgx.Tx) *AlumniRepository {
	return &AlumniRepository{db: tx, sb: r.sb}
}

// CreateProfile inserts the alumni profile row
func (r *AlumniRepository) CreateProfile(ctx context.Context, p *models.AlumniProfile) error {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	sql, args, err := r.sb.Insert("alumni_profiles").
		Columns("user_id", "company", "job_role", "department", "batch", "skills", "experience_level", "mentorship_available", "bio").
		Values(p.UserID, p.Company, p.JobRole, p.Department, p.Batch, skills, p.ExperienceLevel, p.MentorshipAvailable, p.Bio).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create alumni profile query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error creating alumni profile: %w", err)
	}
	return nil
}

// GetProfile retrieves the profile of an alumni user
func (r *AlumniRepository) GetProfile(ctx context.Context, userID int64) (*models.AlumniProfile, error) {
	sql, args, err := r.sb.Select(alumniProfileColumns...).
		From("alumni_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get alumni profile query: %w", err)
	}

	p := &models.AlumniProfile{}
	if err := scanAlumniProfile(r.db.QueryRow(ctx, sql, args...), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("alumni profile not found")
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error fetching alumni profile")
		return nil, fmt.Errorf("error fetching alumni profile: %w", err)
	}
	return p, nil
}

// UpdateProfile overwrites the editable profile fields
func (r *AlumniRepository) UpdateProfile(ctx context.Context, p *models.AlumniProfile) (*models.AlumniProfile, error) {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}

	sql, args, err := r.sb.Update("alumni_profiles").
		Set("company", p.Company).
		Set("job_role", p.JobRole).
		Set("department", p.Department).
		Set("batch", p.Batch).
		Set("skills", skills).
		Set("experience_level", p.ExperienceLevel).
		Set("bio", p.Bio).
		Where(squirrel.Eq{"user_id": p.UserID}).
		Suffix("RETURNING " + strings.Join(alumniProfileColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update alumni profile query: %w", err)
	}

	updated := &models.AlumniProfile{}
	if err := scanAlumniProfile(r.db.QueryRow(ctx, sql, args...), updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("alumni profile not found")
		}
		return nil, fmt.Errorf("error updating alumni profile: %w", err)
	}
	return updated, nil
}

// ToggleMentorship flips mentorship_available in one statement and returns the new value
func (r *AlumniRepository) ToggleMentorship(ctx context.Context, userID int64) (bool, error) {
	var available bool
	err := r.db.QueryRow(ctx, `
		UPDATE alumni_profiles
		SET mentorship_available = NOT mentorship_available
		WHERE user_id = $1
		RETURNING mentorship_available`,
		userID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.NewResourceNotFoundError("alumni profile not found")
		}
		return false, fmt.Errorf("error toggling mentorship availability: %w", err)
	}
	return available, nil
}
