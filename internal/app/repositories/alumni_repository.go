package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/db"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// IAlumniRepository is the directory query surface
type IAlumniRepository interface {
	Search(ctx context.Context, filter models.AlumniFilter, includeUnapproved bool) ([]models.AlumniListing, error)
}

// AlumniRepository runs alumni directory queries
type AlumniRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

var _ IAlumniRepository = (*AlumniRepository)(nil)

// NewAlumniRepository creates a new AlumniRepository
func NewAlumniRepository(pool *pgxpool.Pool) *AlumniRepository {
	return &AlumniRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// buildSearch composes the directory query. Every filter is optional and
// filters combine with AND. Text filters are case-insensitive substring
// matches; skills match when the profile shares at least one listed skill.
func (r *AlumniRepository) buildSearch(filter models.AlumniFilter, includeUnapproved bool) squirrel.SelectBuilder {
	where := squirrel.And{squirrel.Eq{"u.role": string(models.RoleAlumni)}}

	if !includeUnapproved {
		where = append(where,
			squirrel.Eq{"u.is_approved": true},
			squirrel.Eq{"u.is_active": true},
			squirrel.Eq{"u.rejected_at": nil},
		)
	}

	if name := strings.TrimSpace(filter.Name); name != "" {
		where = append(where, squirrel.ILike{"u.name": "%" + name + "%"})
	}
	if company := strings.TrimSpace(filter.Company); company != "" {
		where = append(where, squirrel.ILike{"ap.company": "%" + company + "%"})
	}
	if dept := strings.TrimSpace(filter.Department); dept != "" {
		where = append(where, squirrel.ILike{"ap.department": "%" + dept + "%"})
	}
	if batch := strings.TrimSpace(filter.Batch); batch != "" {
		where = append(where, squirrel.Eq{"ap.batch": batch})
	}
	if level := strings.TrimSpace(filter.ExperienceLevel); level != "" {
		where = append(where, squirrel.Eq{"ap.experience_level": level})
	}
	if filter.OnlyAvailable {
		where = append(where, squirrel.Eq{"ap.mentorship_available": true})
	}
	if len(filter.Skills) > 0 {
		where = append(where, squirrel.Expr("ap.skills && ?::text[]", filter.Skills))
	}

	return r.sb.Select(
		"u.id", "u.name", "u.email", "u.college",
		"ap.company", "ap.job_role", "ap.department", "ap.batch",
		"ap.skills", "ap.experience_level", "ap.mentorship_available", "ap.bio",
	).
		From("users u").
		Join("alumni_profiles ap ON ap.user_id = u.id").
		Where(where).
		OrderBy("u.created_at DESC", "u.id DESC")
}

// Search returns the alumni matching filter, newest first
func (r *AlumniRepository) Search(ctx context.Context, filter models.AlumniFilter, includeUnapproved bool) ([]models.AlumniListing, error) {
	sql, args, err := r.buildSearch(filter, includeUnapproved).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building alumni search SQL")
		return nil, fmt.Errorf("failed to build alumni search query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing alumni search query")
		return nil, fmt.Errorf("failed to search alumni: %w", err)
	}
	defer rows.Close()

	listings := make([]models.AlumniListing, 0)
	for rows.Next() {
		var a models.AlumniListing
		if err := rows.Scan(
			&a.ID, &a.Name, &a.Email, &a.College,
			&a.Company, &a.JobRole, &a.Department, &a.Batch,
			&a.Skills, &a.ExperienceLevel, &a.MentorshipAvailable, &a.Bio,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alumni row: %w", err)
		}
		listings = append(listings, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alumni rows: %w", err)
	}

	return listings, nil
}
