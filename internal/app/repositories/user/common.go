package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/db"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// Columns is the users projection shared by every user read
var Columns = []string{
	"id", "name", "email", "phone_number", "password_hash", "role", "college",
	"otp_code", "otp_expiry", "is_approved", "is_active", "is_verified",
	"rejected_at", "created_at", "updated_at",
}

// Scan reads a row produced by Columns
func Scan(row pgx.Row, u *models.User) error {
	return row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Role, &u.College,
		&u.OTPCode, &u.OTPExpiry, &u.IsApproved, &u.IsActive, &u.IsVerified,
		&u.RejectedAt, &u.CreatedAt, &u.UpdatedAt,
	)
}

// Repository handles common user database operations
type Repository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewRepository creates a new Repository
func NewRepository(q db.Querier) *Repository {
	return &Repository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a copy of the repository bound to tx
func (r *Repository) WithTx(tx pgx.Tx) *Repository {
	return &Repository{db: tx, sb: r.sb}
}

// CreateUser inserts a user row and sets its ID and timestamps
func (r *Repository) CreateUser(ctx context.Context, u *models.User) error {
	sql, args, err := r.sb.Insert("users").
		Columns("name", "email", "phone_number", "password_hash", "role", "college",
			"otp_code", "otp_expiry", "is_approved", "is_active", "is_verified").
		Values(u.Name, u.Email, u.PhoneNumber, u.PasswordHash, u.Role, u.College,
			u.OTPCode, u.OTPExpiry, u.IsApproved, u.IsActive, u.IsVerified).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *Repository) getBy(ctx context.Context, column string, value any) (*models.User, error) {
	sql, args, err := r.sb.Select(Columns...).
		From("users").
		Where(squirrel.Eq{column: value}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	u := &models.User{}
	if err := Scan(r.db.QueryRow(ctx, sql, args...), u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("column", column).Msg("Error fetching user")
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return u, nil
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetUserByEmail retrieves a user by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

// GetUserByPhone retrieves a user by phone number
func (r *Repository) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.getBy(ctx, "phone_number", phone)
}

// Taken reports which of email and phone already belong to a user
func (r *Repository) Taken(ctx context.Context, email, phone string) (emailTaken, phoneTaken bool, err error) {
	err = r.db.QueryRow(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM users WHERE email = $1),
			EXISTS(SELECT 1 FROM users WHERE phone_number = $2)`,
		email, phone).Scan(&emailTaken, &phoneTaken)
	if err != nil {
		return false, false, fmt.Errorf("error checking existing user: %w", err)
	}
	return emailTaken, phoneTaken, nil
}

// SetOTP stores a new code and expiry together
func (r *Repository) SetOTP(ctx context.Context, userID int64, code string, expiry time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET otp_code = $2, otp_expiry = $3, updated_at = NOW()
		WHERE id = $1`,
		userID, code, expiry)
	if err != nil {
		return fmt.Errorf("error storing otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// ConsumeOTP marks the user verified and clears the OTP pair, but only while
// code is still the stored, unexpired code. It reports whether a row changed.
func (r *Repository) ConsumeOTP(ctx context.Context, userID int64, code string, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET is_verified = TRUE, otp_code = NULL, otp_expiry = NULL, updated_at = NOW()
		WHERE id = $1 AND otp_code = $2 AND otp_expiry > $3`,
		userID, code, now)
	if err != nil {
		return false, fmt.Errorf("error consuming otp: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// UpdatePassword replaces the hash and clears any outstanding OTP
func (r *Repository) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, otp_code = NULL, otp_expiry = NULL, updated_at = NOW()
		WHERE id = $1`,
		userID, hash)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePasswordWithOTP replaces the hash only while code is the stored,
// unexpired code, clearing the pair in the same statement.
func (r *Repository) UpdatePasswordWithOTP(ctx context.Context, userID int64, code string, now time.Time, hash string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $4, otp_code = NULL, otp_expiry = NULL, updated_at = NOW()
		WHERE id = $1 AND otp_code = $2 AND otp_expiry > $3`,
		userID, code, now, hash)
	if err != nil {
		return false, fmt.Errorf("error updating password: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AdminExists reports whether any admin account exists
func (r *Repository) AdminExists(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE role = 'admin')`).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking admin: %w", err)
	}
	return exists, nil
}
