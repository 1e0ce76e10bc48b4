package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/repositories/user"
	"github.com/yigit/campusconnect/internal/db"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/dberrors"
	"github.com/yigit/campusconnect/internal/pkg/logger"
)

// IUserRepository defines the credential and profile store used by the services
type IUserRepository interface {
	// Registration
	CreateWithProfile(ctx context.Context, u *models.User, student *models.StudentProfile, alumni *models.AlumniProfile) error
	Taken(ctx context.Context, email, phone string) (emailTaken, phoneTaken bool, err error)

	// Lookup
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	AdminExists(ctx context.Context) (bool, error)

	// OTP and credentials
	SetOTP(ctx context.Context, userID int64, code string, expiry time.Time) error
	ConsumeOTP(ctx context.Context, userID int64, code string, now time.Time) (bool, error)
	UpdatePassword(ctx context.Context, userID int64, hash string) error
	UpdatePasswordWithOTP(ctx context.Context, userID int64, code string, now time.Time, hash string) (bool, error)

	// Profiles
	GetStudentProfile(ctx context.Context, userID int64) (*models.StudentProfile, error)
	GetAlumniProfile(ctx context.Context, userID int64) (*models.AlumniProfile, error)
	UpdateAlumniProfile(ctx context.Context, p *models.AlumniProfile) (*models.AlumniProfile, error)
	ToggleMentorship(ctx context.Context, userID int64) (bool, error)
	SetResumeURL(ctx context.Context, userID int64, url string) (*string, error)
}

// UserRepository combines all user-related repositories
type UserRepository struct {
	pool    db.TxBeginner
	common  *user.Repository
	student *user.StudentRepository
	alumni  *user.AlumniRepository
}

var _ IUserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		pool:    pool,
		common:  user.NewRepository(pool),
		student: user.NewStudentRepository(pool),
		alumni:  user.NewAlumniRepository(pool),
	}
}

// CreateWithProfile inserts the user and its role profile in one transaction.
// Either both rows exist afterwards or neither does. Unique violations are
// translated into field specific errors.
func (r *UserRepository) CreateWithProfile(ctx context.Context, u *models.User, student *models.StudentProfile, alumni *models.AlumniProfile) error {
	err := db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		if err := r.common.WithTx(tx).CreateUser(ctx, u); err != nil {
			return err
		}

		switch u.Role {
		case models.RoleStudent:
			if student == nil {
				return apperrors.NewBadRequestError("student profile is required")
			}
			student.UserID = u.ID
			return r.student.WithTx(tx).CreateProfile(ctx, student)
		case models.RoleAlumni:
			if alumni == nil {
				return apperrors.NewBadRequestError("alumni profile is required")
			}
			alumni.UserID = u.ID
			return r.alumni.WithTx(tx).CreateProfile(ctx, alumni)
		}
		return nil
	})
	if err != nil {
		u.ID = 0
		return translateDuplicate(err)
	}

	logger.Info().Int64("userID", u.ID).Str("role", string(u.Role)).Msg("User registered")
	return nil
}

// translateDuplicate maps a unique violation on the registration tables to
// the duplicate sentinel for the offending field
func translateDuplicate(err error) error {
	switch dberrors.DuplicateField(err) {
	case dberrors.FieldEmail:
		return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email already in use").
			WithDetails(map[string]interface{}{"field": dberrors.FieldEmail})
	case dberrors.FieldPhoneNumber:
		return apperrors.NewCustomError(apperrors.ErrPhoneAlreadyExists, "Phone number already in use").
			WithDetails(map[string]interface{}{"field": dberrors.FieldPhoneNumber})
	case dberrors.FieldRegisterNumber:
		return apperrors.NewCustomError(apperrors.ErrRegisterNumberExists, "Register number already in use").
			WithDetails(map[string]interface{}{"field": dberrors.FieldRegisterNumber})
	}
	if dberrors.IsUniqueViolation(err) {
		return apperrors.NewCustomError(apperrors.ErrUserAlreadyExists, "User already exists with these details")
	}
	return fmt.Errorf("failed to create user: %w", err)
}

func (r *UserRepository) Taken(ctx context.Context, email, phone string) (bool, bool, error) {
	return r.common.Taken(ctx, email, phone)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.common.GetUserByID(ctx, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.common.GetUserByEmail(ctx, email)
}

func (r *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.common.GetUserByPhone(ctx, phone)
}

func (r *UserRepository) AdminExists(ctx context.Context) (bool, error) {
	return r.common.AdminExists(ctx)
}

func (r *UserRepository) SetOTP(ctx context.Context, userID int64, code string, expiry time.Time) error {
	return r.common.SetOTP(ctx, userID, code, expiry)
}

func (r *UserRepository) ConsumeOTP(ctx context.Context, userID int64, code string, now time.Time) (bool, error) {
	return r.common.ConsumeOTP(ctx, userID, code, now)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hash string) error {
	return r.common.UpdatePassword(ctx, userID, hash)
}

func (r *UserRepository) UpdatePasswordWithOTP(ctx context.Context, userID int64, code string, now time.Time, hash string) (bool, error) {
	return r.common.UpdatePasswordWithOTP(ctx, userID, code, now, hash)
}

func (r *UserRepository) GetStudentProfile(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	return r.student.GetProfile(ctx, userID)
}

func (r *UserRepository) GetAlumniProfile(ctx context.Context, userID int64) (*models.AlumniProfile, error) {
	return r.alumni.GetProfile(ctx, userID)
}

func (r *UserRepository) UpdateAlumniProfile(ctx context.Context, p *models.AlumniProfile) (*models.AlumniProfile, error) {
	return r.alumni.UpdateProfile(ctx, p)
}

func (r *UserRepository) ToggleMentorship(ctx context.Context, userID int64) (bool, error) {
	return r.alumni.ToggleMentorship(ctx, userID)
}

func (r *UserRepository) SetResumeURL(ctx context.Context, userID int64, url string) (*string, error) {
	return r.student.SetResumeURL(ctx, userID, url)
}
