package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/config"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/auth"
)

// AdminStore is the part of the user repository the seeder needs
type AdminStore interface {
	AdminExists(ctx context.Context) (bool, error)
	CreateWithProfile(ctx context.Context, u *appModels.User, student *appModels.StudentProfile, alumni *appModels.AlumniProfile) error
}

// CreateDefaultData creates the bootstrap admin account when no admin exists.
// The account is verified, approved and active so it can log in immediately.
func CreateDefaultData(ctx context.Context, users AdminStore, hasher *auth.PasswordHasher, cfg *config.Config, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Seed.AdminEmail))
	if email == "" || cfg.Seed.AdminPassword == "" {
		lgr.Info().Msg("No seed admin configured, skipping default data")
		return nil
	}

	exists, err := users.AdminExists(ctx)
	if err != nil {
		return fmt.Errorf("error checking if admin user exists: %w", err)
	}
	if exists {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	hashedPassword, err := hasher.Hash(cfg.Seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	name := cfg.Seed.AdminName
	if name == "" {
		name = "System Administrator"
	}
	phone := cfg.Seed.AdminPhone
	if phone == "" {
		phone = "0000000000"
	}

	admin := &appModels.User{
		Name:         name,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: hashedPassword,
		Role:         appModels.RoleAdmin,
		IsApproved:   true,
		IsActive:     true,
		IsVerified:   true,
	}

	if err := users.CreateWithProfile(ctx, admin, nil, nil); err != nil {
		// a non-admin already owns the address; nothing to seed
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) || errors.Is(err, apperrors.ErrPhoneAlreadyExists) {
			lgr.Warn().Str("email", email).Msg("Seed admin email or phone already taken by another account")
			return nil
		}
		return fmt.Errorf("error creating admin user: %w", err)
	}

	lgr.Info().Int64("adminID", admin.ID).Str("email", email).Msg("Default admin user created successfully")
	return nil
}
