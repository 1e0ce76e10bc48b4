package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/auth"
	"github.com/yigit/campusconnect/internal/pkg/email"
	"github.com/yigit/campusconnect/internal/pkg/ratelimit"
	"github.com/yigit/campusconnect/internal/pkg/validation"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and account recovery
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error)
	ResendOTP(ctx context.Context, phoneNumber string) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*dto.MeResponse, error)
	ForgotPassword(ctx context.Context, emailAddr string) (*dto.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authService struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	hasher     auth.Hasher
	otps       auth.OTPGenerator
	sender     email.OTPSender
	limiter    ratelimit.Limiter
	policy     AuthPolicy
	clock      Clock
	logger     zerolog.Logger
}

// AuthDeps groups the collaborators of the auth service
type AuthDeps struct {
	UserRepo   repositories.IUserRepository
	JWTService *auth.JWTService
	Hasher     auth.Hasher
	OTPs       auth.OTPGenerator
	Sender     email.OTPSender
	Limiter    ratelimit.Limiter
	Clock      Clock
}

// NewAuthService creates a new AuthService
func NewAuthService(deps AuthDeps, policy AuthPolicy, logger zerolog.Logger) AuthService {
	if deps.OTPs == nil {
		deps.OTPs = auth.RandomOTPGenerator{}
	}
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.Noop{}
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Hasher == nil {
		deps.Hasher = auth.NewPasswordHasher(0)
	}
	return &authService{
		userRepo:   deps.UserRepo,
		jwtService: deps.JWTService,
		hasher:     deps.Hasher,
		otps:       deps.OTPs,
		sender:     deps.Sender,
		limiter:    deps.Limiter,
		policy:     policy,
		clock:      deps.Clock,
		logger:     logger,
	}
}

var (
	errTooManyOTPAttempts = apperrors.NewCustomError(apperrors.ErrTooManyAttempts, "Too many incorrect OTP attempts. Please try again later")
	errOTPCooldown        = apperrors.NewCustomError(apperrors.ErrTooManyAttempts, "An OTP was sent recently. Please wait before requesting another")
)

var passwordRuleMessage = fmt.Sprintf("Password must be at least %d characters and at most %d bytes",
	validation.PasswordMinLength, validation.PasswordMaxBytes)

// hashPassword reports bcrypt's length limit as a validation error on field
func (s *authService) hashPassword(field, password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.NewValidationError(field, passwordRuleMessage)
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (s *authService) validateRegistration(req *dto.RegisterRequest) error {
	if !validation.ValidName(req.Name) {
		return apperrors.NewValidationError("name", "Name must be between 2 and 100 characters")
	}
	if !validation.ValidEmail(req.Email) {
		return apperrors.NewValidationError("email", "Invalid email format")
	}
	if !validation.ValidPhone(req.PhoneNumber) {
		return apperrors.NewValidationError("phone_number", "Phone number must contain 6 to 15 digits")
	}
	if !validation.ValidPassword(req.Password) {
		return apperrors.NewValidationError("password", passwordRuleMessage)
	}
	if !req.Role.CanSelfRegister() {
		return apperrors.NewValidationError("role", "Role must be either student or alumni")
	}

	required := map[string]string{"college": req.College, "department": req.Department, "batch": req.Batch}
	switch req.Role {
	case models.RoleStudent:
		required["register_number"] = req.RegisterNumber
	case models.RoleAlumni:
		required["company"] = req.Company
		required["job_role"] = req.JobRole
	}
	for _, field := range []string{"college", "department", "batch", "register_number", "company", "job_role"} {
		if v, ok := required[field]; ok && strings.TrimSpace(v) == "" {
			return apperrors.NewValidationError(field, field+" is required")
		}
	}
	return nil
}

// Register creates the user and its role profile atomically and sends the
// verification OTP
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := s.validateRegistration(req); err != nil {
		return nil, err
	}
	emailAddr := validation.NormalizeEmail(req.Email)
	phone := strings.TrimSpace(req.PhoneNumber)

	// advisory; the unique constraints decide races
	emailTaken, phoneTaken, err := s.userRepo.Taken(ctx, emailAddr, phone)
	if err != nil {
		return nil, fmt.Errorf("error checking existing users: %w", err)
	}
	if emailTaken {
		return nil, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email already in use").
			WithDetails(map[string]interface{}{"field": "email"})
	}
	if phoneTaken {
		return nil, apperrors.NewCustomError(apperrors.ErrPhoneAlreadyExists, "Phone number already in use").
			WithDetails(map[string]interface{}{"field": "phone_number"})
	}

	hash, err := s.hashPassword("password", req.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        emailAddr,
		PhoneNumber:  phone,
		PasswordHash: hash,
		Role:         req.Role,
		College:      strings.TrimSpace(req.College),
		IsActive:     true,
		IsVerified:   !s.policy.RequireOTPVerification,
		IsApproved:   req.Role == models.RoleStudent || !s.policy.RequireAdminApprovalForAlumni,
	}

	var code string
	if s.policy.RequireOTPVerification {
		if code, err = s.otps.Generate(); err != nil {
			return nil, err
		}
		expiry := s.clock.Now().Add(s.policy.OTPTTL)
		u.OTPCode = &code
		u.OTPExpiry = &expiry
	}

	var student *models.StudentProfile
	var alumni *models.AlumniProfile
	switch req.Role {
	case models.RoleStudent:
		student = &models.StudentProfile{
			Department:     strings.TrimSpace(req.Department),
			RegisterNumber: strings.TrimSpace(req.RegisterNumber),
			Batch:          strings.TrimSpace(req.Batch),
		}
	case models.RoleAlumni:
		alumni = &models.AlumniProfile{
			Company:             strings.TrimSpace(req.Company),
			JobRole:             strings.TrimSpace(req.JobRole),
			Department:          strings.TrimSpace(req.Department),
			Batch:               strings.TrimSpace(req.Batch),
			Skills:              []string{},
			MentorshipAvailable: true,
		}
	}

	if err := s.userRepo.CreateWithProfile(ctx, u, student, alumni); err != nil {
		return nil, err
	}

	resp := &dto.RegisterResponse{PhoneNumber: u.PhoneNumber}
	if !s.policy.RequireOTPVerification {
		resp.Message = "User registered. You can now log in."
		if u.Role == models.RoleAlumni && !u.IsApproved {
			resp.Message = "User registered. Alumni accounts require admin approval before login."
		}
		return resp, nil
	}

	s.deliverOTP(ctx, u, code, email.PurposeRegistration)
	// the registration send counts against the resend cooldown
	if _, err := s.limiter.AcquireCooldown(ctx, "verify:"+u.PhoneNumber, s.policy.OTPResendInterval); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to start OTP resend cooldown")
	}

	resp.OTPSent = true
	resp.Message = "User registered. Please verify your phone number with the OTP."
	if u.Role == models.RoleAlumni && s.policy.RequireAdminApprovalForAlumni {
		resp.Message = "User registered. Please verify your phone number. Note: Alumni accounts require admin approval after verification."
	}
	return resp, nil
}

// deliverOTP sends a code. A failed send is logged; the user can ask for a new code.
func (s *authService) deliverOTP(ctx context.Context, u *models.User, code string, purpose email.Purpose) {
	to := email.Recipient{Name: u.Name, Email: u.Email, PhoneNumber: u.PhoneNumber}
	if err := s.sender.SendOTP(ctx, to, code, purpose, s.policy.OTPTTL); err != nil {
		s.logger.Error().Err(err).Int64("userID", u.ID).Str("purpose", string(purpose)).Msg("Failed to deliver OTP")
	}
}

// issueOTP stores a fresh code and expiry for u and sends it
func (s *authService) issueOTP(ctx context.Context, u *models.User, purpose email.Purpose) error {
	code, err := s.otps.Generate()
	if err != nil {
		return err
	}
	expiry := s.clock.Now().Add(s.policy.OTPTTL)
	if err := s.userRepo.SetOTP(ctx, u.ID, code, expiry); err != nil {
		return err
	}
	s.deliverOTP(ctx, u, code, purpose)
	return nil
}

// checkAttempts refuses when key already used up its failures
func (s *authService) checkAttempts(ctx context.Context, key string) error {
	if s.policy.OTPMaxAttempts <= 0 {
		return nil
	}
	n, err := s.limiter.Failures(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("OTP limiter unavailable")
		return nil
	}
	if n >= s.policy.OTPMaxAttempts {
		return errTooManyOTPAttempts
	}
	return nil
}

func (s *authService) recordFailure(ctx context.Context, key string) {
	if _, err := s.limiter.RecordFailure(ctx, key, s.policy.OTPTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to record OTP failure")
	}
}

func (s *authService) resetAttempts(ctx context.Context, key string) {
	if err := s.limiter.Reset(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to reset OTP attempts")
	}
}

// VerifyOTP marks the phone number verified. The code is consumed by a
// guarded update so it can only be used once.
func (s *authService) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	phone := strings.TrimSpace(req.PhoneNumber)
	key := "verify:" + phone
	if err := s.checkAttempts(ctx, key); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.recordFailure(ctx, key)
			return nil, apperrors.ErrInvalidOTP
		}
		return nil, err
	}

	now := s.clock.Now()
	matches, expired := u.OTPMatches(req.OTPCode, now)
	if !matches {
		s.recordFailure(ctx, key)
		return nil, apperrors.ErrInvalidOTP
	}
	if expired {
		return nil, apperrors.ErrOTPExpired
	}

	consumed, err := s.userRepo.ConsumeOTP(ctx, u.ID, req.OTPCode, now)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, apperrors.ErrInvalidOTP
	}
	s.resetAttempts(ctx, key)
	u.IsVerified = true

	s.logger.Info().Int64("userID", u.ID).Msg("Phone number verified")

	// login still applies the approval and active gates
	return s.authResponse(u)
}

// ResendOTP issues a new registration code to an unverified account
func (s *authService) ResendOTP(ctx context.Context, phoneNumber string) error {
	phone := strings.TrimSpace(phoneNumber)
	u, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return apperrors.NewCustomError(apperrors.ErrAlreadyVerified, "Phone number is already verified")
	}

	ok, err := s.limiter.AcquireCooldown(ctx, "verify:"+phone, s.policy.OTPResendInterval)
	if err != nil {
		s.logger.Warn().Err(err).Msg("OTP cooldown unavailable")
	} else if !ok {
		return errOTPCooldown
	}

	return s.issueOTP(ctx, u, email.PurposeRegistration)
}

// accountGate applies the login gates in order
func accountGate(u *models.User) error {
	if !u.IsVerified {
		return apperrors.ErrNotVerified
	}
	if u.Role == models.RoleAlumni {
		if u.IsRejected() {
			return apperrors.ErrAccountRejected
		}
		if !u.IsApproved {
			return apperrors.ErrPendingApproval
		}
	}
	if !u.IsActive {
		return apperrors.ErrAccountDeactivated
	}
	return nil
}

// Login authenticates a user. Unknown email and wrong password fail the same way.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, validation.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.hasher.CheckDummy(req.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Check(u.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := accountGate(u); err != nil {
		s.logger.Info().Int64("userID", u.ID).Err(err).Msg("Login refused by account gate")
		return nil, err
	}

	return s.authResponse(u)
}

func (s *authService) authResponse(u *models.User) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.jwtService.GenerateToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}
	return &dto.AuthResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(expiresIn),
	}, nil
}

// Me returns the user and its role profile
func (s *authService) Me(ctx context.Context, userID int64) (*dto.MeResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.MeResponse{User: u}
	switch u.Role {
	case models.RoleStudent:
		p, err := s.userRepo.GetStudentProfile(ctx, u.ID)
		if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
		if p != nil {
			resp.Profile = p
		}
	case models.RoleAlumni:
		p, err := s.userRepo.GetAlumniProfile(ctx, u.ID)
		if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
		if p != nil {
			resp.Profile = p
		}
	}
	return resp, nil
}

// ForgotPassword issues a password reset OTP
func (s *authService) ForgotPassword(ctx context.Context, emailAddr string) (*dto.ForgotPasswordResponse, error) {
	emailAddr = validation.NormalizeEmail(emailAddr)
	u, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrUserNotFound, "User with this email does not exist")
		}
		return nil, err
	}

	ok, err := s.limiter.AcquireCooldown(ctx, "forgot:"+emailAddr, s.policy.OTPResendInterval)
	if err != nil {
		s.logger.Warn().Err(err).Msg("OTP cooldown unavailable")
	} else if !ok {
		return nil, errOTPCooldown
	}

	if err := s.issueOTP(ctx, u, email.PurposePasswordReset); err != nil {
		return nil, err
	}

	return &dto.ForgotPasswordResponse{Message: "OTP sent to your email", Email: u.Email}, nil
}

// ResetPassword replaces the password given either the old password or a
// valid reset OTP, never both
func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	hasOld := req.OldPassword != ""
	hasOTP := strings.TrimSpace(req.OTP) != ""
	if hasOld == hasOTP {
		return apperrors.NewValidationError("otp", "Provide either old password or OTP")
	}
	if !validation.ValidPassword(req.NewPassword) {
		return apperrors.NewValidationError("newPassword", passwordRuleMessage)
	}

	emailAddr := validation.NormalizeEmail(req.Email)
	u, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}

	if hasOld {
		if !s.hasher.Check(u.PasswordHash, req.OldPassword) {
			return apperrors.NewCustomError(apperrors.ErrIncorrectPassword, "Incorrect old password")
		}
		hash, err := s.hashPassword("newPassword", req.NewPassword)
		if err != nil {
			return err
		}
		if err := s.userRepo.UpdatePassword(ctx, u.ID, hash); err != nil {
			return err
		}
		s.logger.Info().Int64("userID", u.ID).Msg("Password changed")
		return nil
	}

	key := "reset:" + emailAddr
	if err := s.checkAttempts(ctx, key); err != nil {
		return err
	}

	code := strings.TrimSpace(req.OTP)
	now := s.clock.Now()
	invalid := apperrors.NewCustomError(apperrors.ErrInvalidResetOTP, "Invalid or expired OTP")
	if matches, expired := u.OTPMatches(code, now); !matches || expired {
		s.recordFailure(ctx, key)
		return invalid
	}

	hash, err := s.hashPassword("newPassword", req.NewPassword)
	if err != nil {
		return err
	}
	updated, err := s.userRepo.UpdatePasswordWithOTP(ctx, u.ID, code, now, hash)
	if err != nil {
		return err
	}
	if !updated {
		return invalid
	}
	s.resetAttempts(ctx, key)

	s.logger.Info().Int64("userID", u.ID).Msg("Password reset with OTP")
	return nil
}
