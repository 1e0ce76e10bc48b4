package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/auth"
	"github.com/yigit/campusconnect/internal/pkg/ratelimit"
	"golang.org/x/crypto/bcrypt"
)

const otpTTL = 10 * time.Minute

type authFixture struct {
	svc    AuthService
	users  *fakeUserRepo
	admin  AdminService
	sender *recordingSender
	clock  *fakeClock
	jwt    *auth.JWTService
	hasher *auth.PasswordHasher
}

func testPolicy() AuthPolicy {
	return AuthPolicy{
		RequireOTPVerification:        true,
		RequireAdminApprovalForAlumni: true,
		OTPTTL:                        otpTTL,
		OTPMaxAttempts:                5,
		OTPResendInterval:             time.Minute,
	}
}

func newAuthFixture(t *testing.T, policy AuthPolicy, limiter ratelimit.Limiter) *authFixture {
	t.Helper()
	f := &authFixture{
		users:  newFakeUserRepo(),
		sender: newRecordingSender(),
		clock:  &fakeClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)},
		jwt: auth.NewJWTService(auth.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenExp: time.Hour,
			TokenIssuer:    "campusconnect",
		}),
		hasher: auth.NewPasswordHasher(bcrypt.MinCost),
	}
	f.svc = NewAuthService(AuthDeps{
		UserRepo:   f.users,
		JWTService: f.jwt,
		Hasher:     f.hasher,
		OTPs:       &sequenceOTPs{},
		Sender:     f.sender,
		Limiter:    limiter,
		Clock:      f.clock,
	}, policy, zerolog.Nop())
	f.admin = NewAdminService(&fakeAdminRepo{users: f.users}, zerolog.Nop())
	return f
}

func studentRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:           "Priya Raman",
		Email:          "Priya@College.edu",
		PhoneNumber:    "9876543210",
		Password:       "s3cretpass",
		Role:           models.RoleStudent,
		College:        "PSG Tech",
		Department:     "CSE",
		Batch:          "2025",
		RegisterNumber: "21CS001",
	}
}

func alumniRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:        "Arjun Menon",
		Email:       "arjun@alumni.edu",
		PhoneNumber: "9123456780",
		Password:    "s3cretpass",
		Role:        models.RoleAlumni,
		College:     "PSG Tech",
		Department:  "ECE",
		Batch:       "2018",
		Company:     "Zoho",
		JobRole:     "Backend Engineer",
	}
}

func TestRegister_Student(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, studentRequest())
	require.NoError(t, err)
	assert.True(t, resp.OTPSent)
	assert.Equal(t, "9876543210", resp.PhoneNumber)

	u, err := f.users.GetByEmail(ctx, "priya@college.edu")
	require.NoError(t, err)
	assert.False(t, u.IsVerified)
	assert.True(t, u.IsApproved)
	assert.True(t, u.IsActive)
	require.NotNil(t, u.OTPCode)
	assert.Equal(t, f.sender.last("9876543210"), *u.OTPCode)
	assert.Equal(t, f.clock.Now().Add(otpTTL), *u.OTPExpiry)
	assert.NotEqual(t, "s3cretpass", u.PasswordHash)

	p, err := f.users.GetStudentProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "21CS001", p.RegisterNumber)
}

func TestRegister_AlumniMessageMentionsApproval(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)

	resp, err := f.svc.Register(context.Background(), alumniRequest())
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "admin approval")

	u, err := f.users.GetByPhone(context.Background(), "9123456780")
	require.NoError(t, err)
	assert.False(t, u.IsApproved)
}

func TestRegister_PolicyFlagsOff(t *testing.T) {
	policy := testPolicy()
	policy.RequireOTPVerification = false
	policy.RequireAdminApprovalForAlumni = false
	f := newAuthFixture(t, policy, nil)

	resp, err := f.svc.Register(context.Background(), alumniRequest())
	require.NoError(t, err)
	assert.False(t, resp.OTPSent)

	u, err := f.users.GetByPhone(context.Background(), "9123456780")
	require.NoError(t, err)
	assert.True(t, u.IsVerified)
	assert.True(t, u.IsApproved)
	assert.Nil(t, u.OTPCode)
	assert.Nil(t, u.OTPExpiry)

	_, err = f.svc.Login(context.Background(), &dto.LoginRequest{Email: "arjun@alumni.edu", Password: "s3cretpass"})
	assert.NoError(t, err)
}

func TestRegister_Duplicates(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, studentRequest())
	require.NoError(t, err)

	sameEmail := alumniRequest()
	sameEmail.Email = "priya@college.edu"
	_, err = f.svc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	assert.Equal(t, "Email already in use", apperrors.MessageOf(err))

	samePhone := alumniRequest()
	samePhone.PhoneNumber = "9876543210"
	_, err = f.svc.Register(ctx, samePhone)
	assert.ErrorIs(t, err, apperrors.ErrPhoneAlreadyExists)

	sameRegNo := studentRequest()
	sameRegNo.Email = "other@college.edu"
	sameRegNo.PhoneNumber = "9000000001"
	_, err = f.svc.Register(ctx, sameRegNo)
	assert.ErrorIs(t, err, apperrors.ErrRegisterNumberExists)
}

func TestRegister_StoreFailureLeavesNothing(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	f.users.failStore = errors.New("insert student_profiles: connection reset")

	_, err := f.svc.Register(context.Background(), studentRequest())
	require.Error(t, err)

	_, err = f.users.GetByEmail(context.Background(), "priya@college.edu")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Equal(t, 0, f.sender.sent)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
		field  string
	}{
		{"bad email", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *dto.RegisterRequest) { r.Password = "short" }, "password"},
		{"password over 72 bytes", func(r *dto.RegisterRequest) { r.Password = strings.Repeat("a", 73) }, "password"},
		{"phone too short", func(r *dto.RegisterRequest) { r.PhoneNumber = "55500" }, "phone_number"},
		{"phone with letters", func(r *dto.RegisterRequest) { r.PhoneNumber = "98765abcde" }, "phone_number"},
		{"admin role", func(r *dto.RegisterRequest) { r.Role = models.RoleAdmin }, "role"},
		{"missing register number", func(r *dto.RegisterRequest) { r.RegisterNumber = " " }, "register_number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t, testPolicy(), nil)
			req := studentRequest()
			tt.mutate(req)
			_, err := f.svc.Register(context.Background(), req)
			require.ErrorIs(t, err, apperrors.ErrValidationFailed)
			assert.Equal(t, tt.field, apperrors.DetailsOf(err)["field"])
		})
	}

	f := newAuthFixture(t, testPolicy(), nil)
	req := alumniRequest()
	req.Company = ""
	_, err := f.svc.Register(context.Background(), req)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "company", apperrors.DetailsOf(err)["field"])
}

func TestVerifyOTP_ValidUntilExpiry(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, studentRequest())
	require.NoError(t, err)

	f.clock.Advance(otpTTL - time.Nanosecond)
	resp, err := f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9876543210", OTPCode: f.sender.last("9876543210")})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleStudent, resp.Role)

	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, claims.UserID)
	assert.Equal(t, "student", claims.Role)

	u, err := f.users.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, u.IsVerified)
	assert.Nil(t, u.OTPCode)
	assert.Nil(t, u.OTPExpiry)
}

func TestVerifyOTP_ExpiredAtTTL(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, studentRequest())
	require.NoError(t, err)

	f.clock.Advance(otpTTL)
	_, err = f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9876543210", OTPCode: f.sender.last("9876543210")})
	assert.ErrorIs(t, err, apperrors.ErrOTPExpired)
}

func TestVerifyOTP_SingleUse(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, studentRequest())
	require.NoError(t, err)

	req := &dto.VerifyOTPRequest{PhoneNumber: "9876543210", OTPCode: f.sender.last("9876543210")}
	_, err = f.svc.VerifyOTP(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func TestVerifyOTP_WrongCodeAndUnknownPhone(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, studentRequest())
	require.NoError(t, err)

	_, err = f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9876543210", OTPCode: "000000"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)

	_, err = f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9999999999", OTPCode: "123456"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
}

func newMiniredisLimiter(t *testing.T) ratelimit.Limiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return ratelimit.NewRedisLimiter(client, zerolog.Nop())
}

func TestVerifyOTP_TooManyAttempts(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), newMiniredisLimiter(t))
	ctx := context.Background()
	_, err := f.svc.Register(ctx, studentRequest())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9876543210", OTPCode: "000000"})
		require.ErrorIs(t, err, apperrors.ErrInvalidOTP)
	}

	_, err = f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9876543210", OTPCode: f.sender.last("9876543210")})
	assert.ErrorIs(t, err, apperrors.ErrTooManyAttempts)
}

func TestResendOTP(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), newMiniredisLimiter(t))
	ctx := context.Background()
	_, err := f.svc.Register(ctx, studentRequest())
	require.NoError(t, err)
	first := f.sender.last("9876543210")

	// registration started the cooldown
	err = f.svc.ResendOTP(ctx, "9876543210")
	assert.ErrorIs(t, err, apperrors.ErrTooManyAttempts)

	err = f.svc.ResendOTP(ctx, "9000000000")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9876543210", OTPCode: first})
	require.NoError(t, err)

	err = f.svc.ResendOTP(ctx, "9876543210")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyVerified)
}

func TestResendOTP_IssuesNewCode(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, studentRequest())
	require.NoError(t, err)
	first := f.sender.last("9876543210")

	require.NoError(t, f.svc.ResendOTP(ctx, "9876543210"))
	second := f.sender.last("9876543210")
	assert.NotEqual(t, first, second)

	_, err = f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9876543210", OTPCode: first})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOTP)
	_, err = f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9876543210", OTPCode: second})
	assert.NoError(t, err)
}

func TestLogin_FailuresLookTheSame(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	hash, err := f.hasher.Hash("s3cretpass")
	require.NoError(t, err)
	f.users.add(&models.User{Name: "A", Email: "a@college.edu", PhoneNumber: "9000000001", PasswordHash: hash, Role: models.RoleStudent, IsVerified: true, IsApproved: true, IsActive: true})

	_, unknown := f.svc.Login(ctx, &dto.LoginRequest{Email: "ghost@college.edu", Password: "s3cretpass"})
	_, wrong := f.svc.Login(ctx, &dto.LoginRequest{Email: "a@college.edu", Password: "wrongpass"})

	require.ErrorIs(t, unknown, apperrors.ErrInvalidCredentials)
	require.ErrorIs(t, wrong, apperrors.ErrInvalidCredentials)
	assert.Equal(t, unknown.Error(), wrong.Error())

	resp, err := f.svc.Login(ctx, &dto.LoginRequest{Email: "A@College.edu", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
}

func TestLogin_Gates(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	hash, err := f.hasher.Hash("s3cretpass")
	require.NoError(t, err)
	rejected := time.Now()

	tests := []struct {
		name string
		user models.User
		want error
	}{
		{"unverified", models.User{Role: models.RoleStudent, IsApproved: true, IsActive: true}, apperrors.ErrNotVerified},
		{"unverified alumni", models.User{Role: models.RoleAlumni, IsActive: true}, apperrors.ErrNotVerified},
		{"rejected alumni", models.User{Role: models.RoleAlumni, IsVerified: true, IsActive: true, RejectedAt: &rejected}, apperrors.ErrAccountRejected},
		{"pending alumni", models.User{Role: models.RoleAlumni, IsVerified: true, IsActive: true}, apperrors.ErrPendingApproval},
		{"deactivated student", models.User{Role: models.RoleStudent, IsVerified: true, IsApproved: true}, apperrors.ErrAccountDeactivated},
		{"deactivated alumni", models.User{Role: models.RoleAlumni, IsVerified: true, IsApproved: true}, apperrors.ErrAccountDeactivated},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			u.Name = tt.name
			u.Email = fmt.Sprintf("gate%d@college.edu", i)
			u.PhoneNumber = fmt.Sprintf("90000000%02d", i)
			u.PasswordHash = hash
			f.users.add(&u)

			_, err := f.svc.Login(ctx, &dto.LoginRequest{Email: u.Email, Password: "s3cretpass"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAlumniApprovalScenario(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, alumniRequest())
	require.NoError(t, err)

	verified, err := f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9123456780", OTPCode: f.sender.last("9123456780")})
	require.NoError(t, err)
	require.NotEmpty(t, verified.Token)
	verifiedClaims, err := f.jwt.ValidateToken(verified.Token)
	require.NoError(t, err)
	assert.Equal(t, "alumni", verifiedClaims.Role)

	login := &dto.LoginRequest{Email: "arjun@alumni.edu", Password: "s3cretpass"}
	_, err = f.svc.Login(ctx, login)
	require.ErrorIs(t, err, apperrors.ErrPendingApproval)

	pending, err := f.admin.PendingAlumni(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, f.admin.UpdateApproval(ctx, &dto.UpdateApprovalRequest{UserID: verified.ID, Status: dto.ApprovalApproved}))

	resp, err := f.svc.Login(ctx, login)
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "alumni", claims.Role)

	// a decided account is no longer pending
	err = f.admin.UpdateApproval(ctx, &dto.UpdateApprovalRequest{UserID: verified.ID, Status: dto.ApprovalRejected})
	assert.ErrorIs(t, err, apperrors.ErrNotPendingApproval)
}

func TestRejectedAlumniCannotLogin(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, alumniRequest())
	require.NoError(t, err)
	verified, err := f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9123456780", OTPCode: f.sender.last("9123456780")})
	require.NoError(t, err)

	require.NoError(t, f.admin.UpdateApproval(ctx, &dto.UpdateApprovalRequest{UserID: verified.ID, Status: dto.ApprovalRejected}))

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "arjun@alumni.edu", Password: "s3cretpass"})
	assert.ErrorIs(t, err, apperrors.ErrAccountRejected)
}

func TestMe(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, alumniRequest())
	require.NoError(t, err)
	u, err := f.users.GetByEmail(ctx, "arjun@alumni.edu")
	require.NoError(t, err)

	me, err := f.svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arjun Menon", me.Name)
	profile, ok := me.Profile.(*models.AlumniProfile)
	require.True(t, ok)
	assert.Equal(t, "Zoho", profile.Company)

	admin := f.users.add(&models.User{Name: "Admin", Email: "admin@college.edu", PhoneNumber: "9000000099", Role: models.RoleAdmin})
	me, err = f.svc.Me(ctx, admin.ID)
	require.NoError(t, err)
	assert.Nil(t, me.Profile)

	_, err = f.svc.Me(ctx, 4242)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func verifiedStudent(t *testing.T, f *authFixture) {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Register(ctx, studentRequest())
	require.NoError(t, err)
	_, err = f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "9876543210", OTPCode: f.sender.last("9876543210")})
	require.NoError(t, err)
}

func TestForgotAndResetPassword_WithOTP(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	verifiedStudent(t, f)

	resp, err := f.svc.ForgotPassword(ctx, "priya@college.edu")
	require.NoError(t, err)
	assert.Equal(t, "priya@college.edu", resp.Email)
	code := f.sender.last("9876543210")

	err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "priya@college.edu", OTP: "000000", NewPassword: "n3wpassword"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetOTP)

	reset := &dto.ResetPasswordRequest{Email: "priya@college.edu", OTP: code, NewPassword: "n3wpassword"}
	require.NoError(t, f.svc.ResetPassword(ctx, reset))

	// the OTP pair is cleared, so the code cannot be replayed
	assert.ErrorIs(t, f.svc.ResetPassword(ctx, reset), apperrors.ErrInvalidResetOTP)

	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "priya@college.edu", Password: "n3wpassword"})
	assert.NoError(t, err)
	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "priya@college.edu", Password: "s3cretpass"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestResetPassword_ExpiredOTP(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	verifiedStudent(t, f)

	_, err := f.svc.ForgotPassword(ctx, "priya@college.edu")
	require.NoError(t, err)
	f.clock.Advance(otpTTL)

	err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "priya@college.edu", OTP: f.sender.last("9876543210"), NewPassword: "n3wpassword"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidResetOTP)
}

func TestResetPassword_WithOldPassword(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	verifiedStudent(t, f)

	err := f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "priya@college.edu", OldPassword: "nope-nope", NewPassword: "n3wpassword"})
	assert.ErrorIs(t, err, apperrors.ErrIncorrectPassword)

	require.NoError(t, f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "priya@college.edu", OldPassword: "s3cretpass", NewPassword: "n3wpassword"}))
	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "priya@college.edu", Password: "n3wpassword"})
	assert.NoError(t, err)
}

func TestResetPassword_ExactlyOneProof(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	verifiedStudent(t, f)

	err := f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "priya@college.edu", NewPassword: "n3wpassword"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "priya@college.edu", OldPassword: "s3cretpass", OTP: "123456", NewPassword: "n3wpassword"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "ghost@college.edu", OldPassword: "s3cretpass", NewPassword: "n3wpassword"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestForgotPassword_UnknownAndThrottled(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), newMiniredisLimiter(t))
	ctx := context.Background()
	verifiedStudent(t, f)

	_, err := f.svc.ForgotPassword(ctx, "ghost@college.edu")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = f.svc.ForgotPassword(ctx, "priya@college.edu")
	require.NoError(t, err)
	_, err = f.svc.ForgotPassword(ctx, "priya@college.edu")
	assert.ErrorIs(t, err, apperrors.ErrTooManyAttempts)
}

func TestRegisterAndVerify_SevenDigitPhone(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()

	req := alumniRequest()
	req.PhoneNumber = "5550001"
	resp, err := f.svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "5550001", resp.PhoneNumber)

	verified, err := f.svc.VerifyOTP(ctx, &dto.VerifyOTPRequest{PhoneNumber: "5550001", OTPCode: f.sender.last("5550001")})
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(verified.Token)
	require.NoError(t, err)
	assert.Equal(t, "alumni", claims.Role)

	// approval is still enforced at login
	_, err = f.svc.Login(ctx, &dto.LoginRequest{Email: "arjun@alumni.edu", Password: "s3cretpass"})
	assert.ErrorIs(t, err, apperrors.ErrPendingApproval)
}

func TestResetPassword_TooLongNewPassword(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	verifiedStudent(t, f)

	err := f.svc.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Email:       "priya@college.edu",
		OldPassword: "s3cretpass",
		NewPassword: strings.Repeat("a", 73),
	})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "newPassword", apperrors.DetailsOf(err)["field"])
}

func TestHashPassword_LengthLimitIsValidationError(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	svc := f.svc.(*authService)

	_, err := svc.hashPassword("password", strings.Repeat("a", 73))
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "password", apperrors.DetailsOf(err)["field"])

	hash, err := svc.hashPassword("password", strings.Repeat("a", 72))
	require.NoError(t, err)
	assert.True(t, f.hasher.Check(hash, strings.Repeat("a", 72)))
}

// countingHasher records how many hashes were computed
type countingHasher struct {
	auth.Hasher
	hashes int
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.hashes++
	return h.Hasher.Hash(password)
}

func TestResetPassword_FailedProofSkipsHashing(t *testing.T) {
	f := newAuthFixture(t, testPolicy(), nil)
	ctx := context.Background()
	verifiedStudent(t, f)
	_, err := f.svc.ForgotPassword(ctx, "priya@college.edu")
	require.NoError(t, err)

	counter := &countingHasher{Hasher: f.hasher}
	svc := NewAuthService(AuthDeps{
		UserRepo:   f.users,
		JWTService: f.jwt,
		Hasher:     counter,
		Sender:     f.sender,
		Clock:      f.clock,
	}, testPolicy(), zerolog.Nop())

	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "priya@college.edu", OldPassword: "wrong-pass", NewPassword: "n3wpassword"})
	require.ErrorIs(t, err, apperrors.ErrIncorrectPassword)
	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "priya@college.edu", OTP: "000000", NewPassword: "n3wpassword"})
	require.ErrorIs(t, err, apperrors.ErrInvalidResetOTP)
	assert.Zero(t, counter.hashes)

	require.NoError(t, svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Email: "priya@college.edu", OldPassword: "s3cretpass", NewPassword: "n3wpassword"}))
	assert.Equal(t, 1, counter.hashes)
}
