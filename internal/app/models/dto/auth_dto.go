package dto

import "github.com/yigit/campusconnect/internal/app/models"

// RegisterRequest is the self-registration payload. Profile fields are
// required depending on the chosen role.
type RegisterRequest struct {
	Name        string          `json:"name" binding:"required,min=2,max=100" example:"Priya Raman"`
	Email       string          `json:"email" binding:"required,email" example:"priya@college.edu"`
	PhoneNumber string          `json:"phone_number" binding:"required,numeric,min=6,max=15" example:"9876543210"`
	Password    string          `json:"password" binding:"required,min=8,max=72" example:"s3cretpass"`
	Role        models.RoleType `json:"role" binding:"required,oneof=student alumni" example:"student"`
	College     string          `json:"college" binding:"required" example:"PSG College of Technology"`

	Department string `json:"department" binding:"required" example:"CSE"`
	Batch      string `json:"batch" binding:"required" example:"2025"`

	// student
	RegisterNumber string `json:"register_number" binding:"required_if=Role student" example:"21CS001"`

	// alumni
	Company string `json:"company" binding:"required_if=Role alumni" example:"Zoho"`
	JobRole string `json:"job_role" binding:"required_if=Role alumni" example:"Backend Engineer"`
}

// RegisterResponse is returned after a successful registration
type RegisterResponse struct {
	Message     string `json:"message" example:"User registered. Please verify your phone number with the OTP."`
	PhoneNumber string `json:"phone_number" example:"9876543210"`
	OTPSent     bool   `json:"otp_sent" example:"true"`
}

// VerifyOTPRequest confirms a phone number with the issued OTP
type VerifyOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required" example:"9876543210"`
	OTPCode     string `json:"otp_code" binding:"required,len=6,numeric" example:"482913"`
}

// ResendOTPRequest asks for a fresh registration OTP
type ResendOTPRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required" example:"9876543210"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"priya@college.edu"`
	Password string `json:"password" binding:"required" example:"s3cretpass"`
}

// AuthResponse is returned by login and OTP verification
type AuthResponse struct {
	ID        int64           `json:"id" example:"1"`
	Name      string          `json:"name" example:"Priya Raman"`
	Email     string          `json:"email" example:"priya@college.edu"`
	Role      models.RoleType `json:"role" example:"student"`
	Token     string          `json:"token"`
	TokenType string          `json:"token_type" example:"Bearer"`
	ExpiresIn int64           `json:"expires_in" example:"86400"`
}

// MeResponse is the authenticated user with the role profile inlined
type MeResponse struct {
	*models.User
	Profile interface{} `json:"profile"`
}

// ForgotPasswordRequest starts OTP based password recovery
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"priya@college.edu"`
}

// ForgotPasswordResponse confirms that an OTP was issued
type ForgotPasswordResponse struct {
	Message string `json:"message" example:"OTP sent to your email"`
	Email   string `json:"email" example:"priya@college.edu"`
}

// ResetPasswordRequest changes the password using exactly one proof:
// the current password or a recovery OTP.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email" example:"priya@college.edu"`
	OldPassword string `json:"oldPassword" example:"s3cretpass"`
	OTP         string `json:"otp" example:"482913"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=72" example:"n3wpassword"`
}
