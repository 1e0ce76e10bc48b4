package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           int64      `json:"id" db:"id" example:"1"`
	Name         string     `json:"name" db:"name" example:"Priya Raman"`
	Email        string     `json:"email" db:"email" example:"priya@college.edu"`
	PhoneNumber  string     `json:"phone_number" db:"phone_number" example:"9876543210"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         RoleType   `json:"role" db:"role" example:"student"`
	College      string     `json:"college" db:"college" example:"PSG College of Technology"`
	OTPCode      *string    `json:"-" db:"otp_code"`
	OTPExpiry    *time.Time `json:"-" db:"otp_expiry"`
	IsApproved   bool       `json:"is_approved" db:"is_approved"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	IsVerified   bool       `json:"is_verified" db:"is_verified"`
	RejectedAt   *time.Time `json:"rejected_at,omitempty" db:"rejected_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// IsRejected reports whether an admin rejected the account
func (u *User) IsRejected() bool {
	return u.RejectedAt != nil
}

// IsPendingApproval reports whether the user is an alumni waiting for an admin decision
func (u *User) IsPendingApproval() bool {
	return u.Role == RoleAlumni && u.IsVerified && !u.IsApproved && !u.IsRejected()
}

// OTPMatches reports whether code equals the stored OTP and is still valid at now.
// The OTP is valid on [issued, expiry).
func (u *User) OTPMatches(code string, now time.Time) (matches bool, expired bool) {
	if u.OTPCode == nil || u.OTPExpiry == nil || code == "" || *u.OTPCode != code {
		return false, false
	}
	if !now.Before(*u.OTPExpiry) {
		return true, true
	}
	return true, false
}
