package services

import "time"

// Services defined in this package:
// - AuthService: registration, OTP verification, login and password recovery
// - DirectoryService: alumni search for students and admins
// - MentorshipService: the mentorship request workflow
// - ProfileService: alumni profile edits and student resumes
// - AdminService: approvals, account switches and dashboard counters
// - EventService: campus events

// Clock supplies the current time. Tests replace it to move across OTP expiry.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// AuthPolicy carries the account policy switches from configuration
type AuthPolicy struct {
	RequireOTPVerification        bool
	RequireAdminApprovalForAlumni bool
	OTPTTL                        time.Duration
	OTPMaxAttempts                int
	OTPResendInterval             time.Duration
}
