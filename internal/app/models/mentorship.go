package models

import "time"

// MentorshipStatus is the lifecycle state of a mentorship request
type MentorshipStatus string

const (
	MentorshipPending  MentorshipStatus = "pending"
	MentorshipAccepted MentorshipStatus = "accepted"
	MentorshipRejected MentorshipStatus = "rejected"
)

// IsValid reports whether s is a known status
func (s MentorshipStatus) IsValid() bool {
	switch s {
	case MentorshipPending, MentorshipAccepted, MentorshipRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s
func (s MentorshipStatus) IsTerminal() bool {
	return s == MentorshipAccepted || s == MentorshipRejected
}

// CanTransitionTo encodes the request state machine:
// pending -> accepted, pending -> rejected. Terminal states never change.
func (s MentorshipStatus) CanTransitionTo(next MentorshipStatus) bool {
	return s == MentorshipPending && next.IsTerminal()
}

// MentorshipPurpose is the reason a student asks for mentorship
type MentorshipPurpose string

const (
	PurposeCareerGuidance MentorshipPurpose = "career_guidance"
	PurposeResumeReview   MentorshipPurpose = "resume_review"
	PurposeInterviewPrep  MentorshipPurpose = "interview_prep"
	PurposeReferral       MentorshipPurpose = "referral"
)

// IsValid reports whether p is a known purpose
func (p MentorshipPurpose) IsValid() bool {
	switch p {
	case PurposeCareerGuidance, PurposeResumeReview, PurposeInterviewPrep, PurposeReferral:
		return true
	}
	return false
}

// MentorshipRequest defines the 'mentorship_requests' table
type MentorshipRequest struct {
	ID        int64             `json:"id" db:"id"`
	StudentID int64             `json:"student_id" db:"student_id"`
	AlumniID  int64             `json:"alumni_id" db:"alumni_id"`
	Purpose   MentorshipPurpose `json:"purpose" db:"purpose"`
	Message   string            `json:"message" db:"message"`
	Status    MentorshipStatus  `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// IncomingRequest is a request as shown in the alumni inbox
type IncomingRequest struct {
	MentorshipRequest
	StudentName    string `json:"student_name"`
	StudentEmail   string `json:"student_email"`
	Department     string `json:"department"`
	Batch          string `json:"batch"`
	RegisterNumber string `json:"register_number"`
}

// OutgoingRequest is a request as shown to the student who sent it
type OutgoingRequest struct {
	MentorshipRequest
	AlumniName string `json:"alumni_name"`
	Company    string `json:"company"`
	JobRole    string `json:"job_role"`
}
