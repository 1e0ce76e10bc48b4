package dto

import "github.com/yigit/campusconnect/internal/app/models"

// SendMentorshipRequest is a student's request to an alumni
type SendMentorshipRequest struct {
	AlumniID int64                    `json:"alumni_id" binding:"required,gt=0" example:"7"`
	Purpose  models.MentorshipPurpose `json:"purpose" binding:"required,oneof=career_guidance resume_review interview_prep referral" example:"career_guidance"`
	Message  string                   `json:"message" binding:"required,max=2000" example:"Could we talk about backend roles?"`
}

// UpdateMentorshipStatusRequest is the alumni's decision on a request
type UpdateMentorshipStatusRequest struct {
	Status models.MentorshipStatus `json:"status" binding:"required" example:"accepted"`
}

// MentorshipAvailabilityResponse reports the toggled availability flag
type MentorshipAvailabilityResponse struct {
	MentorshipAvailable bool `json:"mentorship_available" example:"false"`
}
