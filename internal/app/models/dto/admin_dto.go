package dto

import (
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
)

// ApprovalDecision is the admin's verdict on a pending alumni
type ApprovalDecision string

const (
	ApprovalApproved ApprovalDecision = "approved"
	ApprovalRejected ApprovalDecision = "rejected"
)

// UpdateApprovalRequest approves or rejects a pending alumni
type UpdateApprovalRequest struct {
	UserID int64            `json:"userId" binding:"required,gt=0" example:"12"`
	Status ApprovalDecision `json:"status" binding:"required,oneof=approved rejected" example:"approved"`
}

// ToggleStatusResponse reports the new active flag
type ToggleStatusResponse struct {
	UserID   int64 `json:"user_id" example:"12"`
	IsActive bool  `json:"is_active" example:"false"`
}

// UserListResponse is a page of users for the admin console
type UserListResponse struct {
	Users      []models.User  `json:"users"`
	Pagination PaginationInfo `json:"pagination"`
}

// EventRequest creates or replaces an event
type EventRequest struct {
	Title       string           `json:"title" binding:"required,max=200" example:"Placement orientation"`
	Description string           `json:"description" example:"Briefing for final years"`
	Date        time.Time        `json:"date" binding:"required" example:"2025-07-01T10:00:00Z"`
	Type        models.EventType `json:"type" binding:"required,oneof=general training placement alumni_meet" example:"placement"`
}
