package models

import "time"

// EventType categorizes campus events
type EventType string

const (
	EventGeneral    EventType = "general"
	EventTraining   EventType = "training"
	EventPlacement  EventType = "placement"
	EventAlumniMeet EventType = "alumni_meet"
)

// IsValid reports whether t is a known event type
func (t EventType) IsValid() bool {
	switch t {
	case EventGeneral, EventTraining, EventPlacement, EventAlumniMeet:
		return true
	}
	return false
}

// Event defines the 'events' table
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Date        time.Time `json:"date" db:"date"`
	Type        EventType `json:"type" db:"type"`
	CreatedBy   *int64    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AdminStats are the counters shown on the admin dashboard
type AdminStats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalStudents    int64 `json:"total_students"`
	TotalAlumni      int64 `json:"total_alumni"`
	PendingAlumni    int64 `json:"pending_alumni"`
	TotalRequests    int64 `json:"total_requests"`
	PendingRequests  int64 `json:"pending_requests"`
	AcceptedRequests int64 `json:"accepted_requests"`
	TotalEvents      int64 `json:"total_events"`
}

// PendingAlumni is a row of the admin approval queue
type PendingAlumni struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	College   string    `json:"college"`
	Company   string    `json:"company"`
	JobRole   string    `json:"job_role"`
	Batch     string    `json:"batch"`
	CreatedAt time.Time `json:"created_at"`
}
