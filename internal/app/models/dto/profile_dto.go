package dto

// AlumniSearchQuery binds the directory query string
type AlumniSearchQuery struct {
	Name                string `form:"name"`
	Company             string `form:"company"`
	Department          string `form:"department"`
	Batch               string `form:"batch"`
	Skills              string `form:"skills" example:"go,react"`
	ExperienceLevel     string `form:"experience_level"`
	MentorshipAvailable string `form:"mentorship_available" example:"true"`
}

// UpdateAlumniProfileRequest replaces the editable alumni profile fields
type UpdateAlumniProfileRequest struct {
	Company         string   `json:"company" binding:"required" example:"Zoho"`
	JobRole         string   `json:"job_role" binding:"required" example:"Backend Engineer"`
	Department      string   `json:"department" binding:"required" example:"CSE"`
	Batch           string   `json:"batch" binding:"required" example:"2019"`
	Skills          []string `json:"skills" example:"go,postgres"`
	ExperienceLevel *string  `json:"experience_level" example:"senior"`
	Bio             *string  `json:"bio" binding:"omitempty,max=2000"`
}

// ResumeUploadResponse is returned after a resume upload
type ResumeUploadResponse struct {
	Message   string `json:"message" example:"Resume uploaded successfully"`
	ResumeURL string `json:"resume_url" example:"/uploads/resumes/2f1c.pdf"`
}
