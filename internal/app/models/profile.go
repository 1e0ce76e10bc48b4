package models

import "strings"

// StudentProfile defines the 'student_profiles' table, 1:1 with a student user
type StudentProfile struct {
	UserID         int64   `json:"user_id" db:"user_id"`
	Department     string  `json:"department" db:"department" example:"CSE"`
	RegisterNumber string  `json:"register_number" db:"register_number" example:"21CS001"`
	Batch          string  `json:"batch" db:"batch" example:"2025"`
	ResumeURL      *string `json:"resume_url,omitempty" db:"resume_url"`
}

// AlumniProfile defines the 'alumni_profiles' table, 1:1 with an alumni user
type AlumniProfile struct {
	UserID              int64    `json:"user_id" db:"user_id"`
	Company             string   `json:"company" db:"company" example:"Zoho"`
	JobRole             string   `json:"job_role" db:"job_role" example:"Backend Engineer"`
	Department          string   `json:"department" db:"department" example:"CSE"`
	Batch               string   `json:"batch" db:"batch" example:"2019"`
	Skills              []string `json:"skills" db:"skills"`
	ExperienceLevel     *string  `json:"experience_level,omitempty" db:"experience_level"`
	MentorshipAvailable bool     `json:"mentorship_available" db:"mentorship_available"`
	Bio                 *string  `json:"bio,omitempty" db:"bio"`
}

// AlumniListing is a directory row: the public alumni fields joined with the profile
type AlumniListing struct {
	ID                  int64    `json:"id"`
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	College             string   `json:"college"`
	Company             string   `json:"company"`
	JobRole             string   `json:"job_role"`
	Department          string   `json:"department"`
	Batch               string   `json:"batch"`
	Skills              []string `json:"skills"`
	ExperienceLevel     *string  `json:"experience_level,omitempty"`
	MentorshipAvailable bool     `json:"mentorship_available"`
	Bio                 *string  `json:"bio,omitempty"`
}

// NormalizeSkills trims entries, drops blanks and removes case-insensitive
// duplicates while keeping the first spelling and original order.
func NormalizeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
