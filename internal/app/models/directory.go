package models

import "strings"

// AlumniFilter holds the optional directory filters. Zero values mean "no filter".
type AlumniFilter struct {
	Name            string
	Company         string
	Department      string
	Batch           string
	ExperienceLevel string
	// OnlyAvailable restricts to alumni open to mentorship. There is no
	// "only unavailable" filter.
	OnlyAvailable bool
	Skills        []string
}

// ParseSkillList splits a comma separated skills parameter, trimming entries
// and dropping empty ones
func ParseSkillList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
