package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "student"
	RoleAlumni  RoleType = "alumni"
	RoleAdmin   RoleType = "admin"
)

// IsValid reports whether r is a known role
func (r RoleType) IsValid() bool {
	switch r {
	case RoleStudent, RoleAlumni, RoleAdmin:
		return true
	}
	return false
}

// CanSelfRegister reports whether r may be chosen at registration.
// Admin accounts are only created by the seeder.
func (r RoleType) CanSelfRegister() bool {
	return r == RoleStudent || r == RoleAlumni
}
