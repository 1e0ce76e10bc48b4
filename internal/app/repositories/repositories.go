package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	AlumniRepository     *AlumniRepository
	MentorshipRepository *MentorshipRepository
	EventRepository      *EventRepository
	AdminRepository      *AdminRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		AlumniRepository:     NewAlumniRepository(db),
		MentorshipRepository: NewMentorshipRepository(db),
		EventRepository:      NewEventRepository(db),
		AdminRepository:      NewAdminRepository(db),
	}
}
