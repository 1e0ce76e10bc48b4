package services

import (
	"context"
	"mime/multipart"
	"sort"
	"sync"
	"time"

	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/repositories"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
	"github.com/yigit/campusconnect/internal/pkg/email"
)

// fakeUserRepo is an in-memory IUserRepository with the same guards as the
// SQL implementation
type fakeUserRepo struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]*models.User
	students  map[int64]*models.StudentProfile
	alumni    map[int64]*models.AlumniProfile
	failStore error // returned from CreateWithProfile before anything is stored
}

var _ repositories.IUserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    map[int64]*models.User{},
		students: map[int64]*models.StudentProfile{},
		alumni:   map[int64]*models.AlumniProfile{},
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	if u.OTPCode != nil {
		code := *u.OTPCode
		c.OTPCode = &code
	}
	if u.OTPExpiry != nil {
		exp := *u.OTPExpiry
		c.OTPExpiry = &exp
	}
	return &c
}

// add stores a user directly, bypassing registration
func (r *fakeUserRepo) add(u *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.users[u.ID] = copyUser(u)
	if u.Role == models.RoleAlumni {
		r.alumni[u.ID] = &models.AlumniProfile{UserID: u.ID, Company: "Zoho", JobRole: "SDE", Department: "CSE", Batch: "2019", Skills: []string{}, MentorshipAvailable: true}
	}
	if u.Role == models.RoleStudent {
		r.students[u.ID] = &models.StudentProfile{UserID: u.ID, Department: "CSE", RegisterNumber: "REG" + u.PhoneNumber, Batch: "2025"}
	}
	return u
}

func (r *fakeUserRepo) CreateWithProfile(_ context.Context, u *models.User, student *models.StudentProfile, alumni *models.AlumniProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failStore != nil {
		return r.failStore
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "Email already in use")
		}
		if existing.PhoneNumber == u.PhoneNumber {
			return apperrors.NewCustomError(apperrors.ErrPhoneAlreadyExists, "Phone number already in use")
		}
	}
	if student != nil {
		for _, p := range r.students {
			if p.RegisterNumber == student.RegisterNumber {
				return apperrors.NewCustomError(apperrors.ErrRegisterNumberExists, "Register number already in use")
			}
		}
	}

	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.users[u.ID] = copyUser(u)
	if student != nil {
		student.UserID = u.ID
		p := *student
		r.students[u.ID] = &p
	}
	if alumni != nil {
		alumni.UserID = u.ID
		p := *alumni
		r.alumni[u.ID] = &p
	}
	return nil
}

func (r *fakeUserRepo) Taken(_ context.Context, emailAddr, phone string) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var e, p bool
	for _, u := range r.users {
		e = e || u.Email == emailAddr
		p = p || u.PhoneNumber == phone
	}
	return e, p, nil
}

func (r *fakeUserRepo) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, emailAddr string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == emailAddr })
}

func (r *fakeUserRepo) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.PhoneNumber == phone })
}

func (r *fakeUserRepo) AdminExists(_ context.Context) (bool, error) {
	_, err := r.find(func(u *models.User) bool { return u.Role == models.RoleAdmin })
	return err == nil, nil
}

func (r *fakeUserRepo) SetOTP(_ context.Context, userID int64, code string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.OTPCode, u.OTPExpiry = &code, &expiry
	return nil
}

func (r *fakeUserRepo) otpValid(u *models.User, code string, now time.Time) bool {
	return u.OTPCode != nil && *u.OTPCode == code && u.OTPExpiry != nil && u.OTPExpiry.After(now)
}

func (r *fakeUserRepo) ConsumeOTP(_ context.Context, userID int64, code string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || !r.otpValid(u, code, now) {
		return false, nil
	}
	u.IsVerified = true
	u.OTPCode, u.OTPExpiry = nil, nil
	return true, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.OTPCode, u.OTPExpiry = nil, nil
	return nil
}

func (r *fakeUserRepo) UpdatePasswordWithOTP(_ context.Context, userID int64, code string, now time.Time, hash string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || !r.otpValid(u, code, now) {
		return false, nil
	}
	u.PasswordHash = hash
	u.OTPCode, u.OTPExpiry = nil, nil
	return true, nil
}

func (r *fakeUserRepo) GetStudentProfile(_ context.Context, userID int64) (*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.students[userID]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("student profile not found")
	}
	c := *p
	return &c, nil
}

func (r *fakeUserRepo) GetAlumniProfile(_ context.Context, userID int64) (*models.AlumniProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.alumni[userID]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("alumni profile not found")
	}
	c := *p
	return &c, nil
}

func (r *fakeUserRepo) UpdateAlumniProfile(_ context.Context, p *models.AlumniProfile) (*models.AlumniProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.alumni[p.UserID]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("alumni profile not found")
	}
	available := cur.MentorshipAvailable
	c := *p
	c.MentorshipAvailable = available
	r.alumni[p.UserID] = &c
	out := c
	return &out, nil
}

func (r *fakeUserRepo) ToggleMentorship(_ context.Context, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.alumni[userID]
	if !ok {
		return false, apperrors.NewResourceNotFoundError("alumni profile not found")
	}
	p.MentorshipAvailable = !p.MentorshipAvailable
	return p.MentorshipAvailable, nil
}

func (r *fakeUserRepo) SetResumeURL(_ context.Context, userID int64, url string) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.students[userID]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("student profile not found")
	}
	prev := p.ResumeURL
	p.ResumeURL = &url
	return prev, nil
}

// fakeAdminRepo works on the users held by a fakeUserRepo
type fakeAdminRepo struct {
	users *fakeUserRepo
}

var _ repositories.IAdminRepository = (*fakeAdminRepo)(nil)

func (r *fakeAdminRepo) Stats(_ context.Context) (*models.AdminStats, error) {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	s := &models.AdminStats{}
	for _, u := range r.users.users {
		s.TotalUsers++
		switch u.Role {
		case models.RoleStudent:
			s.TotalStudents++
		case models.RoleAlumni:
			s.TotalAlumni++
			if u.IsPendingApproval() {
				s.PendingAlumni++
			}
		}
	}
	return s, nil
}

func (r *fakeAdminRepo) ListPendingAlumni(_ context.Context) ([]models.PendingAlumni, error) {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	out := []models.PendingAlumni{}
	for _, u := range r.users.users {
		if u.IsPendingApproval() {
			out = append(out, models.PendingAlumni{ID: u.ID, Name: u.Name, Email: u.Email})
		}
	}
	return out, nil
}

func (r *fakeAdminRepo) ListUsers(_ context.Context, role models.RoleType, offset uint64, limit int) ([]models.User, int64, error) {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	var all []models.User
	for _, u := range r.users.users {
		if (role == "" && u.Role != models.RoleAdmin) || u.Role == role {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := int64(len(all))
	start := int(offset)
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeAdminRepo) decide(userID int64, approve bool) error {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	u, ok := r.users.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	if !u.IsPendingApproval() {
		return apperrors.NewCustomError(apperrors.ErrNotPendingApproval, "User is not awaiting approval")
	}
	if approve {
		u.IsApproved = true
	} else {
		now := time.Now()
		u.RejectedAt = &now
	}
	return nil
}

func (r *fakeAdminRepo) Approve(_ context.Context, userID int64) error { return r.decide(userID, true) }

func (r *fakeAdminRepo) Reject(_ context.Context, userID int64) error { return r.decide(userID, false) }

func (r *fakeAdminRepo) ToggleActive(_ context.Context, userID int64) (bool, error) {
	r.users.mu.Lock()
	defer r.users.mu.Unlock()
	u, ok := r.users.users[userID]
	if !ok {
		return false, apperrors.ErrUserNotFound
	}
	u.IsActive = !u.IsActive
	return u.IsActive, nil
}

// fakeMentorshipRepo keeps requests in memory and applies the same
// pending-only transition guard as the SQL update
type fakeMentorshipRepo struct {
	mu       sync.Mutex
	nextID   int64
	requests map[int64]*models.MentorshipRequest
}

var _ repositories.IMentorshipRepository = (*fakeMentorshipRepo)(nil)

func newFakeMentorshipRepo() *fakeMentorshipRepo {
	return &fakeMentorshipRepo{requests: map[int64]*models.MentorshipRequest{}}
}

func (r *fakeMentorshipRepo) Create(_ context.Context, req *models.MentorshipRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.StudentID == req.StudentID && existing.AlumniID == req.AlumniID && existing.Status == models.MentorshipPending {
			return apperrors.NewCustomError(apperrors.ErrDuplicatePendingRequest, "You already have a pending request with this alumni")
		}
	}
	r.nextID++
	req.ID = r.nextID
	req.Status = models.MentorshipPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	c := *req
	r.requests[req.ID] = &c
	return nil
}

func (r *fakeMentorshipRepo) GetByID(_ context.Context, id int64) (*models.MentorshipRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.requests[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("mentorship request not found")
	}
	c := *m
	return &c, nil
}

func (r *fakeMentorshipRepo) TransitionFromPending(_ context.Context, id, alumniID int64, next models.MentorshipStatus) (*models.MentorshipRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.requests[id]
	if !ok {
		return nil, apperrors.NewResourceNotFoundError("mentorship request not found")
	}
	if m.AlumniID != alumniID {
		return nil, apperrors.NewForbiddenError("this request is not addressed to you")
	}
	if m.Status != models.MentorshipPending {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTransition, "request is already "+string(m.Status))
	}
	m.Status = next
	m.UpdatedAt = time.Now()
	c := *m
	return &c, nil
}

func (r *fakeMentorshipRepo) ListForAlumni(_ context.Context, alumniID int64) ([]models.IncomingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.IncomingRequest{}
	for _, m := range r.requests {
		if m.AlumniID == alumniID {
			out = append(out, models.IncomingRequest{MentorshipRequest: *m})
		}
	}
	return out, nil
}

func (r *fakeMentorshipRepo) ListForStudent(_ context.Context, studentID int64) ([]models.OutgoingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.OutgoingRequest{}
	for _, m := range r.requests {
		if m.StudentID == studentID {
			out = append(out, models.OutgoingRequest{MentorshipRequest: *m})
		}
	}
	return out, nil
}

// fakeAlumniRepo records the last search
type fakeAlumniRepo struct {
	filter            models.AlumniFilter
	includeUnapproved bool
	results           []models.AlumniListing
}

func (r *fakeAlumniRepo) Search(_ context.Context, filter models.AlumniFilter, includeUnapproved bool) ([]models.AlumniListing, error) {
	r.filter = filter
	r.includeUnapproved = includeUnapproved
	return r.results, nil
}

// fakeEventRepo keeps events in memory
type fakeEventRepo struct {
	nextID int64
	events map[int64]models.Event
}

func (r *fakeEventRepo) List(_ context.Context) ([]models.Event, error) {
	out := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeEventRepo) Create(_ context.Context, e *models.Event) error {
	r.nextID++
	e.ID = r.nextID
	e.CreatedAt = time.Now()
	r.events[e.ID] = *e
	return nil
}

func (r *fakeEventRepo) Update(_ context.Context, e *models.Event) error {
	cur, ok := r.events[e.ID]
	if !ok {
		return apperrors.NewResourceNotFoundError("event not found")
	}
	e.CreatedBy, e.CreatedAt = cur.CreatedBy, cur.CreatedAt
	r.events[e.ID] = *e
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.events[id]; !ok {
		return apperrors.NewResourceNotFoundError("event not found")
	}
	delete(r.events, id)
	return nil
}

// fakeClock is a settable Clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// recordingSender remembers the last code sent to each phone number
type recordingSender struct {
	mu    sync.Mutex
	codes map[string]string
	sent  int
}

func newRecordingSender() *recordingSender {
	return &recordingSender{codes: map[string]string{}}
}

func (s *recordingSender) SendOTP(_ context.Context, to email.Recipient, code string, _ email.Purpose, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[to.PhoneNumber] = code
	s.sent++
	return nil
}

func (s *recordingSender) last(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phone]
}

// sequenceOTPs hands out predictable codes
type sequenceOTPs struct {
	mu sync.Mutex
	n  int
}

func (g *sequenceOTPs) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return itoa6(100000 + g.n), nil
}

func itoa6(n int) string {
	const digits = "0123456789"
	b := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		b[i] = digits[n%10]
		n /= 10
	}
	return string(b)
}

// fakeStorage stores uploads by URL
type fakeStorage struct {
	mu      sync.Mutex
	n       int
	files   map[string]string
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string]string{}}
}

func (s *fakeStorage) SaveFileWithPath(_ context.Context, fh *multipart.FileHeader, subPath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	url := "/uploads/" + subPath + "/" + itoa6(s.n) + "-" + fh.Filename
	s.files[url] = fh.Filename
	return url, nil
}

func (s *fakeStorage) DeleteFile(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, url)
	s.deleted = append(s.deleted, url)
	return nil
}
