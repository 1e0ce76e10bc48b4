package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusconnect/internal/app/models"
	"github.com/yigit/campusconnect/internal/app/models/dto"
	"github.com/yigit/campusconnect/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }

func TestUpdateAlumniProfile(t *testing.T) {
	users := newFakeUserRepo()
	alumni := users.add(&models.User{Name: "Alumni", Email: "a@alumni.edu", PhoneNumber: "9000000002", Role: models.RoleAlumni})
	_, err := users.ToggleMentorship(context.Background(), alumni.ID)
	require.NoError(t, err)
	svc := NewProfileService(users, newFakeStorage(), 0, zerolog.Nop())

	p, err := svc.UpdateAlumniProfile(context.Background(), alumni.ID, &dto.UpdateAlumniProfileRequest{
		Company:         " Freshworks ",
		JobRole:         "SRE",
		Department:      "IT",
		Batch:           "2017",
		Skills:          []string{"Go", " go ", "", "Kubernetes", "kubernetes", "SQL"},
		ExperienceLevel: strPtr("  "),
		Bio:             strPtr("Happy to help"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Freshworks", p.Company)
	assert.Equal(t, []string{"Go", "Kubernetes", "SQL"}, p.Skills)
	assert.Nil(t, p.ExperienceLevel)
	assert.Equal(t, "Happy to help", *p.Bio)
	// availability is not an editable profile field
	assert.False(t, p.MentorshipAvailable)
}

func TestUpdateAlumniProfile_RequiredFields(t *testing.T) {
	users := newFakeUserRepo()
	alumni := users.add(&models.User{Name: "Alumni", Email: "a@alumni.edu", PhoneNumber: "9000000002", Role: models.RoleAlumni})
	svc := NewProfileService(users, newFakeStorage(), 0, zerolog.Nop())

	_, err := svc.UpdateAlumniProfile(context.Background(), alumni.ID, &dto.UpdateAlumniProfileRequest{Company: "Zoho", Department: "CSE", Batch: "2019"})
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Equal(t, "job_role", apperrors.DetailsOf(err)["field"])

	_, err = svc.UpdateAlumniProfile(context.Background(), 999, &dto.UpdateAlumniProfileRequest{Company: "Zoho", JobRole: "SDE", Department: "CSE", Batch: "2019"})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestUploadResume(t *testing.T) {
	users := newFakeUserRepo()
	student := users.add(&models.User{Name: "Student", Email: "s@college.edu", PhoneNumber: "9000000001", Role: models.RoleStudent})
	storage := newFakeStorage()
	svc := NewProfileService(users, storage, 1024, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.UploadResume(ctx, student.ID, &multipart.FileHeader{Filename: "cv.pdf", Size: 512})
	require.NoError(t, err)
	assert.Contains(t, first.ResumeURL, "/uploads/resumes/")

	second, err := svc.UploadResume(ctx, student.ID, &multipart.FileHeader{Filename: "cv-v2.DOCX", Size: 512})
	require.NoError(t, err)
	assert.Equal(t, []string{first.ResumeURL}, storage.deleted)

	p, err := users.GetStudentProfile(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ResumeURL, *p.ResumeURL)
}

func TestUploadResume_Rejected(t *testing.T) {
	users := newFakeUserRepo()
	student := users.add(&models.User{Name: "Student", Email: "s@college.edu", PhoneNumber: "9000000001", Role: models.RoleStudent})
	storage := newFakeStorage()
	svc := NewProfileService(users, storage, 1024, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.UploadResume(ctx, student.ID, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.UploadResume(ctx, student.ID, &multipart.FileHeader{Filename: "cv.exe", Size: 10})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = svc.UploadResume(ctx, student.ID, &multipart.FileHeader{Filename: "cv.pdf", Size: 4096})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, storage.files)
}

func TestUploadResume_NoProfileRemovesFile(t *testing.T) {
	users := newFakeUserRepo()
	storage := newFakeStorage()
	svc := NewProfileService(users, storage, 0, zerolog.Nop())

	_, err := svc.UploadResume(context.Background(), 42, &multipart.FileHeader{Filename: "cv.pdf", Size: 10})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.Empty(t, storage.files)
	assert.Len(t, storage.deleted, 1)
}
