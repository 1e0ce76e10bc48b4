package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Constraint names created by the schema migrations
const (
	ConstraintUsersEmail             = "users_email_key"
	ConstraintUsersPhone             = "users_phone_number_key"
	ConstraintStudentRegisterNumber  = "student_profiles_register_number_key"
	ConstraintMentorshipOnePending   = "mentorship_requests_one_pending_idx"
	ConstraintMentorshipAlumniUserFK = "mentorship_requests_alumni_id_fkey"
)

// Duplicate field names returned by DuplicateField
const (
	FieldEmail          = "email"
	FieldPhoneNumber    = "phone_number"
	FieldRegisterNumber = "register_number"
)

// IsUniqueViolation reports whether err is any PostgreSQL unique violation
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsForeignKeyViolation reports whether err is a foreign key violation
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

// DuplicateField maps a unique violation on the registration tables to the
// offending input field. The constraint name is checked first, then the
// violation detail ("Key (email)=(...) already exists."). Returns "" when err
// is not a unique violation or the field cannot be determined.
func DuplicateField(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return ""
	}

	switch pgErr.ConstraintName {
	case ConstraintUsersEmail:
		return FieldEmail
	case ConstraintUsersPhone:
		return FieldPhoneNumber
	case ConstraintStudentRegisterNumber:
		return FieldRegisterNumber
	}

	detail := pgErr.Detail
	switch {
	case strings.Contains(detail, "(email)"):
		return FieldEmail
	case strings.Contains(detail, "(phone_number)"):
		return FieldPhoneNumber
	case strings.Contains(detail, "(register_number)"):
		return FieldRegisterNumber
	}
	return ""
}
