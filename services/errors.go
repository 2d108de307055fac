package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Kind classifies a service error for the transport layer.
type Kind int

const (
	KindBadRequest Kind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a domain error surfaced directly to the caller.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Sentinel errors, compared with errors.Is.
var (
	ErrDuplicateEmail       = &Error{Kind: KindConflict, Code: "DUPLICATE_EMAIL", Message: "Email already exists"}
	ErrInvalidCredentials   = &Error{Kind: KindUnauthenticated, Code: "INVALID_CREDENTIALS", Message: "Invalid credentials"}
	ErrTokenInvalid         = &Error{Kind: KindUnauthenticated, Code: "INVALID_TOKEN", Message: "Failed to validate token"}
	ErrTokenExpired         = &Error{Kind: KindUnauthenticated, Code: "TOKEN_EXPIRED", Message: "Token has expired"}
	ErrForbidden            = &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: "Not authorized"}
	ErrInsufficientRole     = &Error{Kind: KindForbidden, Code: "INSUFFICIENT_ROLE", Message: "Access forbidden: insufficient role"}
	ErrNotParticipant       = &Error{Kind: KindForbidden, Code: "NOT_PARTICIPANT", Message: "Sender or receiver not part of appointment"}
	ErrUserNotFound         = &Error{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "User not found"}
	ErrProfileNotFound      = &Error{Kind: KindNotFound, Code: "PROFILE_NOT_FOUND", Message: "Profile not found"}
	ErrProfileAlreadyExists = &Error{Kind: KindConflict, Code: "PROFILE_EXISTS", Message: "Profile already exists"}
	ErrLawyerNotFound       = &Error{Kind: KindNotFound, Code: "LAWYER_NOT_FOUND", Message: "Lawyer not found"}
	ErrAppointmentNotFound  = &Error{Kind: KindNotFound, Code: "APPOINTMENT_NOT_FOUND", Message: "Appointment not found"}
	ErrMessageNotFound      = &Error{Kind: KindNotFound, Code: "MESSAGE_NOT_FOUND", Message: "Message not found"}
	ErrEntryNotFound        = &Error{Kind: KindNotFound, Code: "ENTRY_NOT_FOUND", Message: "not found"}
	ErrFileNotFound         = &Error{Kind: KindNotFound, Code: "FILE_NOT_FOUND", Message: "File not found"}
	ErrInvalidFilename      = &Error{Kind: KindBadRequest, Code: "INVALID_FILENAME", Message: "Invalid filename"}
)

// BadRequest builds a validation error with the given message.
func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Code: "VALIDATION_ERROR", Message: message}
}

// KindOf returns the kind of err, or 0 for infrastructure errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// isUniqueViolation works with both PostgreSQL and SQLite
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate") ||
		strings.Contains(errMsg, "unique constraint") ||
		strings.Contains(errMsg, "unique")
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
