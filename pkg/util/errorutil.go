package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_FAILED"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	}
	return "INTERNAL_ERROR"
}

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewInvalidFormat(message string, details map[string]any) error {
	return NewDomainError("INVALID_FORMAT", message, http.StatusBadRequest, details)
}

func NewTeamRequired(role string) error {
	return NewDomainError("TEAM_REQUIRED", "Team ID is required for Agent and Supervisor roles", http.StatusBadRequest, map[string]any{"role": role})
}

func NewInvalidStatus(status string) error {
	return NewDomainError("INVALID_STATUS", fmt.Sprintf("invalid status %q", status), http.StatusBadRequest, map[string]any{"status": status})
}

func NewInvalidTransition(from, to string) error {
	return NewDomainError("INVALID_STATUS_TRANSITION", fmt.Sprintf("cannot change status from %q to %q", from, to), http.StatusBadRequest, map[string]any{"from": from, "to": to})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewDuplicateUsername(username string) error {
	return NewDomainError("DUPLICATE_USERNAME", fmt.Sprintf("username %q already exists", username), http.StatusConflict, map[string]any{"username": username})
}

func NewDuplicateCode(agentCode string) error {
	return NewDomainError("DUPLICATE_CODE", fmt.Sprintf("agent code %q already exists", agentCode), http.StatusConflict, map[string]any{"agentCode": agentCode})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{
			Code:       codeForStatus(fiberErr.Code),
			Message:    fiberErr.Message,
			HTTPStatus: fiberErr.Code,
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// Postgres error codes for constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// TranslateConstraint maps storage constraint violations to the nearest
// domain error. Unrecognized faults become INTERNAL_ERROR.
func TranslateConstraint(err error, username string, teamID *int64) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return NewDuplicateUsername(username)
		case pgForeignKeyViolation:
			details := map[string]any{}
			if teamID != nil {
				details["teamId"] = *teamID
			}
			return NewDomainError("TEAM_REQUIRED", "referenced team does not exist", http.StatusBadRequest, details)
		}
	}
	return NewInternalError(err)
}
