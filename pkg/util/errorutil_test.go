package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewTeamRequired("Agent")

	converted := ToDomainError(original)
	assert.Equal(t, "TEAM_REQUIRED", converted.Code)
	assert.Equal(t, http.StatusBadRequest, converted.HTTPStatus)
	assert.Equal(t, "Agent", converted.Details["role"])
}

func TestToDomainErrorWrapsFiberError(t *testing.T) {
	converted := ToDomainError(fiber.ErrMethodNotAllowed)
	assert.Equal(t, http.StatusMethodNotAllowed, converted.HTTPStatus)
	assert.Equal(t, "INTERNAL_ERROR", converted.Code)

	converted = ToDomainError(fiber.ErrNotFound)
	assert.Equal(t, "NOT_FOUND", converted.Code)
	assert.Equal(t, http.StatusNotFound, converted.HTTPStatus)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	converted := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", converted.Code)
}

func TestToDomainErrorDefaultsToInternal(t *testing.T) {
	converted := ToDomainError(errors.New("disk on fire"))
	assert.Equal(t, "INTERNAL_ERROR", converted.Code)
	assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	// The original cause stays wrapped for logging.
	assert.ErrorContains(t, converted.Err, "disk on fire")
}

func TestTranslateConstraint(t *testing.T) {
	teamID := int64(9)

	err := TranslateConstraint(&pgconn.PgError{Code: "23505"}, "AG001", nil)
	domainErr := ToDomainError(err)
	require.Equal(t, "DUPLICATE_USERNAME", domainErr.Code)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)

	err = TranslateConstraint(&pgconn.PgError{Code: "23503"}, "AG001", &teamID)
	domainErr = ToDomainError(err)
	require.Equal(t, "TEAM_REQUIRED", domainErr.Code)
	assert.Equal(t, teamID, domainErr.Details["teamId"])

	err = TranslateConstraint(errors.New("connection reset"), "AG001", nil)
	assert.Equal(t, "INTERNAL_ERROR", ToDomainError(err).Code)

	assert.NoError(t, TranslateConstraint(nil, "AG001", nil))
}
