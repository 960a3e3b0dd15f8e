package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/wallboard-service/internal/domain"
	"github.com/spec-kit/wallboard-service/internal/repository"
	apperrors "github.com/spec-kit/wallboard-service/pkg/util"
)

// usernamePattern accepts a role prefix followed by three digits 001-999.
// Leading zeros are significant; 000 is rejected.
var usernamePattern = regexp.MustCompile(`^(AG|SV|AD)(00[1-9]|0[1-9]\d|[1-9]\d{2})$`)

// ValidateUsername reports whether s is a well-formed directory username.
func ValidateUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// RoleFromUsername derives the role implied by the username prefix at
// creation time. The stored role field remains the source of truth afterward.
func RoleFromUsername(username string) (domain.Role, bool) {
	switch {
	case strings.HasPrefix(username, "AG"):
		return domain.RoleAgent, true
	case strings.HasPrefix(username, "SV"):
		return domain.RoleSupervisor, true
	case strings.HasPrefix(username, "AD"):
		return domain.RoleAdmin, true
	}
	return "", false
}

// roleTeamInvariant enforces that Agent and Supervisor accounts carry a
// positive team reference. Admin accounts may omit it.
func roleTeamInvariant(role domain.Role, teamID *int64) error {
	if role.RequiresTeam() && (teamID == nil || *teamID < 1) {
		return apperrors.NewTeamRequired(string(role))
	}
	return nil
}

// DirectoryService enforces account invariants before any persistence write.
type DirectoryService struct {
	accounts repository.AccountRepository
	teams    repository.TeamRepository
}

// AccountCreateInput describes account creation payload.
type AccountCreateInput struct {
	Username string
	FullName string
	Role     domain.Role
	TeamID   *int64
	Status   domain.AccountStatus
}

// AccountUpdateInput carries the fields explicitly present in an update
// request. A username field, if sent, is silently dropped by Update.
type AccountUpdateInput struct {
	FullName *string
	Role     *domain.Role
	TeamID   **int64
	Status   *domain.AccountStatus
}

// NewDirectoryService constructs the service.
func NewDirectoryService(accounts repository.AccountRepository, teams repository.TeamRepository) *DirectoryService {
	return &DirectoryService{accounts: accounts, teams: teams}
}

// Create validates format, uniqueness and the role/team invariant, then
// persists the account.
func (s *DirectoryService) Create(ctx context.Context, input AccountCreateInput) (*domain.Account, error) {
	if !ValidateUsername(input.Username) {
		return nil, apperrors.NewInvalidFormat(
			"Username must be in format: AGxxx, SVxxx, or ADxxx (001-999)",
			map[string]any{"username": input.Username})
	}
	if err := validateFullName(input.FullName); err != nil {
		return nil, err
	}
	if !domain.ValidRole(input.Role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	exists, err := s.accounts.UsernameExists(ctx, input.Username)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewDuplicateUsername(input.Username)
	}

	if err := roleTeamInvariant(input.Role, input.TeamID); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.AccountStatusActive
	}
	if !domain.ValidAccountStatus(status) {
		return nil, apperrors.NewValidationError("status must be Active or Inactive", map[string]any{"status": status})
	}

	account := &domain.Account{
		Username: input.Username,
		FullName: input.FullName,
		Role:     input.Role,
		TeamID:   input.TeamID,
		Status:   status,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperrors.TranslateConstraint(err, input.Username, input.TeamID)
	}
	return account, nil
}

// Get returns a single non-deleted account.
func (s *DirectoryService) Get(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return account, nil
}

// List returns accounts matching the provided filters, newest first.
func (s *DirectoryService) List(ctx context.Context, filter repository.AccountFilter) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return accounts, nil
}

// Update applies a partial update. The role/team invariant is re-checked on
// the merged view of existing and incoming fields before any write.
func (s *DirectoryService) Update(ctx context.Context, id int64, input AccountUpdateInput) (*domain.Account, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		if err := validateFullName(*input.FullName); err != nil {
			return nil, err
		}
	}
	if input.Role != nil && !domain.ValidRole(*input.Role) {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
	}
	if input.Status != nil && !domain.ValidAccountStatus(*input.Status) {
		return nil, apperrors.NewValidationError("status must be Active or Inactive", map[string]any{"status": *input.Status})
	}

	mergedRole := existing.Role
	if input.Role != nil {
		mergedRole = *input.Role
	}
	mergedTeamID := existing.TeamID
	if input.TeamID != nil {
		mergedTeamID = *input.TeamID
	}
	if err := roleTeamInvariant(mergedRole, mergedTeamID); err != nil {
		return nil, err
	}

	patch := repository.AccountPatch{
		FullName: input.FullName,
		Role:     input.Role,
		TeamID:   input.TeamID,
		Status:   input.Status,
	}
	if err := s.accounts.UpdateFields(ctx, id, patch); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("User", map[string]any{"id": id})
		}
		return nil, apperrors.TranslateConstraint(err, existing.Username, mergedTeamID)
	}
	return s.Get(ctx, id)
}

// Delete soft-deletes the account. Reads already filter on deleted_at, so the
// row disappears from every directory surface while history is retained.
func (s *DirectoryService) Delete(ctx context.Context, id int64) error {
	if err := s.accounts.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("User", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// ListTeams returns all teams for account form population.
func (s *DirectoryService) ListTeams(ctx context.Context) ([]domain.Team, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// validateFullName counts characters, not bytes, so multibyte names pass.
func validateFullName(fullName string) error {
	length := utf8.RuneCountInString(strings.TrimSpace(fullName))
	if length < 2 || length > 100 {
		return apperrors.NewValidationError("Full name must be 2-100 characters", map[string]any{"fullName": fullName})
	}
	return nil
}
