package dto

import (
	"time"

	"github.com/spec-kit/wallboard-service/internal/domain"
)

// AccountCreateRequest payload for new directory accounts.
type AccountCreateRequest struct {
	Username string  `json:"username"`
	FullName string  `json:"fullName"`
	Role     string  `json:"role"`
	TeamID   *int64  `json:"teamId"`
	Status   *string `json:"status"`
}

// AccountUpdateRequest is a partial update. Pointer fields distinguish
// "absent" from "explicitly null"; the raw TeamID json message preserves an
// explicit null so the column can be cleared for Admin accounts.
type AccountUpdateRequest struct {
	Username *string          `json:"username"`
	FullName *string          `json:"fullName"`
	Role     *string          `json:"role"`
	TeamID   OptionalNullable `json:"teamId"`
	Status   *string          `json:"status"`
}

// AccountResponse is the wire shape of a directory account.
type AccountResponse struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"fullName"`
	Role        string     `json:"role"`
	TeamID      *int64     `json:"teamId"`
	TeamName    *string    `json:"teamName,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// NewAccountResponse maps the domain model to its wire shape.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:          account.ID,
		Username:    account.Username,
		FullName:    account.FullName,
		Role:        string(account.Role),
		TeamID:      account.TeamID,
		TeamName:    account.TeamName,
		Status:      string(account.Status),
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
		LastLoginAt: account.LastLoginAt,
	}
}

// TeamResponse is the wire shape of a team.
type TeamResponse struct {
	ID   int64  `json:"teamId"`
	Name string `json:"teamName"`
}
