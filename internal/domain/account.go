package domain

import "time"

// Role enumerates directory account roles.
type Role string

const (
	RoleAgent      Role = "Agent"
	RoleSupervisor Role = "Supervisor"
	RoleAdmin      Role = "Admin"
)

// ValidRole reports whether r is a recognized role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAgent, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// RequiresTeam reports whether accounts with this role must belong to a team.
func (r Role) RequiresTeam() bool {
	return r == RoleAgent || r == RoleSupervisor
}

// AccountStatus represents lifecycle states for a directory account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "Active"
	AccountStatusInactive AccountStatus = "Inactive"
)

// ValidAccountStatus reports whether s is a recognized account status.
func ValidAccountStatus(s AccountStatus) bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}

// Account is the domain model for admin-panel user accounts. Username is
// immutable after creation; Role is the sole source of truth even when it
// diverges from the username prefix.
type Account struct {
	ID          int64
	Username    string
	FullName    string
	Role        Role
	TeamID      *int64
	TeamName    *string
	Status      AccountStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
	DeletedAt   *time.Time
}
