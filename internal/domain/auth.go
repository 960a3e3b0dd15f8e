package domain

import "time"

// SubjectType differentiates directory account tokens from presence tokens.
type SubjectType string

const (
	SubjectTypeAccount SubjectType = "ACCOUNT"
	SubjectTypeAgent   SubjectType = "AGENT"
)

// Token represents issued authentication token metadata.
type Token struct {
	ID        string
	SubjectID string
	Subject   SubjectType
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}
