package domain

import "time"

// Team groups agent and supervisor accounts. Accounts reference teams by ID.
type Team struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
