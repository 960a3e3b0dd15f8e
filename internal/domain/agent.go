package domain

import "time"

// AgentStatus enumerates live availability states on the wallboard.
type AgentStatus string

const (
	AgentStatusAvailable AgentStatus = "Available"
	AgentStatusBusy      AgentStatus = "Busy"
	AgentStatusWrap      AgentStatus = "Wrap"
	AgentStatusBreak     AgentStatus = "Break"
	AgentStatusNotReady  AgentStatus = "Not Ready"
	AgentStatusOffline   AgentStatus = "Offline"
)

// AgentStatuses lists every recognized status in display order.
var AgentStatuses = []AgentStatus{
	AgentStatusAvailable,
	AgentStatusBusy,
	AgentStatusWrap,
	AgentStatusBreak,
	AgentStatusNotReady,
	AgentStatusOffline,
}

// ValidAgentStatus reports whether s is a recognized status.
func ValidAgentStatus(s AgentStatus) bool {
	for _, candidate := range AgentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// StatusChange is one immutable entry in an agent's status history.
type StatusChange struct {
	From      AgentStatus `json:"from"`
	To        AgentStatus `json:"to"`
	Reason    string      `json:"reason,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Agent is a live presence record. History is append-only; every status
// mutation appends exactly one entry before the status field changes.
type Agent struct {
	ID               string
	AgentCode        string
	Name             string
	Email            string
	Department       string
	Skills           []string
	Status           AgentStatus
	IsActive         bool
	LoginTime        *time.Time
	LastStatusChange time.Time
	StatusHistory    []StatusChange
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
