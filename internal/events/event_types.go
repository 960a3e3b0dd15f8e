package events

import (
	"time"

	"github.com/spec-kit/wallboard-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAgentCreated       EventType = "agent_created"
	EventAgentStatusChanged EventType = "agent_status_changed"
	EventAgentDeleted       EventType = "agent_deleted"
)

// Event represents a domain event emitted by the presence registry.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	AgentID   string      `json:"agent_id"`
	AgentCode string      `json:"agent_code"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AgentCreatedPayload payload.
type AgentCreatedPayload struct {
	Name       string             `json:"name"`
	Department string             `json:"department"`
	Status     domain.AgentStatus `json:"status"`
}

// AgentStatusChangedPayload payload.
type AgentStatusChangedPayload struct {
	OldStatus domain.AgentStatus `json:"old_status"`
	NewStatus domain.AgentStatus `json:"new_status"`
	Reason    string             `json:"reason,omitempty"`
}

// AgentDeletedPayload payload.
type AgentDeletedPayload struct {
	Name string `json:"name"`
}
