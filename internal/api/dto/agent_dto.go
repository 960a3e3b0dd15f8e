package dto

import (
	"time"

	"github.com/spec-kit/wallboard-service/internal/domain"
)

// AgentCreateRequest payload for registering an agent on the wallboard.
type AgentCreateRequest struct {
	AgentCode  string   `json:"agentCode"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Department string   `json:"department"`
	Skills     []string `json:"skills"`
	Status     string   `json:"status"`
}

// AgentUpdateRequest is a partial update of agent contact fields.
type AgentUpdateRequest struct {
	Name       *string   `json:"name"`
	Email      *string   `json:"email"`
	Department *string   `json:"department"`
	Skills     *[]string `json:"skills"`
}

// AgentStatusRequest payload for PUT /agents/:id/status.
type AgentStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// AgentResponse is the wire shape of a presence record.
type AgentResponse struct {
	ID               string                `json:"id"`
	AgentCode        string                `json:"agentCode"`
	Name             string                `json:"name"`
	Email            string                `json:"email"`
	Department       string                `json:"department"`
	Skills           []string              `json:"skills"`
	Status           string                `json:"status"`
	IsActive         bool                  `json:"isActive"`
	LoginTime        *time.Time            `json:"loginTime"`
	LastStatusChange time.Time             `json:"lastStatusChange"`
	StatusHistory    []domain.StatusChange `json:"statusHistory"`
	CreatedAt        time.Time             `json:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

// NewAgentResponse maps the domain model to its wire shape.
func NewAgentResponse(agent *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:               agent.ID,
		AgentCode:        agent.AgentCode,
		Name:             agent.Name,
		Email:            agent.Email,
		Department:       agent.Department,
		Skills:           agent.Skills,
		Status:           string(agent.Status),
		IsActive:         agent.IsActive,
		LoginTime:        agent.LoginTime,
		LastStatusChange: agent.LastStatusChange,
		StatusHistory:    agent.StatusHistory,
		CreatedAt:        agent.CreatedAt,
		UpdatedAt:        agent.UpdatedAt,
	}
}
