package dto

import "time"

// LoginRequest carries exactly one credential field.
type LoginRequest struct {
	AdminCode      string `json:"adminCode"`
	AgentCode      string `json:"agentCode"`
	SupervisorCode string `json:"supervisorCode"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
