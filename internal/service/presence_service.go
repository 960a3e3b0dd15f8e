package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/wallboard-service/internal/domain"
	"github.com/spec-kit/wallboard-service/internal/events"
	"github.com/spec-kit/wallboard-service/internal/repository"
	apperrors "github.com/spec-kit/wallboard-service/pkg/util"
)

// allowedTransitions is the fixed table of legal status successors. It is
// total over the status enum; self-transitions are illegal because no status
// lists itself.
var allowedTransitions = map[domain.AgentStatus][]domain.AgentStatus{
	domain.AgentStatusAvailable: {domain.AgentStatusBusy, domain.AgentStatusBreak, domain.AgentStatusNotReady, domain.AgentStatusOffline},
	domain.AgentStatusBusy:      {domain.AgentStatusAvailable, domain.AgentStatusWrap, domain.AgentStatusNotReady},
	domain.AgentStatusWrap:      {domain.AgentStatusAvailable, domain.AgentStatusNotReady},
	domain.AgentStatusBreak:     {domain.AgentStatusAvailable, domain.AgentStatusOffline},
	domain.AgentStatusNotReady:  {domain.AgentStatusAvailable, domain.AgentStatusOffline},
	domain.AgentStatusOffline:   {domain.AgentStatusAvailable},
}

func isValidTransition(current, next domain.AgentStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// PresenceService maintains agent presence records and validates every
// requested status change against the transition table.
type PresenceService struct {
	registry   repository.AgentRegistry
	dispatcher events.Dispatcher
}

// AgentCreateInput describes agent creation payload.
type AgentCreateInput struct {
	AgentCode  string
	Name       string
	Email      string
	Department string
	Skills     []string
	Status     domain.AgentStatus
}

// AgentUpdateInput carries the fields present in a partial update.
type AgentUpdateInput struct {
	Name       *string
	Email      *string
	Department *string
	Skills     *[]string
}

// StatusSummary is the wallboard dashboard aggregate, computed at call time.
type StatusSummary struct {
	TotalAgents       int                        `json:"totalAgents"`
	StatusCounts      map[domain.AgentStatus]int `json:"statusCounts"`
	StatusPercentages map[domain.AgentStatus]int `json:"statusPercentages"`
	LastUpdated       time.Time                  `json:"lastUpdated"`
}

// NewPresenceService constructs the service.
func NewPresenceService(registry repository.AgentRegistry, dispatcher events.Dispatcher) *PresenceService {
	return &PresenceService{registry: registry, dispatcher: dispatcher}
}

// Create registers a new agent with default status Available.
func (s *PresenceService) Create(ctx context.Context, input AgentCreateInput) (*domain.Agent, error) {
	code := strings.TrimSpace(input.AgentCode)
	if code == "" {
		return nil, apperrors.NewValidationError("agentCode is required", nil)
	}
	if _, exists := s.registry.GetByCode(code); exists {
		return nil, apperrors.NewDuplicateCode(code)
	}

	status := input.Status
	if status == "" {
		status = domain.AgentStatusAvailable
	}
	if !domain.ValidAgentStatus(status) {
		return nil, apperrors.NewInvalidStatus(string(status))
	}

	department := input.Department
	if department == "" {
		department = "General"
	}

	now := time.Now()
	agent := &domain.Agent{
		ID:               generateAgentID(now),
		AgentCode:        code,
		Name:             input.Name,
		Email:            input.Email,
		Department:       department,
		Skills:           append([]string(nil), input.Skills...),
		Status:           status,
		IsActive:         true,
		LastStatusChange: now,
		StatusHistory:    []domain.StatusChange{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.registry.Insert(agent); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventAgentCreated,
		AgentID:   agent.ID,
		AgentCode: agent.AgentCode,
		Payload: events.AgentCreatedPayload{
			Name:       agent.Name,
			Department: agent.Department,
			Status:     agent.Status,
		},
	})
	return agent, nil
}

// Get returns the agent with the given id.
func (s *PresenceService) Get(ctx context.Context, id string) (*domain.Agent, error) {
	agent, ok := s.registry.GetByID(id)
	if !ok {
		return nil, apperrors.NewNotFound("Agent", map[string]any{"id": id})
	}
	return agent, nil
}

// List returns agents matching all provided exact-match filters.
func (s *PresenceService) List(ctx context.Context, filter repository.AgentFilter) ([]domain.Agent, error) {
	return s.registry.List(filter), nil
}

// UpdateFields applies a partial update to agent contact fields.
func (s *PresenceService) UpdateFields(ctx context.Context, id string, input AgentUpdateInput) (*domain.Agent, error) {
	agent, err := s.registry.Mutate(id, func(agent *domain.Agent) error {
		if input.Name != nil {
			agent.Name = *input.Name
		}
		if input.Email != nil {
			agent.Email = *input.Email
		}
		if input.Department != nil {
			agent.Department = *input.Department
		}
		if input.Skills != nil {
			agent.Skills = append([]string(nil), (*input.Skills)...)
		}
		agent.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, apperrors.NewNotFound("Agent", map[string]any{"id": id})
	}
	return agent, nil
}

// ChangeStatus validates the requested transition and, on success, appends
// one history entry before updating the status field. Validation runs inside
// the registry mutation so concurrent changes cannot interleave.
func (s *PresenceService) ChangeStatus(ctx context.Context, id string, newStatus domain.AgentStatus, reason string) (*domain.Agent, error) {
	if !domain.ValidAgentStatus(newStatus) {
		return nil, apperrors.NewInvalidStatus(string(newStatus))
	}

	var oldStatus domain.AgentStatus
	agent, err := s.registry.Mutate(id, func(agent *domain.Agent) error {
		if !isValidTransition(agent.Status, newStatus) {
			return apperrors.NewInvalidTransition(string(agent.Status), string(newStatus))
		}
		now := time.Now()
		oldStatus = agent.Status
		agent.StatusHistory = append(agent.StatusHistory, domain.StatusChange{
			From:      agent.Status,
			To:        newStatus,
			Reason:    reason,
			Timestamp: now,
		})
		agent.Status = newStatus
		agent.LastStatusChange = now
		agent.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	if agent == nil {
		return nil, apperrors.NewNotFound("Agent", map[string]any{"id": id})
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventAgentStatusChanged,
		AgentID:   agent.ID,
		AgentCode: agent.AgentCode,
		Payload: events.AgentStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Reason:    reason,
		},
	})
	return agent, nil
}

// Delete removes the agent entirely.
func (s *PresenceService) Delete(ctx context.Context, id string) error {
	agent, ok := s.registry.GetByID(id)
	if !ok {
		return apperrors.NewNotFound("Agent", map[string]any{"id": id})
	}
	if !s.registry.Delete(id) {
		return apperrors.NewNotFound("Agent", map[string]any{"id": id})
	}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventAgentDeleted,
		AgentID:   agent.ID,
		AgentCode: agent.AgentCode,
		Payload:   events.AgentDeletedPayload{Name: agent.Name},
	})
	return nil
}

// Summary computes per-status counts and nearest-integer percentages across
// every recognized status.
func (s *PresenceService) Summary(ctx context.Context) StatusSummary {
	agents := s.registry.List(repository.AgentFilter{})
	total := len(agents)

	counts := make(map[domain.AgentStatus]int, len(domain.AgentStatuses))
	for _, status := range domain.AgentStatuses {
		counts[status] = 0
	}
	for i := range agents {
		counts[agents[i].Status]++
	}

	percentages := make(map[domain.AgentStatus]int, len(counts))
	for status, count := range counts {
		if total > 0 {
			percentages[status] = int(float64(count)/float64(total)*100 + 0.5)
		} else {
			percentages[status] = 0
		}
	}

	return StatusSummary{
		TotalAgents:       total,
		StatusCounts:      counts,
		StatusPercentages: percentages,
		LastUpdated:       time.Now(),
	}
}

func (s *PresenceService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateAgentID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:9])
}
