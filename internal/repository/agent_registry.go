package repository

import (
	"sync"

	"github.com/spec-kit/wallboard-service/internal/domain"
)

// AgentFilter defines exact-match filters for registry listing.
type AgentFilter struct {
	Status     *domain.AgentStatus
	Department *string
}

// AgentRegistry owns live presence records. Implementations must serialize
// mutations so concurrent status changes against the same record cannot lose
// history entries.
type AgentRegistry interface {
	Insert(agent *domain.Agent) error
	GetByID(id string) (*domain.Agent, bool)
	GetByCode(agentCode string) (*domain.Agent, bool)
	List(filter AgentFilter) []domain.Agent
	// Mutate applies fn to the stored record under the registry write lock
	// and returns a clone of the mutated record, still under that lock, so
	// callers never race a concurrent Delete on the read-back. A nil agent
	// means the id is unknown. An error from fn aborts the mutation and is
	// returned unchanged.
	Mutate(id string, fn func(agent *domain.Agent) error) (*domain.Agent, error)
	Delete(id string) bool
	Len() int
}

type inMemoryAgentRegistry struct {
	mu     sync.RWMutex
	agents map[string]*domain.Agent
}

// NewAgentRegistry creates an empty in-memory registry. Each instance is
// independent so tests can construct isolated registries.
func NewAgentRegistry() AgentRegistry {
	return &inMemoryAgentRegistry{agents: make(map[string]*domain.Agent)}
}

func (r *inMemoryAgentRegistry) Insert(agent *domain.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[agent.ID] = cloneAgent(agent)
	return nil
}

func (r *inMemoryAgentRegistry) GetByID(id string) (*domain.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	agent, ok := r.agents[id]
	if !ok {
		return nil, false
	}
	return cloneAgent(agent), true
}

func (r *inMemoryAgentRegistry) GetByCode(agentCode string) (*domain.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, agent := range r.agents {
		if agent.AgentCode == agentCode {
			return cloneAgent(agent), true
		}
	}
	return nil, false
}

func (r *inMemoryAgentRegistry) List(filter AgentFilter) []domain.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Agent, 0, len(r.agents))
	for _, agent := range r.agents {
		if filter.Status != nil && agent.Status != *filter.Status {
			continue
		}
		if filter.Department != nil && agent.Department != *filter.Department {
			continue
		}
		result = append(result, *cloneAgent(agent))
	}
	return result
}

func (r *inMemoryAgentRegistry) Mutate(id string, fn func(agent *domain.Agent) error) (*domain.Agent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, ok := r.agents[id]
	if !ok {
		return nil, nil
	}
	if err := fn(agent); err != nil {
		return nil, err
	}
	return cloneAgent(agent), nil
}

func (r *inMemoryAgentRegistry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.agents[id]; !ok {
		return false
	}
	delete(r.agents, id)
	return true
}

func (r *inMemoryAgentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// cloneAgent copies the record so callers never share slices with the store.
func cloneAgent(agent *domain.Agent) *domain.Agent {
	clone := *agent
	clone.Skills = append([]string(nil), agent.Skills...)
	clone.StatusHistory = append([]domain.StatusChange(nil), agent.StatusHistory...)
	return &clone
}
