// Package memory provides in-memory repository implementations used by
// tests and local development mode.
package memory

import (
	"context"
	"sync"

	"stackmap-backend/domain/core/aggregates"
	"stackmap-backend/domain/core/entities"
	"stackmap-backend/domain/core/valueobjects"
)

// StackRepository is an in-memory ports.StackRepository
type StackRepository struct {
	mu        sync.RWMutex
	stacks    map[string]*stackRecord
	positions map[string]map[string]valueobjects.Position
}

type stackRecord struct {
	organizationID string
	projectID      string
	tools          []*entities.Tool
	connections    []*entities.Connection
	createdAt      int64
}

// NewStackRepository creates an empty repository
func NewStackRepository() *StackRepository {
	return &StackRepository{
		stacks:    make(map[string]*stackRecord),
		positions: make(map[string]map[string]valueobjects.Position),
	}
}

func stackKey(organizationID, projectID string) string {
	return organizationID + "/" + projectID
}

// Save persists the stack
func (r *StackRepository) Save(_ context.Context, stack *aggregates.ToolStack) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stacks[stackKey(stack.OrganizationID(), stack.ProjectID())] = &stackRecord{
		organizationID: stack.OrganizationID(),
		projectID:      stack.ProjectID(),
		tools:          stack.Tools(),
		connections:    stack.Connections(),
	}
	return nil
}

// GetByProjectID retrieves a project's stack; unseen projects get an
// empty stack.
func (r *StackRepository) GetByProjectID(_ context.Context, organizationID, projectID string) (*aggregates.ToolStack, error) {
	r.mu.RLock()
	record, exists := r.stacks[stackKey(organizationID, projectID)]
	r.mu.RUnlock()

	if !exists {
		return aggregates.NewToolStack(projectID, organizationID)
	}

	stack, err := aggregates.NewToolStack(projectID, organizationID)
	if err != nil {
		return nil, err
	}
	return aggregates.ReconstructToolStack(
		projectID, organizationID,
		record.tools, record.connections,
		stack.CreatedAt(), stack.UpdatedAt(),
	)
}

// SaveNodePositions merges the given positions into the stored overrides
func (r *StackRepository) SaveNodePositions(_ context.Context, organizationID, projectID string, positions map[string]valueobjects.Position) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := stackKey(organizationID, projectID)
	stored, exists := r.positions[key]
	if !exists {
		stored = make(map[string]valueobjects.Position)
		r.positions[key] = stored
	}
	for nodeID, pos := range positions {
		stored[nodeID] = pos
	}
	return nil
}

// GetNodePositions retrieves the stored position overrides
func (r *StackRepository) GetNodePositions(_ context.Context, organizationID, projectID string) (map[string]valueobjects.Position, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]valueobjects.Position)
	for nodeID, pos := range r.positions[stackKey(organizationID, projectID)] {
		result[nodeID] = pos
	}
	return result, nil
}
