package memory

import (
	"context"
	"sort"
	"sync"

	"stackmap-backend/domain/core/entities"
	pkgerrors "stackmap-backend/pkg/errors"
)

// IdeaRepository is an in-memory ports.IdeaRepository
type IdeaRepository struct {
	mu    sync.RWMutex
	ideas map[string]map[string]*entities.Idea
}

// NewIdeaRepository creates an empty repository
func NewIdeaRepository() *IdeaRepository {
	return &IdeaRepository{ideas: make(map[string]map[string]*entities.Idea)}
}

// Save persists an idea
func (r *IdeaRepository) Save(_ context.Context, idea *entities.Idea) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	org, exists := r.ideas[idea.OrganizationID()]
	if !exists {
		org = make(map[string]*entities.Idea)
		r.ideas[idea.OrganizationID()] = org
	}
	org[idea.ID()] = idea
	return nil
}

// GetByID retrieves an idea
func (r *IdeaRepository) GetByID(_ context.Context, organizationID, ideaID string) (*entities.Idea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idea, exists := r.ideas[organizationID][ideaID]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("idea")
	}
	return idea, nil
}

// ListByStatus lists ideas newest first, optionally filtered by status
func (r *IdeaRepository) ListByStatus(_ context.Context, organizationID string, status entities.IdeaStatus, limit, offset int) ([]*entities.Idea, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matching := make([]*entities.Idea, 0)
	for _, idea := range r.ideas[organizationID] {
		if status == "" || idea.Status() == status {
			matching = append(matching, idea)
		}
	}
	sort.Slice(matching, func(i, j int) bool {
		if matching[i].CreatedAt().Equal(matching[j].CreatedAt()) {
			return matching[i].ID() > matching[j].ID()
		}
		return matching[i].CreatedAt().After(matching[j].CreatedAt())
	})

	total := len(matching)
	if offset >= total {
		return []*entities.Idea{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matching[offset:end], total, nil
}
