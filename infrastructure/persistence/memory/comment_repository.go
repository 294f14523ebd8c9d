package memory

import (
	"context"
	"sort"
	"sync"

	"stackmap-backend/domain/core/entities"
	"stackmap-backend/domain/core/valueobjects"
	pkgerrors "stackmap-backend/pkg/errors"
)

// CommentRepository is an in-memory ports.CommentRepository
type CommentRepository struct {
	mu       sync.RWMutex
	comments map[string]map[string]*entities.ChainComment
}

// NewCommentRepository creates an empty repository
func NewCommentRepository() *CommentRepository {
	return &CommentRepository{comments: make(map[string]map[string]*entities.ChainComment)}
}

// Save persists a comment
func (r *CommentRepository) Save(_ context.Context, comment *entities.ChainComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, exists := r.comments[comment.ProjectID()]
	if !exists {
		project = make(map[string]*entities.ChainComment)
		r.comments[comment.ProjectID()] = project
	}
	project[comment.ID()] = comment
	return nil
}

// GetByID retrieves a comment
func (r *CommentRepository) GetByID(_ context.Context, projectID, commentID string) (*entities.ChainComment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, exists := r.comments[projectID][commentID]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("comment")
	}
	return comment, nil
}

// ListByChain returns a chain's comments, oldest first
func (r *CommentRepository) ListByChain(_ context.Context, projectID string, chainID valueobjects.ChainID) ([]*entities.ChainComment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matching := make([]*entities.ChainComment, 0)
	for _, comment := range r.comments[projectID] {
		if comment.ChainID().Equals(chainID) {
			matching = append(matching, comment)
		}
	}
	sort.Slice(matching, func(i, j int) bool {
		if matching[i].CreatedAt().Equal(matching[j].CreatedAt()) {
			return matching[i].ID() < matching[j].ID()
		}
		return matching[i].CreatedAt().Before(matching[j].CreatedAt())
	})
	return matching, nil
}

// Delete removes a comment
func (r *CommentRepository) Delete(_ context.Context, projectID, commentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.comments[projectID][commentID]; !exists {
		return pkgerrors.NewNotFoundError("comment")
	}
	delete(r.comments[projectID], commentID)
	return nil
}
