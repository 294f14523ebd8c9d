package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"stackmap-backend/domain/core/entities"
	pkgerrors "stackmap-backend/pkg/errors"
)

// PostRepository is an in-memory ports.PostRepository
type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]map[string]*entities.Post
}

// NewPostRepository creates an empty repository
func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]map[string]*entities.Post)}
}

// Save persists a post
func (r *PostRepository) Save(_ context.Context, post *entities.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	org, exists := r.posts[post.OrganizationID()]
	if !exists {
		org = make(map[string]*entities.Post)
		r.posts[post.OrganizationID()] = org
	}
	org[post.ID()] = post
	return nil
}

// GetByID retrieves a post
func (r *PostRepository) GetByID(_ context.Context, organizationID, postID string) (*entities.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[organizationID][postID]
	if !exists {
		return nil, pkgerrors.NewNotFoundError("post")
	}
	return post, nil
}

// ListPublished returns published posts, newest first
func (r *PostRepository) ListPublished(_ context.Context, organizationID string, limit, offset int) ([]*entities.Post, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	published := make([]*entities.Post, 0)
	for _, post := range r.posts[organizationID] {
		if post.IsPublished(now) {
			published = append(published, post)
		}
	}
	sort.Slice(published, func(i, j int) bool {
		if published[i].CreatedAt().Equal(published[j].CreatedAt()) {
			return published[i].ID() > published[j].ID()
		}
		return published[i].CreatedAt().After(published[j].CreatedAt())
	})

	total := len(published)
	if offset >= total {
		return []*entities.Post{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return published[offset:end], total, nil
}

// Delete removes a post
func (r *PostRepository) Delete(_ context.Context, organizationID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[organizationID][postID]; !exists {
		return pkgerrors.NewNotFoundError("post")
	}
	delete(r.posts[organizationID], postID)
	return nil
}
