package handlers

import (
	"context"
	"fmt"

	"stackmap-backend/application/ports"
	"stackmap-backend/application/queries"
	"stackmap-backend/application/queries/bus"
	"stackmap-backend/pkg/utils"
)

// ListFeedHandler handles ListFeedQuery
type ListFeedHandler struct {
	postRepo ports.PostRepository
}

// NewListFeedHandler creates a new handler instance
func NewListFeedHandler(postRepo ports.PostRepository) *ListFeedHandler {
	return &ListFeedHandler{postRepo: postRepo}
}

// Handle implements bus.QueryHandler
func (h *ListFeedHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListFeedQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	offset := (q.Page - 1) * q.PageSize
	posts, total, err := h.postRepo.ListPublished(ctx, q.OrganizationID, q.PageSize, offset)
	if err != nil {
		return nil, err
	}

	page := queries.FeedPage{
		Posts:      make([]queries.PostView, 0, len(posts)),
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
	for _, post := range posts {
		page.Posts = append(page.Posts, queries.PostView{
			ID:         post.ID(),
			AuthorID:   post.AuthorID(),
			Kind:       string(post.Kind()),
			Body:       post.Body(),
			Options:    post.Options(),
			TotalVotes: len(post.Votes()),
			PublishAt:  utils.FormatRFC3339(post.PublishAt()),
			CreatedAt:  utils.FormatRFC3339(post.CreatedAt()),
		})
	}
	return page, nil
}
