package handlers

import (
	"context"
	"fmt"

	"stackmap-backend/application/ports"
	"stackmap-backend/application/queries"
	"stackmap-backend/application/queries/bus"
	"stackmap-backend/domain/core/entities"
	"stackmap-backend/pkg/utils"
)

// ListIdeasHandler handles ListIdeasQuery
type ListIdeasHandler struct {
	ideaRepo ports.IdeaRepository
}

// NewListIdeasHandler creates a new handler instance
func NewListIdeasHandler(ideaRepo ports.IdeaRepository) *ListIdeasHandler {
	return &ListIdeasHandler{ideaRepo: ideaRepo}
}

// Handle implements bus.QueryHandler
func (h *ListIdeasHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListIdeasQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	offset := (q.Page - 1) * q.PageSize
	ideas, total, err := h.ideaRepo.ListByStatus(ctx, q.OrganizationID, entities.IdeaStatus(q.Status), q.PageSize, offset)
	if err != nil {
		return nil, err
	}

	page := queries.IdeaPage{
		Ideas:      make([]queries.IdeaView, 0, len(ideas)),
		TotalCount: total,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
	for _, idea := range ideas {
		view := queries.IdeaView{
			ID:         idea.ID(),
			AuthorID:   idea.AuthorID(),
			Title:      idea.Title(),
			Body:       idea.Body(),
			Status:     string(idea.Status()),
			ReviewerID: idea.ReviewerID(),
			ReviewNote: idea.ReviewNote(),
			CreatedAt:  utils.FormatRFC3339(idea.CreatedAt()),
		}
		if !idea.ReviewedAt().IsZero() {
			view.ReviewedAt = utils.FormatRFC3339(idea.ReviewedAt())
		}
		page.Ideas = append(page.Ideas, view)
	}
	return page, nil
}
