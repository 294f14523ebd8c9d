package handlers

import (
	"context"
	"fmt"

	"stackmap-backend/application/ports"
	"stackmap-backend/application/queries"
	"stackmap-backend/application/queries/bus"
	"stackmap-backend/domain/core/valueobjects"
	"stackmap-backend/pkg/utils"
)

// GetChainCommentsHandler handles GetChainCommentsQuery
type GetChainCommentsHandler struct {
	commentRepo ports.CommentRepository
}

// NewGetChainCommentsHandler creates a new handler instance
func NewGetChainCommentsHandler(commentRepo ports.CommentRepository) *GetChainCommentsHandler {
	return &GetChainCommentsHandler{commentRepo: commentRepo}
}

// Handle implements bus.QueryHandler
func (h *GetChainCommentsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetChainCommentsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	chainID, err := valueobjects.NewChainID(q.ChainID)
	if err != nil {
		return nil, err
	}

	comments, err := h.commentRepo.ListByChain(ctx, q.ProjectID, chainID)
	if err != nil {
		return nil, err
	}

	list := queries.CommentList{
		ChainID:  q.ChainID,
		Comments: make([]queries.CommentView, 0, len(comments)),
	}
	for _, comment := range comments {
		list.Comments = append(list.Comments, queries.CommentView{
			ID:        comment.ID(),
			ChainID:   comment.ChainID().String(),
			AuthorID:  comment.AuthorID(),
			Body:      comment.Body(),
			CreatedAt: utils.FormatRFC3339(comment.CreatedAt()),
		})
	}
	return list, nil
}
