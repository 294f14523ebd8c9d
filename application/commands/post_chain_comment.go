package commands

import (
	"context"
	"errors"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/entities"
	"stackmap-backend/domain/core/valueobjects"
)

// PostChainCommentCommand attaches a comment to one chain of a project
type PostChainCommentCommand struct {
	ProjectID string `json:"project_id" validate:"required"`
	ChainID   string `json:"chain_id" validate:"required"`
	AuthorID  string `json:"author_id" validate:"required"`
	Body      string `json:"body" validate:"required,max=2000"`
}

// Validate validates the command
func (cmd PostChainCommentCommand) Validate() error {
	if cmd.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if cmd.ChainID == "" {
		return errors.New("chain ID is required")
	}
	if cmd.AuthorID == "" {
		return errors.New("author ID is required")
	}
	if cmd.Body == "" {
		return errors.New("body is required")
	}
	return nil
}

// PostChainCommentHandler handles PostChainCommentCommand
type PostChainCommentHandler struct {
	commentRepo ports.CommentRepository
}

// NewPostChainCommentHandler creates a new handler instance
func NewPostChainCommentHandler(commentRepo ports.CommentRepository) *PostChainCommentHandler {
	return &PostChainCommentHandler{commentRepo: commentRepo}
}

// Handle executes the command and returns the new comment
func (h *PostChainCommentHandler) Handle(ctx context.Context, cmd PostChainCommentCommand) (*entities.ChainComment, error) {
	chainID, err := valueobjects.NewChainID(cmd.ChainID)
	if err != nil {
		return nil, err
	}

	comment, err := entities.NewChainComment(cmd.ProjectID, chainID, cmd.AuthorID, cmd.Body)
	if err != nil {
		return nil, err
	}
	if err := h.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
