package commands

import (
	"context"
	"errors"

	"stackmap-backend/application/ports"
	pkgerrors "stackmap-backend/pkg/errors"
)

// DeleteCommentCommand removes a chain comment. Only the author may
// delete their own comment.
type DeleteCommentCommand struct {
	ProjectID   string `json:"project_id" validate:"required"`
	CommentID   string `json:"comment_id" validate:"required"`
	RequestedBy string `json:"requested_by" validate:"required"`
}

// Validate validates the command
func (cmd DeleteCommentCommand) Validate() error {
	if cmd.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if cmd.CommentID == "" {
		return errors.New("comment ID is required")
	}
	if cmd.RequestedBy == "" {
		return errors.New("requesting user is required")
	}
	return nil
}

// DeleteCommentHandler handles DeleteCommentCommand
type DeleteCommentHandler struct {
	commentRepo ports.CommentRepository
}

// NewDeleteCommentHandler creates a new handler instance
func NewDeleteCommentHandler(commentRepo ports.CommentRepository) *DeleteCommentHandler {
	return &DeleteCommentHandler{commentRepo: commentRepo}
}

// Handle executes the delete command
func (h *DeleteCommentHandler) Handle(ctx context.Context, cmd DeleteCommentCommand) error {
	comment, err := h.commentRepo.GetByID(ctx, cmd.ProjectID, cmd.CommentID)
	if err != nil {
		return err
	}
	if comment.AuthorID() != cmd.RequestedBy {
		return pkgerrors.NewForbiddenError("only the author can delete a comment")
	}
	return h.commentRepo.Delete(ctx, cmd.ProjectID, cmd.CommentID)
}
