package commands

import (
	"context"
	"errors"

	"stackmap-backend/application/ports"
	pkgerrors "stackmap-backend/pkg/errors"
)

// DeletePostCommand removes a feed post. Only the author may delete
// their own post; votes on a poll go with it.
type DeletePostCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	PostID         string `json:"post_id" validate:"required"`
	RequestedBy    string `json:"requested_by" validate:"required"`
}

// Validate validates the command
func (cmd DeletePostCommand) Validate() error {
	if cmd.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cmd.PostID == "" {
		return errors.New("post ID is required")
	}
	if cmd.RequestedBy == "" {
		return errors.New("requesting user is required")
	}
	return nil
}

// DeletePostHandler handles DeletePostCommand
type DeletePostHandler struct {
	postRepo ports.PostRepository
}

// NewDeletePostHandler creates a new handler instance
func NewDeletePostHandler(postRepo ports.PostRepository) *DeletePostHandler {
	return &DeletePostHandler{postRepo: postRepo}
}

// Handle executes the delete command
func (h *DeletePostHandler) Handle(ctx context.Context, cmd DeletePostCommand) error {
	post, err := h.postRepo.GetByID(ctx, cmd.OrganizationID, cmd.PostID)
	if err != nil {
		return err
	}
	if post.AuthorID() != cmd.RequestedBy {
		return pkgerrors.NewForbiddenError("only the author can delete a post")
	}
	return h.postRepo.Delete(ctx, cmd.OrganizationID, cmd.PostID)
}
