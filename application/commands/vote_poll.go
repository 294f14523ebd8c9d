package commands

import (
	"context"
	"errors"

	"stackmap-backend/application/ports"
)

// VotePollCommand records one user's vote on a poll post
type VotePollCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	PostID         string `json:"post_id" validate:"required"`
	UserID         string `json:"user_id" validate:"required"`
	OptionID       string `json:"option_id" validate:"required"`
}

// Validate validates the command
func (cmd VotePollCommand) Validate() error {
	if cmd.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cmd.PostID == "" {
		return errors.New("post ID is required")
	}
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if cmd.OptionID == "" {
		return errors.New("option ID is required")
	}
	return nil
}

// VotePollHandler handles VotePollCommand
type VotePollHandler struct {
	postRepo ports.PostRepository
}

// NewVotePollHandler creates a new handler instance
func NewVotePollHandler(postRepo ports.PostRepository) *VotePollHandler {
	return &VotePollHandler{postRepo: postRepo}
}

// Handle executes the vote command
func (h *VotePollHandler) Handle(ctx context.Context, cmd VotePollCommand) error {
	post, err := h.postRepo.GetByID(ctx, cmd.OrganizationID, cmd.PostID)
	if err != nil {
		return err
	}
	if err := post.Vote(cmd.UserID, cmd.OptionID); err != nil {
		return err
	}
	return h.postRepo.Save(ctx, post)
}
