package commands

import (
	"context"
	"errors"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/entities"
)

// SubmitIdeaCommand submits a strategic idea to the review board
type SubmitIdeaCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	AuthorID       string `json:"author_id" validate:"required"`
	Title          string `json:"title" validate:"required,max=200"`
	Body           string `json:"body" validate:"max=8000"`
}

// Validate validates the command
func (cmd SubmitIdeaCommand) Validate() error {
	if cmd.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cmd.AuthorID == "" {
		return errors.New("author ID is required")
	}
	if cmd.Title == "" {
		return errors.New("title is required")
	}
	return nil
}

// SubmitIdeaHandler handles SubmitIdeaCommand
type SubmitIdeaHandler struct {
	ideaRepo ports.IdeaRepository
}

// NewSubmitIdeaHandler creates a new handler instance
func NewSubmitIdeaHandler(ideaRepo ports.IdeaRepository) *SubmitIdeaHandler {
	return &SubmitIdeaHandler{ideaRepo: ideaRepo}
}

// Handle executes the command and returns the new idea
func (h *SubmitIdeaHandler) Handle(ctx context.Context, cmd SubmitIdeaCommand) (*entities.Idea, error) {
	idea, err := entities.NewIdea(cmd.OrganizationID, cmd.AuthorID, cmd.Title, cmd.Body)
	if err != nil {
		return nil, err
	}
	if err := h.ideaRepo.Save(ctx, idea); err != nil {
		return nil, err
	}
	return idea, nil
}
