package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/valueobjects"
	"stackmap-backend/pkg/observability"
)

// RemoveToolCommand removes a tool from a project, cascading to every
// connection that involves it.
type RemoveToolCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	ProjectID      string `json:"project_id" validate:"required"`
	ToolID         string `json:"tool_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd RemoveToolCommand) Validate() error {
	if cmd.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cmd.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if cmd.ToolID == "" {
		return errors.New("tool ID is required")
	}
	return nil
}

// RemoveToolHandler handles RemoveToolCommand
type RemoveToolHandler struct {
	stackRepo ports.StackRepository
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewRemoveToolHandler creates a new handler instance
func NewRemoveToolHandler(
	stackRepo ports.StackRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *RemoveToolHandler {
	return &RemoveToolHandler{
		stackRepo: stackRepo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle executes the remove tool command
func (h *RemoveToolHandler) Handle(ctx context.Context, cmd RemoveToolCommand) error {
	toolID, err := valueobjects.NewToolIDFromString(cmd.ToolID)
	if err != nil {
		return err
	}

	stack, err := h.stackRepo.GetByProjectID(ctx, cmd.OrganizationID, cmd.ProjectID)
	if err != nil {
		return err
	}
	if err := stack.RemoveTool(toolID); err != nil {
		return err
	}
	if err := h.stackRepo.Save(ctx, stack); err != nil {
		return err
	}

	if err := h.publisher.PublishBatch(ctx, stack.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish stack events",
			zap.String("project_id", cmd.ProjectID),
			zap.Error(err))
	}
	stack.MarkEventsAsCommitted()

	h.metrics.ToolsRemoved.Inc()
	return nil
}
