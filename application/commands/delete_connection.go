package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/valueobjects"
	"stackmap-backend/pkg/observability"
)

// DeleteConnectionCommand removes a single connection
type DeleteConnectionCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	ProjectID      string `json:"project_id" validate:"required"`
	ConnectionID   string `json:"connection_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd DeleteConnectionCommand) Validate() error {
	if cmd.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cmd.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if cmd.ConnectionID == "" {
		return errors.New("connection ID is required")
	}
	return nil
}

// DeleteConnectionHandler handles DeleteConnectionCommand
type DeleteConnectionHandler struct {
	stackRepo ports.StackRepository
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewDeleteConnectionHandler creates a new handler instance
func NewDeleteConnectionHandler(
	stackRepo ports.StackRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *DeleteConnectionHandler {
	return &DeleteConnectionHandler{
		stackRepo: stackRepo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle executes the delete connection command
func (h *DeleteConnectionHandler) Handle(ctx context.Context, cmd DeleteConnectionCommand) error {
	connID, err := valueobjects.NewConnectionIDFromString(cmd.ConnectionID)
	if err != nil {
		return err
	}

	stack, err := h.stackRepo.GetByProjectID(ctx, cmd.OrganizationID, cmd.ProjectID)
	if err != nil {
		return err
	}
	if err := stack.DeleteConnection(connID); err != nil {
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

	h.metrics.ConnectionsDeleted.Inc()
	return nil
}
