package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/entities"
	"stackmap-backend/domain/core/valueobjects"
	"stackmap-backend/pkg/observability"
)

// CreateConnectionCommand connects two tools on a project's canvas.
// ChainID names an existing chain to join; empty starts a new chain.
// Extend marks a deliberate chain extension.
type CreateConnectionCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	ProjectID      string `json:"project_id" validate:"required"`
	SourceID       string `json:"source_id" validate:"required"`
	TargetID       string `json:"target_id" validate:"required"`
	Label          string `json:"label" validate:"max=120"`
	ChainID        string `json:"chain_id"`
	Extend         bool   `json:"extend"`
}

// Validate validates the command
func (cmd CreateConnectionCommand) Validate() error {
	if cmd.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cmd.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if cmd.SourceID == "" {
		return errors.New("source ID is required")
	}
	if cmd.TargetID == "" {
		return errors.New("target ID is required")
	}
	if cmd.Extend && cmd.ChainID == "" {
		return errors.New("extending requires a chain ID")
	}
	return nil
}

// CreateConnectionHandler handles CreateConnectionCommand
type CreateConnectionHandler struct {
	stackRepo ports.StackRepository
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewCreateConnectionHandler creates a new handler instance
func NewCreateConnectionHandler(
	stackRepo ports.StackRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *CreateConnectionHandler {
	return &CreateConnectionHandler{
		stackRepo: stackRepo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle executes the command and returns the new connection
func (h *CreateConnectionHandler) Handle(ctx context.Context, cmd CreateConnectionCommand) (*entities.Connection, error) {
	sourceID, err := valueobjects.NewApplicationID(cmd.SourceID)
	if err != nil {
		return nil, err
	}
	targetID, err := valueobjects.NewApplicationID(cmd.TargetID)
	if err != nil {
		return nil, err
	}

	stack, err := h.stackRepo.GetByProjectID(ctx, cmd.OrganizationID, cmd.ProjectID)
	if err != nil {
		return nil, err
	}

	conn, err := stack.Connect(sourceID, targetID, cmd.Label, cmd.ChainID, cmd.Extend)
	if err != nil {
		return nil, err
	}
	if err := h.stackRepo.Save(ctx, stack); err != nil {
		return nil, err
	}

	if err := h.publisher.PublishBatch(ctx, stack.GetUncommittedEvents()); err != nil {
		h.logger.Warn("failed to publish stack events",
			zap.String("project_id", cmd.ProjectID),
			zap.Error(err))
	}
	stack.MarkEventsAsCommitted()

	h.metrics.ConnectionsCreated.Inc()
	return conn, nil
}
