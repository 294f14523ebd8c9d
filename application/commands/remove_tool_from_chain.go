package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/valueobjects"
	"stackmap-backend/pkg/observability"
)

// RemoveToolFromChainCommand deletes every connection of one chain that
// involves the given tool, leaving the tool and other chains intact.
type RemoveToolFromChainCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	ProjectID      string `json:"project_id" validate:"required"`
	ChainID        string `json:"chain_id" validate:"required"`
	ToolID         string `json:"tool_id" validate:"required,uuid"`
}

// Validate validates the command
func (cmd RemoveToolFromChainCommand) Validate() error {
	if cmd.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cmd.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if cmd.ChainID == "" {
		return errors.New("chain ID is required")
	}
	if cmd.ToolID == "" {
		return errors.New("tool ID is required")
	}
	return nil
}

// RemoveToolFromChainHandler handles RemoveToolFromChainCommand
type RemoveToolFromChainHandler struct {
	stackRepo ports.StackRepository
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewRemoveToolFromChainHandler creates a new handler instance
func NewRemoveToolFromChainHandler(
	stackRepo ports.StackRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *RemoveToolFromChainHandler {
	return &RemoveToolFromChainHandler{
		stackRepo: stackRepo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle executes the command
func (h *RemoveToolFromChainHandler) Handle(ctx context.Context, cmd RemoveToolFromChainCommand) error {
	toolID, err := valueobjects.NewToolIDFromString(cmd.ToolID)
	if err != nil {
		return err
	}
	chainID, err := valueobjects.NewChainID(cmd.ChainID)
	if err != nil {
		return err
	}

	stack, err := h.stackRepo.GetByProjectID(ctx, cmd.OrganizationID, cmd.ProjectID)
	if err != nil {
		return err
	}

	removed, err := stack.RemoveToolFromChain(toolID, chainID)
	if err != nil {
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

	h.logger.Info("tool removed from chain",
		zap.String("project_id", cmd.ProjectID),
		zap.String("chain_id", cmd.ChainID),
		zap.Int("connections_removed", removed))
	for i := 0; i < removed; i++ {
		h.metrics.ConnectionsDeleted.Inc()
	}
	return nil
}
