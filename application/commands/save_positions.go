package commands

import (
	"context"
	"errors"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/valueobjects"
)

// NodePositionInput is a dragged node position in canvas percent
type NodePositionInput struct {
	NodeID string  `json:"node_id" validate:"required"`
	X      float64 `json:"x" validate:"min=0,max=100"`
	Y      float64 `json:"y" validate:"min=0,max=100"`
}

// SaveNodePositionsCommand persists user-dragged node positions. Stored
// positions override the computed layout until the graph structure
// changes and the layout is recomputed.
type SaveNodePositionsCommand struct {
	OrganizationID string              `json:"organization_id" validate:"required"`
	ProjectID      string              `json:"project_id" validate:"required"`
	Positions      []NodePositionInput `json:"positions" validate:"required,min=1,dive"`
}

// Validate validates the command
func (cmd SaveNodePositionsCommand) Validate() error {
	if cmd.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cmd.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if len(cmd.Positions) == 0 {
		return errors.New("at least one position is required")
	}
	for _, p := range cmd.Positions {
		if p.NodeID == "" {
			return errors.New("node ID is required for every position")
		}
	}
	return nil
}

// SaveNodePositionsHandler handles SaveNodePositionsCommand
type SaveNodePositionsHandler struct {
	stackRepo ports.StackRepository
}

// NewSaveNodePositionsHandler creates a new handler instance
func NewSaveNodePositionsHandler(stackRepo ports.StackRepository) *SaveNodePositionsHandler {
	return &SaveNodePositionsHandler{stackRepo: stackRepo}
}

// Handle executes the command. Coordinates outside the canvas are
// clamped by the position value object rather than rejected.
func (h *SaveNodePositionsHandler) Handle(ctx context.Context, cmd SaveNodePositionsCommand) error {
	positions := make(map[string]valueobjects.Position, len(cmd.Positions))
	for _, p := range cmd.Positions {
		positions[p.NodeID] = valueobjects.NewPosition(p.X, p.Y)
	}
	return h.stackRepo.SaveNodePositions(ctx, cmd.OrganizationID, cmd.ProjectID, positions)
}
