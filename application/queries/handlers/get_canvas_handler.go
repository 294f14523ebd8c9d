package handlers

import (
	"context"
	"fmt"

	"stackmap-backend/application/ports"
	"stackmap-backend/application/queries"
	"stackmap-backend/application/queries/bus"
	"stackmap-backend/domain/canvas"
)

// GetCanvasHandler handles GetCanvasQuery: it builds the chain graph
// from the stored stack, lays it out, and applies any saved drag
// positions on top.
type GetCanvasHandler struct {
	stackRepo ports.StackRepository
}

// NewGetCanvasHandler creates a new handler instance
func NewGetCanvasHandler(stackRepo ports.StackRepository) *GetCanvasHandler {
	return &GetCanvasHandler{stackRepo: stackRepo}
}

// Handle implements bus.QueryHandler
func (h *GetCanvasHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetCanvasQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	stack, err := h.stackRepo.GetByProjectID(ctx, q.OrganizationID, q.ProjectID)
	if err != nil {
		return nil, err
	}

	graph := canvas.BuildGraph(stack.Tools(), stack.Connections())

	overrides := make(map[string]canvas.Point)
	if stored, err := h.stackRepo.GetNodePositions(ctx, q.OrganizationID, q.ProjectID); err == nil {
		for nodeID, pos := range stored {
			overrides[nodeID] = canvas.Point{X: pos.X(), Y: pos.Y()}
		}
	}
	canvas.LayoutGraph(graph, overrides)

	return queries.CanvasView{
		ProjectID:    q.ProjectID,
		Nodes:        graph.Nodes,
		Edges:        graph.Edges,
		Chains:       graph.Chains,
		CanvasWidth:  canvas.CanvasWidth,
		CanvasHeight: canvas.CanvasHeight,
		MinScale:     canvas.MinScale,
		MaxScale:     canvas.MaxScale,
	}, nil
}
