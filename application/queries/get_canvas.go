package queries

import (
	"errors"

	"stackmap-backend/domain/canvas"
)

// GetCanvasQuery retrieves the laid-out canvas model for a project.
// Stored drag positions override the computed layout for nodes that
// still exist; overrides for vanished nodes are ignored.
type GetCanvasQuery struct {
	OrganizationID string
	ProjectID      string
}

// Validate validates the GetCanvasQuery
func (q GetCanvasQuery) Validate() error {
	if q.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if q.ProjectID == "" {
		return errors.New("project ID is required")
	}
	return nil
}

// CanvasView is the result of GetCanvasQuery: positioned nodes, edges,
// chain groupings and the canvas dimensions clients should assume.
type CanvasView struct {
	ProjectID    string          `json:"projectId"`
	Nodes        []*canvas.Node  `json:"nodes"`
	Edges        []canvas.Edge   `json:"edges"`
	Chains       []*canvas.Chain `json:"chains"`
	CanvasWidth  float64         `json:"canvasWidth"`
	CanvasHeight float64         `json:"canvasHeight"`
	MinScale     float64         `json:"minScale"`
	MaxScale     float64         `json:"maxScale"`
}
