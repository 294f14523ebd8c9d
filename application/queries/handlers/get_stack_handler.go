package handlers

import (
	"context"
	"fmt"

	"stackmap-backend/application/ports"
	"stackmap-backend/application/queries"
	"stackmap-backend/application/queries/bus"
	"stackmap-backend/pkg/utils"
)

// GetStackHandler handles GetStackQuery
type GetStackHandler struct {
	stackRepo ports.StackRepository
}

// NewGetStackHandler creates a new handler instance
func NewGetStackHandler(stackRepo ports.StackRepository) *GetStackHandler {
	return &GetStackHandler{stackRepo: stackRepo}
}

// Handle implements bus.QueryHandler
func (h *GetStackHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.GetStackQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	stack, err := h.stackRepo.GetByProjectID(ctx, q.OrganizationID, q.ProjectID)
	if err != nil {
		return nil, err
	}

	view := queries.StackView{
		ProjectID:   stack.ProjectID(),
		Tools:       make([]queries.ToolView, 0, len(stack.Tools())),
		Connections: make([]queries.ConnectionView, 0, len(stack.Connections())),
		UpdatedAt:   utils.FormatRFC3339(stack.UpdatedAt()),
	}

	for _, tool := range stack.Tools() {
		view.Tools = append(view.Tools, queries.ToolView{
			ID:            tool.ID().String(),
			ApplicationID: tool.ApplicationID().String(),
			Name:          tool.Name(),
			Category:      tool.Category(),
			Status:        string(tool.Status()),
			Website:       tool.Website(),
			LogoURL:       tool.LogoURL(),
			Note:          tool.Note(),
			AddedBy:       tool.AddedBy(),
			AddedAt:       utils.FormatRFC3339(tool.AddedAt()),
		})
	}

	for _, conn := range stack.Connections() {
		view.Connections = append(view.Connections, queries.ConnectionView{
			ID:        conn.ID().String(),
			SourceID:  conn.SourceID().String(),
			TargetID:  conn.TargetID().String(),
			Label:     conn.Label(),
			ChainID:   conn.ChainID().String(),
			Active:    conn.Active(),
			CreatedAt: utils.FormatRFC3339(conn.CreatedAt()),
		})
	}

	return view, nil
}
