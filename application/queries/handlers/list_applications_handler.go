package handlers

import (
	"context"
	"fmt"

	"stackmap-backend/application/ports"
	"stackmap-backend/application/queries"
	"stackmap-backend/application/queries/bus"
)

// ListApplicationsHandler handles ListApplicationsQuery
type ListApplicationsHandler struct {
	catalog ports.ApplicationCatalog
}

// NewListApplicationsHandler creates a new handler instance
func NewListApplicationsHandler(catalog ports.ApplicationCatalog) *ListApplicationsHandler {
	return &ListApplicationsHandler{catalog: catalog}
}

// Handle implements bus.QueryHandler
func (h *ListApplicationsHandler) Handle(ctx context.Context, query bus.Query) (interface{}, error) {
	q, ok := query.(queries.ListApplicationsQuery)
	if !ok {
		return nil, fmt.Errorf("unexpected query type %T", query)
	}

	entries, err := h.catalog.Search(ctx, q.Query, q.Limit)
	if err != nil {
		return nil, err
	}

	list := queries.ApplicationList{
		Applications: make([]queries.ApplicationView, 0, len(entries)),
	}
	for _, entry := range entries {
		list.Applications = append(list.Applications, queries.ApplicationView{
			ID:       entry.ID,
			Name:     entry.Name,
			Category: entry.Category,
			Website:  entry.Website,
			LogoURL:  entry.LogoURL,
		})
	}
	return list, nil
}
