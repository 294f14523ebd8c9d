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

// AttachToolCommand attaches a catalog application to a project as a tool
type AttachToolCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	ProjectID      string `json:"project_id" validate:"required"`
	ApplicationID  string `json:"application_id" validate:"required"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Status         string `json:"status" validate:"omitempty,oneof=active planned"`
	Website        string `json:"website" validate:"omitempty,url"`
	LogoURL        string `json:"logo_url" validate:"omitempty,url"`
	Note           string `json:"note"`
	AddedBy        string `json:"added_by" validate:"required"`
}

// Validate validates the command
func (cmd AttachToolCommand) Validate() error {
	if cmd.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cmd.ProjectID == "" {
		return errors.New("project ID is required")
	}
	if cmd.ApplicationID == "" {
		return errors.New("application ID is required")
	}
	if cmd.AddedBy == "" {
		return errors.New("addedBy is required")
	}
	return nil
}

// AttachToolHandler handles AttachToolCommand
type AttachToolHandler struct {
	stackRepo ports.StackRepository
	catalog   ports.ApplicationCatalog
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewAttachToolHandler creates a new handler instance
func NewAttachToolHandler(
	stackRepo ports.StackRepository,
	catalog ports.ApplicationCatalog,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *AttachToolHandler {
	return &AttachToolHandler{
		stackRepo: stackRepo,
		catalog:   catalog,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle executes the attach tool command and returns the new tool
func (h *AttachToolHandler) Handle(ctx context.Context, cmd AttachToolCommand) (*entities.Tool, error) {
	appID, err := valueobjects.NewApplicationID(cmd.ApplicationID)
	if err != nil {
		return nil, err
	}

	// Catalog metadata fills in anything the request left blank.
	name, category, website, logoURL := cmd.Name, cmd.Category, cmd.Website, cmd.LogoURL
	if entry, err := h.catalog.GetByID(ctx, appID); err == nil && entry != nil {
		if name == "" {
			name = entry.Name
		}
		if category == "" {
			category = entry.Category
		}
		if website == "" {
			website = entry.Website
		}
		if logoURL == "" {
			logoURL = entry.LogoURL
		}
	}

	status := entities.ToolStatus(cmd.Status)
	if cmd.Status == "" {
		status = entities.ToolStatusActive
	}

	tool, err := entities.NewTool(appID, name, category, status, cmd.AddedBy)
	if err != nil {
		return nil, err
	}
	if err := tool.SetDetails(website, logoURL, cmd.Note); err != nil {
		return nil, err
	}

	stack, err := h.stackRepo.GetByProjectID(ctx, cmd.OrganizationID, cmd.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := stack.AttachTool(tool); err != nil {
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

	h.metrics.ToolsAttached.Inc()
	return tool, nil
}
