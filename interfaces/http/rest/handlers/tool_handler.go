// Package handlers contains the HTTP handlers for the REST API. Each
// handler parses and validates the request, delegates to a command
// handler or the query bus, and maps the outcome to the response
// envelope.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stackmap-backend/application/commands"
	cmdbus "stackmap-backend/application/commands/bus"
	"stackmap-backend/application/queries"
	"stackmap-backend/application/queries/bus"
	"stackmap-backend/domain/core/entities"
	"stackmap-backend/pkg/auth"
	"stackmap-backend/pkg/common"
	"stackmap-backend/pkg/utils"
)

// Request bodies are capped well above any legitimate payload.
const maxBodyBytes = 1 << 20

// ToolHandler serves the project tool endpoints and the application
// catalog search.
type ToolHandler struct {
	attach     *commands.AttachToolHandler
	commandBus *cmdbus.CommandBus
	queryBus   *bus.QueryBus
	logger     *zap.Logger
}

// NewToolHandler creates a new ToolHandler
func NewToolHandler(
	attach *commands.AttachToolHandler,
	commandBus *cmdbus.CommandBus,
	queryBus *bus.QueryBus,
	logger *zap.Logger,
) *ToolHandler {
	return &ToolHandler{
		attach:     attach,
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

type attachToolRequest struct {
	ApplicationID string `json:"application_id" validate:"required"`
	Name          string `json:"name" validate:"max=120"`
	Category      string `json:"category" validate:"max=120"`
	Status        string `json:"status" validate:"omitempty,oneof=active planned"`
	Website       string `json:"website" validate:"omitempty,url"`
	LogoURL       string `json:"logo_url" validate:"omitempty,url"`
	Note          string `json:"note" validate:"max=500"`
}

// GetStack handles GET /projects/{projectID}/tools
func (h *ToolHandler) GetStack(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetStackQuery{
		OrganizationID: user.OrganizationID,
		ProjectID:      chi.URLParam(r, "projectID"),
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// AttachTool handles POST /projects/{projectID}/tools
func (h *ToolHandler) AttachTool(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	var req attachToolRequest
	if err := common.ParseJSONBody(r, &req, maxBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			common.StandardErrorCodes.BadRequest, "invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	cmd := commands.AttachToolCommand{
		OrganizationID: user.OrganizationID,
		ProjectID:      chi.URLParam(r, "projectID"),
		ApplicationID:  req.ApplicationID,
		Name:           req.Name,
		Category:       req.Category,
		Status:         req.Status,
		Website:        req.Website,
		LogoURL:        req.LogoURL,
		Note:           req.Note,
		AddedBy:        user.UserID,
	}
	if err := cmd.Validate(); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	tool, err := h.attach.Handle(r.Context(), cmd)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, toolView(tool))
}

// RemoveTool handles DELETE /projects/{projectID}/tools/{toolID}
func (h *ToolHandler) RemoveTool(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	cmd := commands.RemoveToolCommand{
		OrganizationID: user.OrganizationID,
		ProjectID:      chi.URLParam(r, "projectID"),
		ToolID:         chi.URLParam(r, "toolID"),
	}
	if err := cmd.Validate(); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ListApplications handles GET /applications
func (h *ToolHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	result, err := h.queryBus.Ask(r.Context(), queries.ListApplicationsQuery{
		Query: r.URL.Query().Get("q"),
		Limit: limit,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

func toolView(tool *entities.Tool) queries.ToolView {
	return queries.ToolView{
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
	}
}
