package handlers

import (
	"net/http"

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

// ConnectionHandler serves the connection and chain membership endpoints
type ConnectionHandler struct {
	create     *commands.CreateConnectionHandler
	commandBus *cmdbus.CommandBus
	queryBus   *bus.QueryBus
	logger     *zap.Logger
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(
	create *commands.CreateConnectionHandler,
	commandBus *cmdbus.CommandBus,
	queryBus *bus.QueryBus,
	logger *zap.Logger,
) *ConnectionHandler {
	return &ConnectionHandler{
		create:     create,
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

type createConnectionRequest struct {
	SourceID string `json:"source_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required,nefield=SourceID"`
	Label    string `json:"label" validate:"max=120"`
	ChainID  string `json:"chain_id"`
	Extend   bool   `json:"extend"`
}

// ListConnections handles GET /projects/{projectID}/connections
func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
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
	view, ok := result.(queries.StackView)
	if !ok {
		common.RespondError(w, http.StatusInternalServerError,
			common.StandardErrorCodes.InternalError, "unexpected query result")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"connections": view.Connections,
	})
}

// CreateConnection handles POST /projects/{projectID}/connections
func (h *ConnectionHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	var req createConnectionRequest
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

	cmd := commands.CreateConnectionCommand{
		OrganizationID: user.OrganizationID,
		ProjectID:      chi.URLParam(r, "projectID"),
		SourceID:       req.SourceID,
		TargetID:       req.TargetID,
		Label:          req.Label,
		ChainID:        req.ChainID,
		Extend:         req.Extend,
	}
	if err := cmd.Validate(); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	conn, err := h.create.Handle(r.Context(), cmd)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, connectionView(conn))
}

// DeleteConnection handles DELETE /projects/{projectID}/connections/{connectionID}
func (h *ConnectionHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	cmd := commands.DeleteConnectionCommand{
		OrganizationID: user.OrganizationID,
		ProjectID:      chi.URLParam(r, "projectID"),
		ConnectionID:   chi.URLParam(r, "connectionID"),
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
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// RemoveToolFromChain handles DELETE /projects/{projectID}/chains/{chainID}/tools/{toolID}.
// The tool stays on the project; only its connections in this chain go.
func (h *ConnectionHandler) RemoveToolFromChain(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	cmd := commands.RemoveToolFromChainCommand{
		OrganizationID: user.OrganizationID,
		ProjectID:      chi.URLParam(r, "projectID"),
		ChainID:        chi.URLParam(r, "chainID"),
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

func connectionView(conn *entities.Connection) queries.ConnectionView {
	return queries.ConnectionView{
		ID:        conn.ID().String(),
		SourceID:  conn.SourceID().String(),
		TargetID:  conn.TargetID().String(),
		Label:     conn.Label(),
		ChainID:   conn.ChainID().String(),
		Active:    conn.Active(),
		CreatedAt: utils.FormatRFC3339(conn.CreatedAt()),
	}
}
