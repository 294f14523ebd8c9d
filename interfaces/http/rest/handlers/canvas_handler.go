package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"stackmap-backend/application/commands"
	cmdbus "stackmap-backend/application/commands/bus"
	"stackmap-backend/application/queries"
	"stackmap-backend/application/queries/bus"
	"stackmap-backend/pkg/auth"
	"stackmap-backend/pkg/common"
	"stackmap-backend/pkg/utils"
)

// CanvasHandler serves the laid-out canvas model and drag position saves
type CanvasHandler struct {
	commandBus *cmdbus.CommandBus
	queryBus   *bus.QueryBus
	logger     *zap.Logger
}

// NewCanvasHandler creates a new CanvasHandler
func NewCanvasHandler(
	commandBus *cmdbus.CommandBus,
	queryBus *bus.QueryBus,
	logger *zap.Logger,
) *CanvasHandler {
	return &CanvasHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

type positionInput struct {
	NodeID string  `json:"node_id" validate:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type savePositionsRequest struct {
	Positions []positionInput `json:"positions" validate:"required,min=1,dive"`
}

// GetCanvas handles GET /projects/{projectID}/canvas
func (h *CanvasHandler) GetCanvas(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetCanvasQuery{
		OrganizationID: user.OrganizationID,
		ProjectID:      chi.URLParam(r, "projectID"),
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// SavePositions handles PUT /projects/{projectID}/canvas/positions.
// Out-of-range coordinates are clamped to the canvas, not rejected.
func (h *CanvasHandler) SavePositions(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	var req savePositionsRequest
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

	positions := make([]commands.NodePositionInput, 0, len(req.Positions))
	for _, p := range req.Positions {
		positions = append(positions, commands.NodePositionInput{
			NodeID: p.NodeID,
			X:      p.X,
			Y:      p.Y,
		})
	}

	cmd := commands.SaveNodePositionsCommand{
		OrganizationID: user.OrganizationID,
		ProjectID:      chi.URLParam(r, "projectID"),
		Positions:      positions,
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
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}
