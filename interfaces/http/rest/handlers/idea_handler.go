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

// IdeaHandler serves the idea board endpoints
type IdeaHandler struct {
	submit     *commands.SubmitIdeaHandler
	commandBus *cmdbus.CommandBus
	queryBus   *bus.QueryBus
	logger     *zap.Logger
}

// NewIdeaHandler creates a new IdeaHandler
func NewIdeaHandler(
	submit *commands.SubmitIdeaHandler,
	commandBus *cmdbus.CommandBus,
	queryBus *bus.QueryBus,
	logger *zap.Logger,
) *IdeaHandler {
	return &IdeaHandler{
		submit:     submit,
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

type submitIdeaRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"max=8000"`
}

type reviewIdeaRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Note     string `json:"note" validate:"max=2000"`
}

// ListIdeas handles GET /board/ideas
func (h *IdeaHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	params := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.ListIdeasQuery{
		OrganizationID: user.OrganizationID,
		Status:         r.URL.Query().Get("status"),
		Page:           params.Page,
		PageSize:       params.PageSize,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// SubmitIdea handles POST /board/ideas
func (h *IdeaHandler) SubmitIdea(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	var req submitIdeaRequest
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

	cmd := commands.SubmitIdeaCommand{
		OrganizationID: user.OrganizationID,
		AuthorID:       user.UserID,
		Title:          req.Title,
		Body:           req.Body,
	}
	if err := cmd.Validate(); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	idea, err := h.submit.Handle(r.Context(), cmd)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, ideaView(idea))
}

// ReviewIdea handles POST /board/ideas/{ideaID}/review
func (h *IdeaHandler) ReviewIdea(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	var req reviewIdeaRequest
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

	cmd := commands.ReviewIdeaCommand{
		OrganizationID: user.OrganizationID,
		IdeaID:         chi.URLParam(r, "ideaID"),
		ReviewerID:     user.UserID,
		Decision:       req.Decision,
		Note:           req.Note,
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
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "reviewed"})
}

func ideaView(idea *entities.Idea) queries.IdeaView {
	view := queries.IdeaView{
		ID:         idea.ID(),
		AuthorID:   idea.AuthorID(),
		Title:      idea.Title(),
		Body:       idea.Body(),
		Status:     string(idea.Status()),
		ReviewerID: idea.ReviewerID(),
		ReviewNote: idea.ReviewNote(),
		CreatedAt:  utils.FormatRFC3339(idea.CreatedAt()),
	}
	if !idea.ReviewedAt().IsZero() {
		view.ReviewedAt = utils.FormatRFC3339(idea.ReviewedAt())
	}
	return view
}
