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

// CommentHandler serves the chain comment endpoints
type CommentHandler struct {
	post       *commands.PostChainCommentHandler
	commandBus *cmdbus.CommandBus
	queryBus   *bus.QueryBus
	logger     *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	post *commands.PostChainCommentHandler,
	commandBus *cmdbus.CommandBus,
	queryBus *bus.QueryBus,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		post:       post,
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

type postCommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

// ListComments handles GET /projects/{projectID}/chains/{chainID}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetChainCommentsQuery{
		ProjectID: chi.URLParam(r, "projectID"),
		ChainID:   chi.URLParam(r, "chainID"),
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// PostComment handles POST /projects/{projectID}/chains/{chainID}/comments
func (h *CommentHandler) PostComment(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	var req postCommentRequest
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

	cmd := commands.PostChainCommentCommand{
		ProjectID: chi.URLParam(r, "projectID"),
		ChainID:   chi.URLParam(r, "chainID"),
		AuthorID:  user.UserID,
		Body:      req.Body,
	}
	if err := cmd.Validate(); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	comment, err := h.post.Handle(r.Context(), cmd)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, commentView(comment))
}

// DeleteComment handles DELETE /projects/{projectID}/chains/{chainID}/comments/{commentID}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	cmd := commands.DeleteCommentCommand{
		ProjectID:   chi.URLParam(r, "projectID"),
		CommentID:   chi.URLParam(r, "commentID"),
		RequestedBy: user.UserID,
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

func commentView(comment *entities.ChainComment) queries.CommentView {
	return queries.CommentView{
		ID:        comment.ID(),
		ChainID:   comment.ChainID().String(),
		AuthorID:  comment.AuthorID(),
		Body:      comment.Body(),
		CreatedAt: utils.FormatRFC3339(comment.CreatedAt()),
	}
}
