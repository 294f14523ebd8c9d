package handlers

import (
	"net/http"
	"time"

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

// FeedHandler serves the organization feed endpoints
type FeedHandler struct {
	create     *commands.CreatePostHandler
	commandBus *cmdbus.CommandBus
	queryBus   *bus.QueryBus
	logger     *zap.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	create *commands.CreatePostHandler,
	commandBus *cmdbus.CommandBus,
	queryBus *bus.QueryBus,
	logger *zap.Logger,
) *FeedHandler {
	return &FeedHandler{
		create:     create,
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

type createPostRequest struct {
	Kind      string    `json:"kind" validate:"required,oneof=note poll"`
	Body      string    `json:"body" validate:"required,max=4000"`
	Options   []string  `json:"options" validate:"omitempty,min=2,max=10,dive,min=1,max=200"`
	PublishAt time.Time `json:"publish_at"`
}

type votePollRequest struct {
	OptionID string `json:"option_id" validate:"required"`
}

// ListFeed handles GET /feed/posts
func (h *FeedHandler) ListFeed(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	params := common.ExtractPaginationParams(r)
	result, err := h.queryBus.Ask(r.Context(), queries.ListFeedQuery{
		OrganizationID: user.OrganizationID,
		Page:           params.Page,
		PageSize:       params.PageSize,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// CreatePost handles POST /feed/posts
func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	var req createPostRequest
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

	cmd := commands.CreatePostCommand{
		OrganizationID: user.OrganizationID,
		AuthorID:       user.UserID,
		Kind:           req.Kind,
		Body:           req.Body,
		Options:        req.Options,
		PublishAt:      req.PublishAt,
	}
	if err := cmd.Validate(); err != nil {
		common.RespondError(w, http.StatusBadRequest,
			common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	post, err := h.create.Handle(r.Context(), cmd)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, postView(post))
}

// VotePoll handles POST /feed/posts/{postID}/votes
func (h *FeedHandler) VotePoll(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	var req votePollRequest
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

	cmd := commands.VotePollCommand{
		OrganizationID: user.OrganizationID,
		PostID:         chi.URLParam(r, "postID"),
		UserID:         user.UserID,
		OptionID:       req.OptionID,
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
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "voted"})
}

// DeletePost handles DELETE /feed/posts/{postID}
func (h *FeedHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized,
			common.StandardErrorCodes.Unauthorized, "authentication required")
		return
	}

	cmd := commands.DeletePostCommand{
		OrganizationID: user.OrganizationID,
		PostID:         chi.URLParam(r, "postID"),
		RequestedBy:    user.UserID,
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

func postView(post *entities.Post) queries.PostView {
	return queries.PostView{
		ID:         post.ID(),
		AuthorID:   post.AuthorID(),
		Kind:       string(post.Kind()),
		Body:       post.Body(),
		Options:    post.Options(),
		TotalVotes: len(post.Votes()),
		PublishAt:  utils.FormatRFC3339(post.PublishAt()),
		CreatedAt:  utils.FormatRFC3339(post.CreatedAt()),
	}
}
