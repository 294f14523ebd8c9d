package commands

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/entities"
	"stackmap-backend/domain/events"
	"stackmap-backend/pkg/observability"
)

// CreatePostCommand publishes a note or poll on the organization feed.
// A future PublishAt keeps the post hidden until that time.
type CreatePostCommand struct {
	OrganizationID string    `json:"organization_id" validate:"required"`
	AuthorID       string    `json:"author_id" validate:"required"`
	Kind           string    `json:"kind" validate:"required,oneof=note poll"`
	Body           string    `json:"body" validate:"required,max=4000"`
	Options        []string  `json:"options" validate:"omitempty,min=2,max=10,dive,min=1"`
	PublishAt      time.Time `json:"publish_at"`
}

// Validate validates the command
func (cmd CreatePostCommand) Validate() error {
	if cmd.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cmd.AuthorID == "" {
		return errors.New("author ID is required")
	}
	if cmd.Kind != string(entities.PostKindNote) && cmd.Kind != string(entities.PostKindPoll) {
		return errors.New("kind must be note or poll")
	}
	if cmd.Kind == string(entities.PostKindPoll) && len(cmd.Options) == 0 {
		return errors.New("poll requires options")
	}
	return nil
}

// CreatePostHandler handles CreatePostCommand
type CreatePostHandler struct {
	postRepo  ports.PostRepository
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewCreatePostHandler creates a new handler instance
func NewCreatePostHandler(
	postRepo ports.PostRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *CreatePostHandler {
	return &CreatePostHandler{
		postRepo:  postRepo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle executes the command and returns the new post
func (h *CreatePostHandler) Handle(ctx context.Context, cmd CreatePostCommand) (*entities.Post, error) {
	var post *entities.Post
	var err error

	switch entities.PostKind(cmd.Kind) {
	case entities.PostKindPoll:
		post, err = entities.NewPollPost(cmd.OrganizationID, cmd.AuthorID, cmd.Body, cmd.Options, cmd.PublishAt)
	default:
		post, err = entities.NewNotePost(cmd.OrganizationID, cmd.AuthorID, cmd.Body, cmd.PublishAt)
	}
	if err != nil {
		return nil, err
	}

	if err := h.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}

	event := events.NewPostCreated(post.ID(), post.OrganizationID(), post.AuthorID(), string(post.Kind()), post.CreatedAt())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish post event",
			zap.String("post_id", post.ID()),
			zap.Error(err))
	}

	h.metrics.PostsCreated.Inc()
	return post, nil
}
