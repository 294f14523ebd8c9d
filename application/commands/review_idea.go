package commands

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"stackmap-backend/application/ports"
	"stackmap-backend/domain/core/entities"
	"stackmap-backend/domain/events"
	"stackmap-backend/pkg/observability"
)

// ReviewIdeaCommand records a review decision for an idea
type ReviewIdeaCommand struct {
	OrganizationID string `json:"organization_id" validate:"required"`
	IdeaID         string `json:"idea_id" validate:"required"`
	ReviewerID     string `json:"reviewer_id" validate:"required"`
	Decision       string `json:"decision" validate:"required,oneof=approve reject"`
	Note           string `json:"note" validate:"max=2000"`
}

// Validate validates the command
func (cmd ReviewIdeaCommand) Validate() error {
	if cmd.OrganizationID == "" {
		return errors.New("organization ID is required")
	}
	if cmd.IdeaID == "" {
		return errors.New("idea ID is required")
	}
	if cmd.ReviewerID == "" {
		return errors.New("reviewer ID is required")
	}
	if cmd.Decision != string(entities.DecisionApprove) && cmd.Decision != string(entities.DecisionReject) {
		return errors.New("decision must be approve or reject")
	}
	return nil
}

// ReviewIdeaHandler handles ReviewIdeaCommand
type ReviewIdeaHandler struct {
	ideaRepo  ports.IdeaRepository
	publisher ports.EventPublisher
	metrics   *observability.Collector
	logger    *zap.Logger
}

// NewReviewIdeaHandler creates a new handler instance
func NewReviewIdeaHandler(
	ideaRepo ports.IdeaRepository,
	publisher ports.EventPublisher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *ReviewIdeaHandler {
	return &ReviewIdeaHandler{
		ideaRepo:  ideaRepo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle executes the review command
func (h *ReviewIdeaHandler) Handle(ctx context.Context, cmd ReviewIdeaCommand) error {
	idea, err := h.ideaRepo.GetByID(ctx, cmd.OrganizationID, cmd.IdeaID)
	if err != nil {
		return err
	}
	if err := idea.Review(cmd.ReviewerID, entities.ReviewDecision(cmd.Decision), cmd.Note); err != nil {
		return err
	}
	if err := h.ideaRepo.Save(ctx, idea); err != nil {
		return err
	}

	event := events.NewIdeaReviewed(idea.ID(), cmd.ReviewerID, cmd.Decision, idea.ReviewedAt())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("failed to publish idea event",
			zap.String("idea_id", idea.ID()),
			zap.Error(err))
	}

	h.metrics.IdeasReviewed.Inc()
	return nil
}
