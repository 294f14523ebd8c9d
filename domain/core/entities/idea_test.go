package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "stackmap-backend/pkg/errors"
)

func TestNewIdea(t *testing.T) {
	idea, err := NewIdea("org-1", "user-1", "  Consolidate chat tools  ", "We pay twice.")
	require.NoError(t, err)

	assert.Equal(t, IdeaStatusSubmitted, idea.Status())
	assert.Equal(t, "Consolidate chat tools", idea.Title(), "title is trimmed")
	assert.True(t, idea.ReviewedAt().IsZero())

	_, err = NewIdea("org-1", "user-1", "", "body")
	assert.Error(t, err, "blank title")

	_, err = NewIdea("org-1", "user-1", strings.Repeat("x", 201), "body")
	assert.Error(t, err, "title too long")
}

func TestIdeaReviewFlow(t *testing.T) {
	idea, err := NewIdea("org-1", "user-1", "title", "body")
	require.NoError(t, err)

	require.NoError(t, idea.StartReview("reviewer-1"))
	assert.Equal(t, IdeaStatusInReview, idea.Status())

	require.NoError(t, idea.Review("reviewer-1", DecisionApprove, "good"))
	assert.Equal(t, IdeaStatusApproved, idea.Status())
	assert.Equal(t, "reviewer-1", idea.ReviewerID())
	assert.Equal(t, "good", idea.ReviewNote())
	assert.False(t, idea.ReviewedAt().IsZero())
}

func TestIdeaReviewFromSubmitted(t *testing.T) {
	// A submitted idea may be decided without an explicit in_review step.
	idea, err := NewIdea("org-1", "user-1", "title", "body")
	require.NoError(t, err)

	require.NoError(t, idea.Review("reviewer-1", DecisionReject, ""))
	assert.Equal(t, IdeaStatusRejected, idea.Status())
}

func TestIdeaDecisionIsTerminal(t *testing.T) {
	idea, err := NewIdea("org-1", "user-1", "title", "body")
	require.NoError(t, err)
	require.NoError(t, idea.Review("reviewer-1", DecisionApprove, ""))

	err = idea.Review("reviewer-2", DecisionReject, "changed my mind")
	require.Error(t, err)
	var appErr *pkgerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.ErrorTypeConflict, appErr.Type)

	assert.Error(t, idea.StartReview("reviewer-2"))
}

func TestIdeaReviewValidation(t *testing.T) {
	idea, err := NewIdea("org-1", "user-1", "title", "body")
	require.NoError(t, err)

	assert.Error(t, idea.Review("", DecisionApprove, ""), "reviewer required")
	assert.Error(t, idea.Review("reviewer-1", "maybe", ""), "unknown decision")
	assert.Equal(t, IdeaStatusSubmitted, idea.Status(), "failed review leaves status untouched")
}
