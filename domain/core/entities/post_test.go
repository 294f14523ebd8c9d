package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "stackmap-backend/pkg/errors"
)

func TestNewNotePost(t *testing.T) {
	post, err := NewNotePost("org-1", "user-1", "  shipping update  ", time.Time{})
	require.NoError(t, err)

	assert.Equal(t, PostKindNote, post.Kind())
	assert.Equal(t, "shipping update", post.Body(), "body is trimmed")
	assert.True(t, post.IsPublished(time.Now()), "zero publish time means publish now")

	_, err = NewNotePost("org-1", "user-1", "   ", time.Time{})
	assert.Error(t, err, "blank body")
}

func TestScheduledPostStaysHidden(t *testing.T) {
	future := time.Now().Add(time.Hour)
	post, err := NewNotePost("org-1", "user-1", "announcement", future)
	require.NoError(t, err)

	assert.False(t, post.IsPublished(time.Now()))
	assert.True(t, post.IsPublished(future.Add(time.Minute)))
}

func TestNewPollPost(t *testing.T) {
	post, err := NewPollPost("org-1", "user-1", "which one?", []string{"Slack", "Teams"}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, PostKindPoll, post.Kind())
	options := post.Options()
	require.Len(t, options, 2)
	assert.NotEmpty(t, options[0].ID)
	assert.NotEqual(t, options[0].ID, options[1].ID)

	_, err = NewPollPost("org-1", "user-1", "one option", []string{"Slack"}, time.Time{})
	assert.Error(t, err, "polls need at least two options")

	_, err = NewPollPost("org-1", "user-1", "dupes", []string{"Slack", "Slack"}, time.Time{})
	assert.Error(t, err, "options must be distinct")
}

func TestPollVoting(t *testing.T) {
	post, err := NewPollPost("org-1", "user-1", "which one?", []string{"Slack", "Teams"}, time.Time{})
	require.NoError(t, err)
	optionID := post.Options()[0].ID

	require.NoError(t, post.Vote("voter-1", optionID))
	assert.Equal(t, 1, post.Options()[0].Votes)

	err = post.Vote("voter-1", post.Options()[1].ID)
	require.Error(t, err, "a vote is final")
	var appErr *pkgerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.ErrorTypeConflict, appErr.Type)

	err = post.Vote("voter-2", "no-such-option")
	assert.Error(t, err)

	note, err := NewNotePost("org-1", "user-1", "not a poll", time.Time{})
	require.NoError(t, err)
	assert.Error(t, note.Vote("voter-1", optionID))
}

func TestPostAccessorsReturnCopies(t *testing.T) {
	post, err := NewPollPost("org-1", "user-1", "which one?", []string{"Slack", "Teams"}, time.Time{})
	require.NoError(t, err)
	require.NoError(t, post.Vote("voter-1", post.Options()[0].ID))

	options := post.Options()
	options[0].Votes = 99
	assert.Equal(t, 1, post.Options()[0].Votes, "mutating the copy must not touch the post")

	votes := post.Votes()
	votes["voter-2"] = "whatever"
	assert.Len(t, post.Votes(), 1)
}
