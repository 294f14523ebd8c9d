package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "stackmap-backend/pkg/errors"
)

func TestComposer_HappyPath(t *testing.T) {
	c := NewComposer()
	assert.Equal(t, ComposerClosed, c.State())

	require.NoError(t, c.Open("chain-a", true))
	assert.Equal(t, ComposerSelectingSource, c.State())

	require.NoError(t, c.SelectSource("github"))
	assert.Equal(t, ComposerSelectingTarget, c.State())

	require.NoError(t, c.SelectTarget("slack"))
	assert.Equal(t, ComposerChoosingLabel, c.State())

	require.NoError(t, c.ChooseLabel("notifies"))
	assert.Equal(t, ComposerSubmitting, c.State())

	draft, err := c.Complete()
	require.NoError(t, err)
	assert.Equal(t, ConnectionDraft{
		SourceID: "github",
		TargetID: "slack",
		Label:    "notifies",
		ChainID:  "chain-a",
		Extend:   true,
	}, draft)
	assert.Equal(t, ComposerClosed, c.State())
}

func TestComposer_RejectsOutOfOrderTransitions(t *testing.T) {
	c := NewComposer()

	assert.True(t, pkgerrors.IsConflict(c.SelectSource("github")))
	assert.True(t, pkgerrors.IsConflict(c.SelectTarget("slack")))
	assert.True(t, pkgerrors.IsConflict(c.ChooseLabel("x")))
	_, err := c.Complete()
	assert.True(t, pkgerrors.IsConflict(err))

	require.NoError(t, c.Open("", false))
	assert.True(t, pkgerrors.IsConflict(c.Open("", false)))
	assert.True(t, pkgerrors.IsConflict(c.ChooseLabel("x")))
}

func TestComposer_RejectsSelfTarget(t *testing.T) {
	c := NewComposer()
	require.NoError(t, c.Open("", false))
	require.NoError(t, c.SelectSource("github"))

	err := c.SelectTarget("github")
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Equal(t, ComposerSelectingTarget, c.State())
}

func TestComposer_CancelFromAnyState(t *testing.T) {
	c := NewComposer()
	require.NoError(t, c.Open("chain-a", false))
	require.NoError(t, c.SelectSource("github"))

	c.Cancel()
	assert.Equal(t, ComposerClosed, c.State())
	assert.Equal(t, ConnectionDraft{}, c.Draft())

	// A cancelled flow can be restarted cleanly.
	require.NoError(t, c.Open("", false))
}
