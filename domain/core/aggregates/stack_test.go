package aggregates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackmap-backend/domain/core/entities"
	"stackmap-backend/domain/core/valueobjects"
	pkgerrors "stackmap-backend/pkg/errors"
)

func newTestStack(t *testing.T) *ToolStack {
	t.Helper()
	stack, err := NewToolStack("project-1", "org-1")
	require.NoError(t, err)
	return stack
}

func attachApp(t *testing.T, stack *ToolStack, appID string) valueobjects.ApplicationID {
	t.Helper()
	app, err := valueobjects.NewApplicationID(appID)
	require.NoError(t, err)
	tool, err := entities.NewTool(app, appID, "engineering", entities.ToolStatusActive, "user-1")
	require.NoError(t, err)
	require.NoError(t, stack.AttachTool(tool))
	return app
}

func TestToolStack_AttachTool(t *testing.T) {
	t.Run("attaches tool and records event", func(t *testing.T) {
		stack := newTestStack(t)
		attachApp(t, stack, "github")

		assert.Len(t, stack.Tools(), 1)
		assert.Len(t, stack.GetUncommittedEvents(), 1)
	})

	t.Run("rejects duplicate application", func(t *testing.T) {
		stack := newTestStack(t)
		app := attachApp(t, stack, "github")

		dup, err := entities.NewTool(app, "GitHub", "engineering", entities.ToolStatusPlanned, "user-2")
		require.NoError(t, err)

		err = stack.AttachTool(dup)
		assert.True(t, pkgerrors.IsConflict(err))
		assert.Len(t, stack.Tools(), 1)
	})

	t.Run("rejects nil tool", func(t *testing.T) {
		stack := newTestStack(t)
		err := stack.AttachTool(nil)
		assert.True(t, pkgerrors.IsValidation(err))
	})
}

func TestToolStack_Connect(t *testing.T) {
	t.Run("creates connection with own chain when chain id empty", func(t *testing.T) {
		stack := newTestStack(t)
		src := attachApp(t, stack, "github")
		dst := attachApp(t, stack, "slack")

		conn, err := stack.Connect(src, dst, "notifies", "", false)
		require.NoError(t, err)
		assert.Equal(t, conn.ID().String(), conn.ChainID().String())
	})

	t.Run("rejects self loop", func(t *testing.T) {
		stack := newTestStack(t)
		app := attachApp(t, stack, "github")

		_, err := stack.Connect(app, app, "", "", false)
		assert.True(t, pkgerrors.IsValidation(err))
	})

	t.Run("rejects unknown endpoints", func(t *testing.T) {
		stack := newTestStack(t)
		src := attachApp(t, stack, "github")
		ghost, err := valueobjects.NewApplicationID("ghost")
		require.NoError(t, err)

		_, connErr := stack.Connect(src, ghost, "", "", false)
		assert.True(t, pkgerrors.IsNotFound(connErr))
	})

	t.Run("rejects duplicate pair inside one chain", func(t *testing.T) {
		stack := newTestStack(t)
		src := attachApp(t, stack, "github")
		dst := attachApp(t, stack, "slack")

		_, err := stack.Connect(src, dst, "", "chain-a", false)
		require.NoError(t, err)

		_, err = stack.Connect(src, dst, "", "chain-a", true)
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("allows same pair in different chains", func(t *testing.T) {
		stack := newTestStack(t)
		src := attachApp(t, stack, "github")
		dst := attachApp(t, stack, "slack")

		_, err := stack.Connect(src, dst, "", "chain-a", false)
		require.NoError(t, err)

		_, err = stack.Connect(src, dst, "", "chain-b", false)
		require.NoError(t, err)
		assert.Len(t, stack.ChainIDs(), 2)
	})

	t.Run("rejects second outgoing connection in chain without extend", func(t *testing.T) {
		stack := newTestStack(t)
		src := attachApp(t, stack, "github")
		dst := attachApp(t, stack, "slack")
		other := attachApp(t, stack, "jira")

		_, err := stack.Connect(src, dst, "", "chain-a", false)
		require.NoError(t, err)

		_, err = stack.Connect(src, other, "", "chain-a", false)
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("rejects second incoming connection in chain without extend", func(t *testing.T) {
		stack := newTestStack(t)
		src := attachApp(t, stack, "github")
		dst := attachApp(t, stack, "slack")
		other := attachApp(t, stack, "jira")

		_, err := stack.Connect(src, dst, "", "chain-a", false)
		require.NoError(t, err)

		_, err = stack.Connect(other, dst, "", "chain-a", false)
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("extend appends to chain tail", func(t *testing.T) {
		stack := newTestStack(t)
		github := attachApp(t, stack, "github")
		slack := attachApp(t, stack, "slack")
		jira := attachApp(t, stack, "jira")

		_, err := stack.Connect(github, slack, "", "chain-a", false)
		require.NoError(t, err)

		_, err = stack.Connect(slack, jira, "", "chain-a", true)
		require.NoError(t, err)

		chain, err := valueobjects.NewChainID("chain-a")
		require.NoError(t, err)
		assert.Len(t, stack.ConnectionsInChain(chain), 2)
	})

	t.Run("extend rejects target already in chain", func(t *testing.T) {
		stack := newTestStack(t)
		github := attachApp(t, stack, "github")
		slack := attachApp(t, stack, "slack")

		_, err := stack.Connect(github, slack, "", "chain-a", false)
		require.NoError(t, err)

		_, err = stack.Connect(slack, github, "", "chain-a", true)
		assert.True(t, pkgerrors.IsConflict(err))
	})
}

func TestToolStack_RemoveTool(t *testing.T) {
	t.Run("removes tool and cascades connections", func(t *testing.T) {
		stack := newTestStack(t)
		github := attachApp(t, stack, "github")
		slack := attachApp(t, stack, "slack")
		jira := attachApp(t, stack, "jira")

		_, err := stack.Connect(github, slack, "", "chain-a", false)
		require.NoError(t, err)
		_, err = stack.Connect(slack, jira, "", "chain-a", true)
		require.NoError(t, err)

		var slackTool *entities.Tool
		for _, tool := range stack.Tools() {
			if tool.ApplicationID().Equals(slack) {
				slackTool = tool
			}
		}
		require.NotNil(t, slackTool)

		require.NoError(t, stack.RemoveTool(slackTool.ID()))
		assert.Len(t, stack.Tools(), 2)
		assert.Empty(t, stack.Connections())
		assert.NoError(t, stack.Validate())
	})

	t.Run("unknown tool returns not found", func(t *testing.T) {
		stack := newTestStack(t)
		err := stack.RemoveTool(valueobjects.NewToolID())
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestToolStack_DeleteConnection(t *testing.T) {
	stack := newTestStack(t)
	src := attachApp(t, stack, "github")
	dst := attachApp(t, stack, "slack")

	conn, err := stack.Connect(src, dst, "", "", false)
	require.NoError(t, err)

	require.NoError(t, stack.DeleteConnection(conn.ID()))
	assert.Empty(t, stack.Connections())

	err = stack.DeleteConnection(conn.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestToolStack_RemoveToolFromChain(t *testing.T) {
	stack := newTestStack(t)
	github := attachApp(t, stack, "github")
	slack := attachApp(t, stack, "slack")
	jira := attachApp(t, stack, "jira")

	_, err := stack.Connect(github, slack, "", "chain-a", false)
	require.NoError(t, err)
	_, err = stack.Connect(slack, jira, "", "chain-a", true)
	require.NoError(t, err)
	_, err = stack.Connect(github, slack, "", "chain-b", false)
	require.NoError(t, err)

	var slackTool *entities.Tool
	for _, tool := range stack.Tools() {
		if tool.ApplicationID().Equals(slack) {
			slackTool = tool
		}
	}
	require.NotNil(t, slackTool)

	chainA, err := valueobjects.NewChainID("chain-a")
	require.NoError(t, err)

	removed, err := stack.RemoveToolFromChain(slackTool.ID(), chainA)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	// The other chain is untouched.
	chainB, err := valueobjects.NewChainID("chain-b")
	require.NoError(t, err)
	assert.Len(t, stack.ConnectionsInChain(chainB), 1)
}

func TestToolStack_EventLifecycle(t *testing.T) {
	stack := newTestStack(t)
	attachApp(t, stack, "github")

	assert.NotEmpty(t, stack.GetUncommittedEvents())
	stack.MarkEventsAsCommitted()
	assert.Empty(t, stack.GetUncommittedEvents())
}
