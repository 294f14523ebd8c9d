package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackmap-backend/domain/core/entities"
	"stackmap-backend/domain/core/valueobjects"
)

func makeTool(t *testing.T, appID string) *entities.Tool {
	t.Helper()
	app, err := valueobjects.NewApplicationID(appID)
	require.NoError(t, err)
	tool, err := entities.NewTool(app, appID, "engineering", entities.ToolStatusActive, "user-1")
	require.NoError(t, err)
	return tool
}

func makeConnection(t *testing.T, srcApp, dstApp, chainID string) *entities.Connection {
	t.Helper()
	src, err := valueobjects.NewApplicationID(srcApp)
	require.NoError(t, err)
	dst, err := valueobjects.NewApplicationID(dstApp)
	require.NoError(t, err)
	conn, err := entities.NewConnection(src, dst, "", chainID)
	require.NoError(t, err)
	return conn
}

func TestBuildGraph_ChainOrdering(t *testing.T) {
	tools := []*entities.Tool{
		makeTool(t, "github"),
		makeTool(t, "slack"),
		makeTool(t, "jira"),
	}
	connections := []*entities.Connection{
		makeConnection(t, "slack", "jira", "chain-a"),
		makeConnection(t, "github", "slack", "chain-a"),
	}

	graph := BuildGraph(tools, connections)

	require.Len(t, graph.Chains, 1)
	chain := graph.Chains[0]
	assert.Equal(t, "chain-a", chain.ID)
	assert.Equal(t, []string{
		"chain-a:github",
		"chain-a:slack",
		"chain-a:jira",
	}, chain.NodeIDs)
	assert.Len(t, graph.Edges, 2)
}

func TestBuildGraph_CycleTerminates(t *testing.T) {
	tools := []*entities.Tool{
		makeTool(t, "a"),
		makeTool(t, "b"),
		makeTool(t, "c"),
	}
	connections := []*entities.Connection{
		makeConnection(t, "a", "b", "loop"),
		makeConnection(t, "b", "c", "loop"),
		makeConnection(t, "c", "a", "loop"),
	}

	graph := BuildGraph(tools, connections)

	require.Len(t, graph.Chains, 1)
	// A pure cycle walks from the smallest member and visits each node once.
	assert.Equal(t, []string{"loop:a", "loop:b", "loop:c"}, graph.Chains[0].NodeIDs)
	assert.Len(t, graph.Nodes, 3)
}

func TestBuildGraph_NodeCountBoundedByChainMembers(t *testing.T) {
	tools := []*entities.Tool{
		makeTool(t, "a"),
		makeTool(t, "b"),
	}
	connections := []*entities.Connection{
		makeConnection(t, "a", "b", "chain-a"),
		makeConnection(t, "b", "a", "chain-a"),
	}

	graph := BuildGraph(tools, connections)

	// Two members produce two nodes regardless of how many edges join them.
	assert.Len(t, graph.Nodes, 2)
}

func TestBuildGraph_StandaloneTools(t *testing.T) {
	tools := []*entities.Tool{
		makeTool(t, "github"),
		makeTool(t, "figma"),
	}

	graph := BuildGraph(tools, nil)

	assert.Len(t, graph.Nodes, 2)
	assert.Len(t, graph.Chains, 2)
	assert.Empty(t, graph.Edges)
	for _, node := range graph.Nodes {
		assert.Empty(t, node.ChainID)
	}
}

func TestBuildGraph_ToolInTwoChains(t *testing.T) {
	tools := []*entities.Tool{
		makeTool(t, "github"),
		makeTool(t, "slack"),
		makeTool(t, "jira"),
	}
	connections := []*entities.Connection{
		makeConnection(t, "github", "slack", "chain-a"),
		makeConnection(t, "github", "jira", "chain-b"),
	}

	graph := BuildGraph(tools, connections)

	// github renders once per chain, under distinct node ids.
	ids := make(map[string]bool)
	for _, node := range graph.Nodes {
		ids[node.ID] = true
	}
	assert.True(t, ids["chain-a:github"])
	assert.True(t, ids["chain-b:github"])
	assert.Len(t, graph.Nodes, 4)
}

func TestBuildGraph_DropsStaleConnections(t *testing.T) {
	tools := []*entities.Tool{makeTool(t, "github")}
	connections := []*entities.Connection{
		makeConnection(t, "github", "vanished", "chain-a"),
	}

	graph := BuildGraph(tools, connections)

	assert.Empty(t, graph.Edges)
	// The surviving tool still renders, as a standalone node.
	assert.Len(t, graph.Nodes, 1)
}

func TestEdgesFor(t *testing.T) {
	tools := []*entities.Tool{
		makeTool(t, "github"),
		makeTool(t, "slack"),
		makeTool(t, "jira"),
	}
	connections := []*entities.Connection{
		makeConnection(t, "github", "slack", "chain-a"),
		makeConnection(t, "slack", "jira", "chain-a"),
	}

	graph := BuildGraph(tools, connections)

	inbound, outbound := graph.EdgesFor("chain-a:slack")
	require.Len(t, inbound, 1)
	require.Len(t, outbound, 1)
	assert.Equal(t, "chain-a:github", inbound[0].SourceID)
	assert.Equal(t, "chain-a:jira", outbound[0].TargetID)

	inbound, outbound = graph.EdgesFor("chain-a:github")
	assert.Empty(t, inbound)
	assert.Len(t, outbound, 1)

	inbound, outbound = graph.EdgesFor("unknown:node")
	assert.Empty(t, inbound)
	assert.Empty(t, outbound)
}
