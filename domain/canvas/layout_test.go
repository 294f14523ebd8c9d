package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackmap-backend/domain/core/entities"
)

func TestLayoutGraph_PositionsWithinBounds(t *testing.T) {
	tools := []*entities.Tool{
		makeTool(t, "a"), makeTool(t, "b"), makeTool(t, "c"),
		makeTool(t, "d"), makeTool(t, "e"),
	}
	connections := []*entities.Connection{
		makeConnection(t, "a", "b", "chain-1"),
		makeConnection(t, "b", "c", "chain-1"),
		makeConnection(t, "d", "e", "chain-2"),
	}

	graph := BuildGraph(tools, connections)
	LayoutGraph(graph, nil)

	for _, node := range graph.Nodes {
		assert.GreaterOrEqual(t, node.X, 0.0, "node %s", node.ID)
		assert.LessOrEqual(t, node.X, 100.0, "node %s", node.ID)
		assert.GreaterOrEqual(t, node.Y, 0.0, "node %s", node.ID)
		assert.LessOrEqual(t, node.Y, 100.0, "node %s", node.ID)
	}
}

func TestLayoutGraph_ChainsShareRow(t *testing.T) {
	tools := []*entities.Tool{
		makeTool(t, "a"), makeTool(t, "b"), makeTool(t, "c"),
	}
	connections := []*entities.Connection{
		makeConnection(t, "a", "b", "chain-1"),
		makeConnection(t, "b", "c", "chain-1"),
	}

	graph := BuildGraph(tools, connections)
	LayoutGraph(graph, nil)

	require.Len(t, graph.Nodes, 3)
	y := graph.Nodes[0].Y
	for _, node := range graph.Nodes {
		assert.Equal(t, y, node.Y)
	}

	// Walk order maps to increasing x.
	byID := nodesByID(graph)
	assert.Less(t, byID["chain-1:a"].X, byID["chain-1:b"].X)
	assert.Less(t, byID["chain-1:b"].X, byID["chain-1:c"].X)
}

func TestLayoutGraph_DistinctChainsDistinctRows(t *testing.T) {
	tools := []*entities.Tool{
		makeTool(t, "a"), makeTool(t, "b"),
		makeTool(t, "c"), makeTool(t, "d"),
	}
	connections := []*entities.Connection{
		makeConnection(t, "a", "b", "chain-1"),
		makeConnection(t, "c", "d", "chain-2"),
	}

	graph := BuildGraph(tools, connections)
	LayoutGraph(graph, nil)

	byID := nodesByID(graph)
	assert.NotEqual(t, byID["chain-1:a"].Y, byID["chain-2:c"].Y)
	assert.Equal(t, byID["chain-1:a"].Y, byID["chain-1:b"].Y)
	assert.Equal(t, byID["chain-2:c"].Y, byID["chain-2:d"].Y)
}

func TestLayoutGraph_SpacingCap(t *testing.T) {
	tools := []*entities.Tool{makeTool(t, "a"), makeTool(t, "b")}
	connections := []*entities.Connection{
		makeConnection(t, "a", "b", "chain-1"),
	}

	graph := BuildGraph(tools, connections)
	LayoutGraph(graph, nil)

	byID := nodesByID(graph)
	gap := byID["chain-1:b"].X - byID["chain-1:a"].X
	assert.LessOrEqual(t, gap, maxNodeSpacing)
	assert.Greater(t, gap, 0.0)
}

func TestLayoutGraph_SingleNodeCentered(t *testing.T) {
	tools := []*entities.Tool{makeTool(t, "solo")}

	graph := BuildGraph(tools, nil)
	LayoutGraph(graph, nil)

	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, 50.0, graph.Nodes[0].X)
}

func TestLayoutGraph_OverridesApplied(t *testing.T) {
	tools := []*entities.Tool{makeTool(t, "a"), makeTool(t, "b")}
	connections := []*entities.Connection{
		makeConnection(t, "a", "b", "chain-1"),
	}

	graph := BuildGraph(tools, connections)
	LayoutGraph(graph, map[string]Point{
		"chain-1:a": {X: 33.0, Y: 77.0},
		"missing":   {X: 1.0, Y: 1.0},
	})

	byID := nodesByID(graph)
	assert.Equal(t, 33.0, byID["chain-1:a"].X)
	assert.Equal(t, 77.0, byID["chain-1:a"].Y)
	// Overrides out of range are clamped.
	LayoutGraph(graph, map[string]Point{"chain-1:b": {X: 140.0, Y: -5.0}})
	assert.Equal(t, 100.0, byID["chain-1:b"].X)
	assert.Equal(t, 0.0, byID["chain-1:b"].Y)
}

func nodesByID(graph *Graph) map[string]*Node {
	byID := make(map[string]*Node, len(graph.Nodes))
	for _, node := range graph.Nodes {
		byID[node.ID] = node
	}
	return byID
}
