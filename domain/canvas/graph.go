// Package canvas builds the renderable model of a project's tool stack:
// a node/edge graph grouped into chains, lane-based layout coordinates,
// and the pan/zoom viewport math used by clients to display it.
package canvas

import (
	"sort"

	"stackmap-backend/domain/core/entities"
)

// Node is one renderable tool instance on the canvas. A tool that
// participates in several chains appears once per chain, so the node id
// qualifies the application id with the chain id.
type Node struct {
	ID            string  `json:"id"`
	ToolID        string  `json:"toolId"`
	ApplicationID string  `json:"applicationId"`
	ChainID       string  `json:"chainId,omitempty"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Status        string  `json:"status"`
	LogoURL       string  `json:"logoUrl,omitempty"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

// Edge is a directed connection between two nodes of the same chain.
type Edge struct {
	ID       string `json:"id"`
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Label    string `json:"label,omitempty"`
	ChainID  string `json:"chainId"`
}

// Chain is an ordered run of nodes produced by walking a chain's
// connections from its roots.
type Chain struct {
	ID      string   `json:"id"`
	NodeIDs []string `json:"nodeIds"`
}

// Graph is the complete canvas model for one project.
type Graph struct {
	Nodes  []*Node  `json:"nodes"`
	Edges  []Edge   `json:"edges"`
	Chains []*Chain `json:"chains"`
}

// nodeID qualifies an application id with its chain so the same tool
// can be rendered independently in each chain it belongs to.
func nodeID(chainID, appID string) string {
	return chainID + ":" + appID
}

// EdgesFor returns the edges touching a node, split by direction. Node
// ids are chain-qualified, so the result only covers the node's own
// chain even when the same tool appears in several chains.
func (g *Graph) EdgesFor(nodeID string) (inbound, outbound []Edge) {
	for _, edge := range g.Edges {
		if edge.TargetID == nodeID {
			inbound = append(inbound, edge)
		}
		if edge.SourceID == nodeID {
			outbound = append(outbound, edge)
		}
	}
	return inbound, outbound
}

// BuildGraph assembles the canvas graph from a stack's tools and
// connections. Connections are grouped by chain id; each chain is walked
// breadth-first from its roots so node order follows the flow direction.
// A chain with no root (a pure cycle) is walked from its
// lexicographically smallest member, which keeps the output
// deterministic. Tools with no connections become standalone nodes.
func BuildGraph(tools []*entities.Tool, connections []*entities.Connection) *Graph {
	toolsByApp := make(map[string]*entities.Tool, len(tools))
	for _, tool := range tools {
		toolsByApp[tool.ApplicationID().String()] = tool
	}

	byChain := make(map[string][]*entities.Connection)
	for _, conn := range connections {
		// A connection whose endpoint tool was removed is stale data;
		// it is dropped from the render rather than surfaced as an error.
		if toolsByApp[conn.SourceID().String()] == nil || toolsByApp[conn.TargetID().String()] == nil {
			continue
		}
		key := conn.ChainID().String()
		byChain[key] = append(byChain[key], conn)
	}

	chainIDs := make([]string, 0, len(byChain))
	for id := range byChain {
		chainIDs = append(chainIDs, id)
	}
	sort.Strings(chainIDs)

	graph := &Graph{
		Nodes:  make([]*Node, 0),
		Edges:  make([]Edge, 0),
		Chains: make([]*Chain, 0, len(chainIDs)),
	}

	connected := make(map[string]bool)
	for _, chainID := range chainIDs {
		chain := buildChain(chainID, byChain[chainID], toolsByApp, graph)
		graph.Chains = append(graph.Chains, chain)
		for _, conn := range byChain[chainID] {
			connected[conn.SourceID().String()] = true
			connected[conn.TargetID().String()] = true
		}
	}

	// Standalone tools render as single-node chains so the layout can
	// assign them lanes of their own.
	standalone := make([]*entities.Tool, 0)
	for _, tool := range tools {
		if !connected[tool.ApplicationID().String()] {
			standalone = append(standalone, tool)
		}
	}
	sort.Slice(standalone, func(i, j int) bool {
		return standalone[i].ApplicationID().String() < standalone[j].ApplicationID().String()
	})
	for _, tool := range standalone {
		node := newNode("", tool)
		graph.Nodes = append(graph.Nodes, node)
		graph.Chains = append(graph.Chains, &Chain{
			ID:      node.ID,
			NodeIDs: []string{node.ID},
		})
	}

	return graph
}

func newNode(chainID string, tool *entities.Tool) *Node {
	appID := tool.ApplicationID().String()
	id := appID
	if chainID != "" {
		id = nodeID(chainID, appID)
	}
	return &Node{
		ID:            id,
		ToolID:        tool.ID().String(),
		ApplicationID: appID,
		ChainID:       chainID,
		Name:          tool.Name(),
		Category:      tool.Category(),
		Status:        string(tool.Status()),
		LogoURL:       tool.LogoURL(),
	}
}

// buildChain walks one chain's connections breadth-first and appends the
// resulting nodes and edges to the graph.
func buildChain(chainID string, conns []*entities.Connection, toolsByApp map[string]*entities.Tool, graph *Graph) *Chain {
	adjacency := make(map[string][]string)
	inbound := make(map[string]int)
	members := make(map[string]bool)

	for _, conn := range conns {
		src := conn.SourceID().String()
		dst := conn.TargetID().String()
		adjacency[src] = append(adjacency[src], dst)
		inbound[dst]++
		members[src] = true
		members[dst] = true
	}

	memberIDs := make([]string, 0, len(members))
	for id := range members {
		memberIDs = append(memberIDs, id)
	}
	sort.Strings(memberIDs)

	roots := make([]string, 0)
	for _, id := range memberIDs {
		if inbound[id] == 0 {
			roots = append(roots, id)
		}
	}
	if len(roots) == 0 {
		// Pure cycle: no natural start, so begin at the smallest member.
		roots = memberIDs[:1]
	}

	chain := &Chain{ID: chainID}
	visited := make(map[string]bool)
	queue := append([]string(nil), roots...)
	for len(queue) > 0 {
		appID := queue[0]
		queue = queue[1:]
		if visited[appID] {
			continue
		}
		visited[appID] = true

		node := newNode(chainID, toolsByApp[appID])
		graph.Nodes = append(graph.Nodes, node)
		chain.NodeIDs = append(chain.NodeIDs, node.ID)

		next := append([]string(nil), adjacency[appID]...)
		sort.Strings(next)
		queue = append(queue, next...)
	}

	// Members unreachable from the roots (cycles hanging off the walk)
	// are still part of the chain.
	for _, appID := range memberIDs {
		if !visited[appID] {
			visited[appID] = true
			node := newNode(chainID, toolsByApp[appID])
			graph.Nodes = append(graph.Nodes, node)
			chain.NodeIDs = append(chain.NodeIDs, node.ID)
		}
	}

	sort.Slice(conns, func(i, j int) bool {
		return conns[i].ID().String() < conns[j].ID().String()
	})
	for _, conn := range conns {
		graph.Edges = append(graph.Edges, Edge{
			ID:       conn.ID().String(),
			SourceID: nodeID(chainID, conn.SourceID().String()),
			TargetID: nodeID(chainID, conn.TargetID().String()),
			Label:    conn.Label(),
			ChainID:  chainID,
		})
	}

	return chain
}
