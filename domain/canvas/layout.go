package canvas

import "sort"

// The abstract canvas is a fixed logical surface; node positions are
// expressed as percentages of it so clients can render at any size.
const (
	CanvasWidth  = 2000.0
	CanvasHeight = 1000.0
)

// Layout tuning. Horizontal spacing between nodes in a lane is capped
// so short chains cluster near the left edge instead of stretching
// across the whole canvas.
const (
	laneTop        = 12.0
	laneBottom     = 88.0
	marginX        = 8.0
	maxNodeSpacing = 18.0
)

// LayoutGraph assigns lane-based positions to every node of the graph,
// in percent of the abstract canvas. Each chain occupies one horizontal
// lane; lanes divide the vertical span evenly. Within a lane, nodes sit
// in walk order with even horizontal spacing. overrides carries
// positions the user dragged nodes to; they replace the computed
// position for matching node ids and are otherwise ignored.
func LayoutGraph(graph *Graph, overrides map[string]Point) {
	if graph == nil || len(graph.Nodes) == 0 {
		return
	}

	nodesByID := make(map[string]*Node, len(graph.Nodes))
	for _, node := range graph.Nodes {
		nodesByID[node.ID] = node
	}

	lanes := append([]*Chain(nil), graph.Chains...)
	sort.Slice(lanes, func(i, j int) bool { return lanes[i].ID < lanes[j].ID })

	laneHeight := (laneBottom - laneTop) / float64(len(lanes))
	for laneIdx, chain := range lanes {
		y := laneTop + laneHeight*(float64(laneIdx)+0.5)
		positionLane(chain, nodesByID, y)
	}

	for id, point := range overrides {
		if node, ok := nodesByID[id]; ok {
			node.X = clampPercent(point.X)
			node.Y = clampPercent(point.Y)
		}
	}
}

// positionLane spaces a chain's nodes across its lane.
func positionLane(chain *Chain, nodesByID map[string]*Node, y float64) {
	count := len(chain.NodeIDs)
	if count == 0 {
		return
	}

	span := 100.0 - 2*marginX
	spacing := 0.0
	if count > 1 {
		spacing = span / float64(count-1)
		if spacing > maxNodeSpacing {
			spacing = maxNodeSpacing
		}
	}

	x := marginX
	if count == 1 {
		x = 50.0
	}
	for _, id := range chain.NodeIDs {
		if node, ok := nodesByID[id]; ok {
			node.X = clampPercent(x)
			node.Y = clampPercent(y)
		}
		x += spacing
	}
}

// Point is a canvas coordinate in percent of the abstract canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
