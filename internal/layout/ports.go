package layout

import (
	"fmt"
	"sort"

	"github.com/lspecian/netviz/internal/graph"
)

// portSlot is one port queued for placement on a side of a node, before
// slot distribution.
type portSlot struct {
	portID      string
	label       string
	linkID      string
	peerNodeID  string // the node at the other end, used for the tie-break sort
	peerOrder   int    // peer's declaration-order index, the tie-break key
}

// portPlan is the full per-node, per-side port assignment for one node,
// ready to be turned into LayoutPorts once the node's size is known.
type portPlan struct {
	bySide map[graph.Side][]portSlot
}

// endpointPortInfo records, per link endpoint, which node/port it resolved
// to and which side the layout engine assigned it.
type endpointPortInfo struct {
	NodeID string
	PortID string
	Side   graph.Side
}

// AssignPorts computes, for every node touched by a link, the side and
// ordering of its ports: non-redundancy links get bottom (source) / top
// (destination); redundancy links between an HA pair get right (left
// partner) / left (right partner). Within a side, ports are ordered by the
// declaration-order index of the connected node, a deterministic proxy for
// its eventual layout x/y, since both the grid and layered solvers preserve
// relative declaration/topological order of nodes within a layer. The
// ordering depends on node identity, never on link insertion order.
//
// The returned fromInfo/toInfo maps record, keyed by linkID, the exact
// node/port/side each link endpoint was assigned — including the synthetic
// port ids minted for bare-node endpoints. The engine threads them into the
// solver edges so every edge route starts and ends at a placed port.
func AssignPorts(g *graph.Graph, valid *graph.Validated, h *graph.Hierarchy) (map[string]*portPlan, map[string]endpointPortInfo, map[string]endpointPortInfo) {
	nodeOrder := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		nodeOrder[n.ID] = i
	}

	plans := make(map[string]*portPlan)
	fromInfo := make(map[string]endpointPortInfo, len(valid.ValidLinks))
	toInfo := make(map[string]endpointPortInfo, len(valid.ValidLinks))

	ensurePlan := func(nodeID string) *portPlan {
		p, ok := plans[nodeID]
		if !ok {
			p = &portPlan{bySide: make(map[graph.Side][]portSlot)}
			plans[nodeID] = p
		}
		return p
	}

	for _, l := range valid.ValidLinks {
		fromNodeID, fromPort, frErr := graph.ResolveEndpoint(g, h, valid.NodeIndex, l.From)
		toNodeID, toPort, toErr := graph.ResolveEndpoint(g, h, valid.NodeIndex, l.To)
		if frErr != nil || toErr != nil {
			continue
		}

		var fromSide, toSide graph.Side
		if l.IsHA() {
			fromSide, toSide = graph.SideRight, graph.SideLeft
		} else {
			fromSide, toSide = graph.SideBottom, graph.SideTop
		}

		lid := linkID(l)
		if fromPort == "" {
			fromPort = fmt.Sprintf("p-%s-from", lid)
		}
		if toPort == "" {
			toPort = fmt.Sprintf("p-%s-to", lid)
		}

		fp := ensurePlan(fromNodeID)
		fp.bySide[fromSide] = append(fp.bySide[fromSide], portSlot{
			portID: fromPort, label: l.From.Port, linkID: lid,
			peerNodeID: toNodeID, peerOrder: nodeOrder[toNodeID],
		})
		tp := ensurePlan(toNodeID)
		tp.bySide[toSide] = append(tp.bySide[toSide], portSlot{
			portID: toPort, label: l.To.Port, linkID: lid,
			peerNodeID: fromNodeID, peerOrder: nodeOrder[fromNodeID],
		})

		fromInfo[lid] = endpointPortInfo{NodeID: fromNodeID, PortID: fromPort, Side: fromSide}
		toInfo[lid] = endpointPortInfo{NodeID: toNodeID, PortID: toPort, Side: toSide}
	}

	for _, plan := range plans {
		for side, slots := range plan.bySide {
			sort.SliceStable(slots, func(i, j int) bool {
				return slots[i].peerOrder < slots[j].peerOrder
			})
			plan.bySide[side] = dedupPorts(slots)
		}
	}

	return plans, fromInfo, toInfo
}

// dedupPorts collapses repeated entries for the same portID (a node-level
// port referenced by more than one link) to a single slot.
func dedupPorts(slots []portSlot) []portSlot {
	seen := make(map[string]bool, len(slots))
	out := make([]portSlot, 0, len(slots))
	for _, s := range slots {
		if seen[s.portID] {
			continue
		}
		seen[s.portID] = true
		out = append(out, s)
	}
	return out
}

// BuildLayoutPorts turns a portPlan into relative-to-center LayoutPort
// values, given the node's final size: each side's ports get equal-width
// slots, and every port center sits outside the shape, offset by
// ±(node extent/2 + port extent/2) on its side's axis.
func BuildLayoutPorts(plan *portPlan, size Size, m Metrics) (map[string]*LayoutPort, []string) {
	ports := make(map[string]*LayoutPort)
	var order []string
	if plan == nil {
		return ports, order
	}

	placeSide := func(side graph.Side, slots []portSlot) {
		k := len(slots)
		if k == 0 {
			return
		}
		var dim float64
		if side == graph.SideTop || side == graph.SideBottom {
			dim = size.W
		} else {
			dim = size.H
		}
		slotWidth := dim / float64(k)

		for i, s := range slots {
			center := -dim/2 + slotWidth*(float64(i)+0.5)
			var pos Point
			switch side {
			case graph.SideTop:
				pos = Point{X: center, Y: -(size.H/2 + m.PortExtent/2)}
			case graph.SideBottom:
				pos = Point{X: center, Y: size.H/2 + m.PortExtent/2}
			case graph.SideLeft:
				pos = Point{X: -(size.W/2 + m.PortExtent/2), Y: center}
			case graph.SideRight:
				pos = Point{X: size.W/2 + m.PortExtent/2, Y: center}
			}
			ports[s.portID] = &LayoutPort{
				ID:       s.portID,
				Label:    s.label,
				Position: pos,
				Size:     Size{W: m.PortExtent, H: m.PortExtent},
				Side:     side,
			}
			order = append(order, s.portID)
		}
	}

	// Stable across all four sides regardless of map iteration order.
	for _, side := range []graph.Side{graph.SideTop, graph.SideBottom, graph.SideLeft, graph.SideRight} {
		placeSide(side, plan.bySide[side])
	}
	return ports, order
}

// LongestPortLabel returns the character length of the longest port label
// assigned to side, used by size.PortSpacing").
func LongestPortLabel(plan *portPlan, side graph.Side) int {
	if plan == nil {
		return 0
	}
	longest := 0
	for _, s := range plan.bySide[side] {
		if len(s.label) > longest {
			longest = len(s.label)
		}
	}
	return longest
}

// SideCounts returns the number of ports assigned to each of the four sides.
func SideCounts(plan *portPlan) (top, bottom, left, right int) {
	if plan == nil {
		return 0, 0, 0, 0
	}
	return len(plan.bySide[graph.SideTop]), len(plan.bySide[graph.SideBottom]),
		len(plan.bySide[graph.SideLeft]), len(plan.bySide[graph.SideRight])
}
