package layout

import (
	"fmt"

	"github.com/lspecian/netviz/internal/graph"
	"github.com/lspecian/netviz/internal/solver"
)

// buildRequest converts the recursive containerNode tree into a solver.Request,
// assigning per-container Options: direction from the subgraph's own
// override or the graph default, spacing scaled by the thickest link crossing
// that container, near-zero padding for HA compound containers, and a
// rank-based partition hint when any direct child node carries an explicit
// Rank. disableCompaction is threaded onto every container uniformly, as the
// retry-once policy rebuilds the whole tree with it set.
func (e *Engine) buildRequest(tree *containerNode, g *graph.Graph, valid *graph.Validated, sizes map[string]Size, portPlans map[string]*portPlan, disableCompaction bool) solver.Request {
	root := e.buildSolverNode(tree, g, valid, sizes, portPlans, g.EffectiveDirection(), disableCompaction)
	return solver.Request{Root: root}
}

func (e *Engine) buildSolverNode(cn *containerNode, g *graph.Graph, valid *graph.Validated, sizes map[string]Size, portPlans map[string]*portPlan, defaultDirection graph.Direction, disableCompaction bool) *solver.Node {
	if cn.haPair != nil {
		return e.buildHANode(cn, valid, sizes, portPlans, disableCompaction)
	}

	n := &solver.Node{ID: cn.id}

	for _, nodeID := range cn.nodeIDs {
		n.Children = append(n.Children, e.buildLeafNode(nodeID, valid, sizes, portPlans))
	}
	for _, child := range cn.children {
		n.Children = append(n.Children, e.buildSolverNode(child, g, valid, sizes, portPlans, defaultDirection, disableCompaction))
	}

	n.Edges = e.buildEdges(cn)
	n.Options = e.containerOptions(cn, valid, defaultDirection, disableCompaction)
	return n
}

func (e *Engine) buildHANode(cn *containerNode, valid *graph.Validated, sizes map[string]Size, portPlans map[string]*portPlan, disableCompaction bool) *solver.Node {
	n := &solver.Node{
		ID: cn.id,
		Children: []*solver.Node{
			e.buildLeafNode(cn.haPair.Left, valid, sizes, portPlans),
			e.buildLeafNode(cn.haPair.Right, valid, sizes, portPlans),
		},
		Edges: e.buildEdges(cn),
		Options: solver.Options{
			Algorithm:          "layered",
			Direction:          string(graph.DirectionLR),
			NodeNodeSpacing:    e.opts.HANodeSpacing,
			RankRankSpacing:    e.opts.HARankSpacing,
			EdgeNodeSpacing:    e.opts.EdgeNodeSpacingBase,
			EdgeEdgeSpacing:    e.opts.EdgeEdgeSpacingBase,
			EdgeRouting:        e.opts.EdgeRouting,
			CompactionDisabled: disableCompaction,
			CoordinateSystem:   "root-global",
			ContainerPadding:   e.opts.HAContainerPadding,
		},
	}
	return n
}

func (e *Engine) buildLeafNode(nodeID string, valid *graph.Validated, sizes map[string]Size, portPlans map[string]*portPlan) *solver.Node {
	size := sizes[nodeID]
	plan := portPlans[nodeID]
	layoutPorts, order := BuildLayoutPorts(plan, size, e.opts.Metrics)

	n := &solver.Node{ID: nodeID, Width: size.W, Height: size.H}
	if src, ok := valid.NodeIndex[nodeID]; ok {
		n.Rank = src.Rank
	}
	for _, id := range order {
		lp := layoutPorts[id]
		n.Ports = append(n.Ports, solver.Port{
			ID:     lp.ID,
			Width:  lp.Size.W,
			Height: lp.Size.H,
			Side:   solver.Side(lp.Side),
			X:      size.W/2 + lp.Position.X,
			Y:      size.H/2 + lp.Position.Y,
			Label:  lp.Label,
		})
	}
	return n
}

// linkID returns a link's own id, or, for links left anonymous in the
// source graph, a deterministic fallback derived from its endpoints. Shared
// with extract.go so a solver.Edge's ID can be traced back to its source
// graph.Link after the solver round-trip.
func linkID(l graph.Link) string {
	if l.ID != "" {
		return l.ID
	}
	return fmt.Sprintf("%s->%s", l.From.Node, l.To.Node)
}

func (e *Engine) buildEdges(cn *containerNode) []solver.Edge {
	edges := make([]solver.Edge, 0, len(cn.edges))
	for _, re := range cn.edges {
		edges = append(edges, solver.Edge{
			ID:     linkID(re.link),
			Source: solver.PortRef{NodeID: re.fromNode, PortID: re.fromPort},
			Target: solver.PortRef{NodeID: re.toNode, PortID: re.toPort},
			Label:  re.link.Label.String(),
		})
	}
	return edges
}

func (e *Engine) containerOptions(cn *containerNode, valid *graph.Validated, defaultDirection graph.Direction, disableCompaction bool) solver.Options {
	direction := defaultDirection
	nodeSpacing := e.opts.NodeNodeSpacing
	rankSpacing := e.opts.RankRankSpacing
	padding := e.opts.ContainerPadding
	partitionBy := ""

	if cn.subgraph != nil {
		if cn.subgraph.Direction != "" {
			direction = cn.subgraph.Direction
		}
		if s := cn.subgraph.Style; s != nil {
			if s.NodeSpacing > 0 {
				nodeSpacing = s.NodeSpacing
			}
			if s.RankSpacing > 0 {
				rankSpacing = s.RankSpacing
			}
			if s.Padding > 0 {
				padding = s.Padding
			}
		}
	}

	maxStroke := 1
	for _, re := range cn.edges {
		if sc := re.link.Bandwidth.StrokeCount(); sc > maxStroke {
			maxStroke = sc
		}
	}
	edgeNodeSpacing := e.opts.EdgeNodeSpacingBase + float64(maxStroke-1)*e.opts.StrokeSpacingScale
	edgeEdgeSpacing := e.opts.EdgeEdgeSpacingBase + float64(maxStroke-1)*e.opts.StrokeSpacingScale

	for _, id := range cn.nodeIDs {
		if n, ok := valid.NodeIndex[id]; ok && n.Rank != nil {
			partitionBy = "rank"
			break
		}
	}

	return solver.Options{
		Algorithm:          "layered",
		Direction:          string(direction),
		NodeNodeSpacing:    nodeSpacing,
		RankRankSpacing:    rankSpacing,
		EdgeNodeSpacing:    edgeNodeSpacing,
		EdgeEdgeSpacing:    edgeEdgeSpacing,
		EdgeRouting:        e.opts.EdgeRouting,
		CompactionDisabled: disableCompaction,
		PartitionBy:        partitionBy,
		CoordinateSystem:   "root-global",
		ContainerPadding:   padding,
	}
}
