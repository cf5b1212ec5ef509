package solver

import (
	"context"
	"sort"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"
)

// LayeredSolver is the reference Sugiyama-style LayeredLayoutSolver
// implementation: for each container it builds a directed dependency graph
// of its direct children from the edges declared in that container,
// topologically sorts it with katalvlaran/lvlath's dfs.TopologicalSort, and
// derives layer ranks by a longest-path relaxation over that order. Nodes
// within a layer are ordered by their topological position (a stable,
// crossing-reducing approximation) and then spread across the cross-axis at
// fixed spacing. Sizing is bottom-up (a container isn't arranged until every
// child's own size is known) and placement is top-down (each child subtree
// is translated into its parent's coordinate space once the parent's layer
// offsets are computed), so every absolute coordinate lands directly in
// root-global space with no later offset accumulation. Ports and
// edge routes are resolved in one final pass over the fully placed tree.
type LayeredSolver struct{}

// Solve implements LayeredLayoutSolver.
func (LayeredSolver) Solve(ctx context.Context, req Request) (Response, error) {
	if req.Root == nil {
		return Response{}, nil
	}
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if err := sizeAndPlace(ctx, req.Root, 0, 0); err != nil {
		return Response{}, err
	}
	placeAllPorts(req.Root)
	resolveEdges(req.Root)
	return Response{Root: req.Root}, nil
}

// sizeAndPlace recursively sizes n's subtree bottom-up and places every
// descendant in root-global space, given that n's own top-left corner sits
// at (originX, originY). Leaves keep the Width/Height the caller supplied.
func sizeAndPlace(ctx context.Context, n *Node, originX, originY float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.AbsX, n.AbsY = originX, originY

	if len(n.Children) == 0 {
		return nil
	}

	// Phase 1: size every child at a local (0,0) origin so its Width/Height
	// become known before this container arranges its layers.
	for _, child := range n.Children {
		if err := sizeAndPlace(ctx, child, 0, 0); err != nil {
			return err
		}
	}

	ranks, order := rankChildren(n)
	vertical := n.Options.Direction == "" || n.Options.Direction == "TB" || n.Options.Direction == "BT"
	reverse := n.Options.Direction == "BT" || n.Options.Direction == "RL"

	nodeSpacing := n.Options.NodeNodeSpacing
	if nodeSpacing <= 0 {
		nodeSpacing = 40
	}
	rankSpacing := n.Options.RankRankSpacing
	if rankSpacing <= 0 {
		rankSpacing = 80
	}

	byLayer := make(map[int][]*Node)
	maxRank := 0
	for _, child := range order {
		r := ranks[child.ID]
		byLayer[r] = append(byLayer[r], child)
		if r > maxRank {
			maxRank = r
		}
	}

	// Partition hint: nodes sharing a Rank value are forced onto the same
	// layer, overriding the DAG-derived rank.
	if n.Options.PartitionBy == "rank" {
		byLayer = applyPartitionHint(n.Children, byLayer, &maxRank)
	}

	padding := n.Options.ContainerPadding
	layerOffset := 0.0
	childOrigins := make(map[string][2]float64, len(n.Children))
	maxCross := 0.0

	for layer := 0; layer <= maxRank; layer++ {
		members := byLayer[layer]
		if reverse {
			members = reversed(members)
		}
		cross := 0.0
		layerExtent := 0.0
		for _, child := range members {
			w, h := child.Width, child.Height
			var x, y float64
			if vertical {
				x, y = cross, layerOffset
				cross += w + nodeSpacing
				if h > layerExtent {
					layerExtent = h
				}
			} else {
				x, y = layerOffset, cross
				cross += h + nodeSpacing
				if w > layerExtent {
					layerExtent = w
				}
			}
			childOrigins[child.ID] = [2]float64{x, y}
		}
		if cross > 0 {
			cross -= nodeSpacing
		}
		if cross > maxCross {
			maxCross = cross
		}
		layerOffset += layerExtent + rankSpacing
	}
	if layerOffset > 0 {
		layerOffset -= rankSpacing
	}

	// Phase 2: translate each already-sized child subtree from its local
	// (0,0) origin into this container's coordinate space.
	for _, child := range n.Children {
		local := childOrigins[child.ID]
		dx := originX + padding + local[0]
		dy := originY + padding + local[1]
		translateSubtree(child, dx, dy)
	}

	if vertical {
		n.Width = maxCross + 2*padding
		n.Height = layerOffset + 2*padding
	} else {
		n.Width = layerOffset + 2*padding
		n.Height = maxCross + 2*padding
	}
	return nil
}

// translateSubtree shifts n and every descendant's AbsX/AbsY by (dx, dy).
// Ports are placed in a later global pass, so only node coordinates move
// here.
func translateSubtree(n *Node, dx, dy float64) {
	n.AbsX += dx
	n.AbsY += dy
	for _, c := range n.Children {
		translateSubtree(c, dx, dy)
	}
}

func reversed(in []*Node) []*Node {
	out := make([]*Node, len(in))
	for i, n := range in {
		out[len(in)-1-i] = n
	}
	return out
}

// rankChildren builds a directed graph of n's children from n's declared
// edges and assigns each child a layer rank via longest-path relaxation
// over a topological order. Nodes not reachable from an edge keep rank 0.
// Falls back to declaration order (all rank 0, no reordering information
// lost) if the induced subgraph has a cycle.
func rankChildren(n *Node) (ranks map[string]int, order []*Node) {
	ranks = make(map[string]int, len(n.Children))
	childIndex := make(map[string]*Node, len(n.Children))
	for _, c := range n.Children {
		ranks[c.ID] = 0
		childIndex[c.ID] = c
	}

	g := core.NewGraph(core.WithDirected(true), core.WithMultiEdges())
	for _, c := range n.Children {
		_ = g.AddVertex(c.ID)
	}
	for _, e := range n.Edges {
		if _, ok := childIndex[e.Source.NodeID]; !ok {
			continue
		}
		if _, ok := childIndex[e.Target.NodeID]; !ok {
			continue
		}
		if e.Source.NodeID == e.Target.NodeID {
			continue
		}
		// Unweighted graph: lvlath requires weight 0.
		_, _ = g.AddEdge(e.Source.NodeID, e.Target.NodeID, 0)
	}

	topo, err := dfs.TopologicalSort(g)
	if err != nil {
		// Cyclic or otherwise unsortable: preserve declaration order.
		order = append(order, n.Children...)
		return ranks, order
	}

	adjacency := make(map[string][]string, len(topo))
	for _, e := range n.Edges {
		adjacency[e.Source.NodeID] = append(adjacency[e.Source.NodeID], e.Target.NodeID)
	}
	for _, id := range topo {
		for _, to := range adjacency[id] {
			if ranks[to] < ranks[id]+1 {
				ranks[to] = ranks[id] + 1
			}
		}
	}

	for _, id := range topo {
		if c, ok := childIndex[id]; ok {
			order = append(order, c)
		}
	}
	return ranks, order
}

// applyPartitionHint regroups children carrying an explicit Rank by that
// value, leaving DAG-derived ranks for the rest, then renumbers layers
// densely so no gaps appear.
func applyPartitionHint(children []*Node, byLayer map[int][]*Node, maxRank *int) map[int][]*Node {
	regrouped := make(map[int][]*Node)
	assigned := make(map[string]bool)
	for _, c := range children {
		if c.Rank != nil {
			regrouped[*c.Rank] = append(regrouped[*c.Rank], c)
			assigned[c.ID] = true
		}
	}
	for layer, members := range byLayer {
		for _, m := range members {
			if !assigned[m.ID] {
				regrouped[layer] = append(regrouped[layer], m)
			}
		}
	}
	keys := make([]int, 0, len(regrouped))
	for k := range regrouped {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	dense := make(map[int][]*Node, len(keys))
	for i, k := range keys {
		dense[i] = regrouped[k]
	}
	*maxRank = len(keys) - 1
	if *maxRank < 0 {
		*maxRank = 0
	}
	return dense
}

// placeAllPorts walks the fully placed tree and sets every port's absolute
// position from its owning node's final AbsX/AbsY.
func placeAllPorts(n *Node) {
	for i := range n.Ports {
		p := &n.Ports[i]
		p.AbsX = n.AbsX + p.X
		p.AbsY = n.AbsY + p.Y
	}
	for _, c := range n.Children {
		placeAllPorts(c)
	}
}
