package solver

import "context"

// GridSolver is a deterministic LayeredLayoutSolver that places each
// container's direct children in a fixed-width grid, left-to-right,
// top-to-bottom, in submission order. It never fails, which makes it the
// natural fallback when the layered solver errors out, and a useful solver
// for tests that don't want Sugiyama-style layering.
type GridSolver struct {
	// Columns is the number of columns per container; zero defaults to 4.
	Columns int
}

const defaultGridColumns = 4

// Solve implements LayeredLayoutSolver.
func (s GridSolver) Solve(ctx context.Context, req Request) (Response, error) {
	cols := s.Columns
	if cols <= 0 {
		cols = defaultGridColumns
	}
	if req.Root == nil {
		return Response{}, nil
	}
	placeGrid(req.Root, 0, 0, cols)
	resolveEdges(req.Root)
	return Response{Root: req.Root}, nil
}

// placeGrid assigns AbsX/AbsY to n and recursively to its children, then to
// its ports, given the absolute offset of n's top-left corner. Containers
// take their Width/Height from the extent of their placed children, so a
// parent's cursor sees each child container's real footprint.
func placeGrid(n *Node, originX, originY float64, cols int) {
	n.AbsX, n.AbsY = originX, originY

	const nodeSpacingX, nodeSpacingY = 60.0, 60.0
	col := 0
	maxRowHeight := 0.0
	cursorX, cursorY := originX, originY
	extentX, extentY := 0.0, 0.0
	for _, child := range n.Children {
		if col == cols {
			col = 0
			cursorX = originX
			cursorY += maxRowHeight + nodeSpacingY
			maxRowHeight = 0
		}
		placeGrid(child, cursorX, cursorY, cols)
		if child.Height > maxRowHeight {
			maxRowHeight = child.Height
		}
		if right := cursorX + child.Width - originX; right > extentX {
			extentX = right
		}
		if bottom := cursorY + child.Height - originY; bottom > extentY {
			extentY = bottom
		}
		cursorX += child.Width + nodeSpacingX
		col++
	}
	if len(n.Children) > 0 {
		n.Width = extentX
		n.Height = extentY
	}

	for i := range n.Ports {
		p := &n.Ports[i]
		p.AbsX = n.AbsX + p.X
		p.AbsY = n.AbsY + p.Y
	}
}

// resolveEdges fills in a single straight-line section for every edge found
// anywhere in the tree, from the absolute center of its source to the
// absolute center of its target (or the referenced port's absolute
// position, when a port is named).
func resolveEdges(n *Node) {
	index := make(map[string]*Node)
	ports := make(map[string]*Port)
	indexTree(n, index, ports)

	var walk func(*Node)
	walk = func(cur *Node) {
		for i := range cur.Edges {
			e := &cur.Edges[i]
			sx, sy := endpointPoint(e.Source, index, ports)
			tx, ty := endpointPoint(e.Target, index, ports)
			e.Sections = []Section{{StartX: sx, StartY: sy, EndX: tx, EndY: ty}}
		}
		for _, c := range cur.Children {
			walk(c)
		}
	}
	walk(n)
}

func indexTree(n *Node, index map[string]*Node, ports map[string]*Port) {
	index[n.ID] = n
	for i := range n.Ports {
		ports[n.ID+"#"+n.Ports[i].ID] = &n.Ports[i]
	}
	for _, c := range n.Children {
		indexTree(c, index, ports)
	}
}

func endpointPoint(ref PortRef, index map[string]*Node, ports map[string]*Port) (float64, float64) {
	if ref.PortID != "" {
		if p, ok := ports[ref.NodeID+"#"+ref.PortID]; ok {
			return p.AbsX, p.AbsY
		}
	}
	if n, ok := index[ref.NodeID]; ok {
		return n.AbsX + n.Width/2, n.AbsY + n.Height/2
	}
	return 0, 0
}
