package layout

import (
	"math"

	"github.com/lspecian/netviz/internal/graph"
	"github.com/lspecian/netviz/internal/solver"
)

// extract walks a solved solver.Response tree and turns it into a Result:
// device nodes and their ports, subgraph bounds (HA compound containers are
// unwrapped and never surface as a subgraph), edge routes (same-container
// non-HA routes get boundary-snapped stubs; cross-subgraph and HA-internal
// routes are kept exactly as the solver produced them), and the overall
// content bounds.
func (e *Engine) extract(resp solver.Response, g *graph.Graph, valid *graph.Validated, h *graph.Hierarchy, haIdx *HAIndex, portPlans map[string]*portPlan, algorithm string) *Result {
	result := &Result{
		Nodes:       make(map[string]*LayoutNode),
		Links:       make(map[string]*LayoutLink),
		Subgraphs:   make(map[string]*LayoutSubgraph),
		Metadata:    Metadata{Algorithm: algorithm, Spacing: map[string]float64{"nodeNodeSpacing": e.opts.NodeNodeSpacing, "rankRankSpacing": e.opts.RankRankSpacing}},
		SourceGraph: g,
		Diagnostics: valid.Diagnostics,
	}

	haContainerIDs := make(map[string]bool)
	for _, p := range haIdx.Pairs() {
		haContainerIDs[p.ID] = true
	}

	var walk func(n *solver.Node)
	walk = func(n *solver.Node) {
		switch {
		case isDeviceNode(n.ID, valid):
			result.Nodes[n.ID] = e.extractNode(n, valid)
			result.NodeIDs = append(result.NodeIDs, n.ID)
		case haContainerIDs[n.ID]:
			// Unwrapped: no LayoutSubgraph emitted, just recurse into Left/Right.
		default:
			if sg, ok := h.Subgraph(n.ID); ok {
				result.Subgraphs[n.ID] = &LayoutSubgraph{
					ID:     n.ID,
					Bounds: Bounds{X: n.AbsX, Y: n.AbsY, W: n.Width, H: n.Height},
					Source: sg,
				}
				result.SubgraphIDs = append(result.SubgraphIDs, n.ID)
			}
		}
		for _, c := range n.Children {
			walk(c)
		}
		for i := range n.Edges {
			link, ok := e.extractLink(&n.Edges[i], g, valid, h, result)
			if !ok {
				continue
			}
			result.Links[link.ID] = link
			result.LinkIDs = append(result.LinkIDs, link.ID)
		}
	}
	if resp.Root != nil {
		walk(resp.Root)
	}

	result.Bounds = computeBounds(result, e.opts.BoundsPadding)
	return result
}

func isDeviceNode(id string, valid *graph.Validated) bool {
	_, ok := valid.NodeIndex[id]
	return ok
}

func (e *Engine) extractNode(n *solver.Node, valid *graph.Validated) *LayoutNode {
	src := valid.NodeIndex[n.ID]
	ln := &LayoutNode{
		ID:       n.ID,
		Position: Point{X: n.AbsX + n.Width/2, Y: n.AbsY + n.Height/2},
		Size:     Size{W: n.Width, H: n.Height},
		Ports:    make(map[string]*LayoutPort, len(n.Ports)),
		Source:   src,
	}
	for _, p := range n.Ports {
		ln.Ports[p.ID] = &LayoutPort{
			ID:       p.ID,
			Label:    p.Label,
			Position: Point{X: p.X - n.Width/2, Y: p.Y - n.Height/2},
			Size:     Size{W: p.Width, H: p.Height},
			Side:     graph.Side(p.Side),
		}
		ln.PortIDs = append(ln.PortIDs, p.ID)
	}
	return ln
}

func findLinkByID(valid *graph.Validated, id string) (graph.Link, bool) {
	for _, l := range valid.ValidLinks {
		if linkID(l) == id {
			return l, true
		}
	}
	return graph.Link{}, false
}

// extractLink turns a solved solver.Edge into a LayoutLink. Same-container,
// non-HA routes that came back as a single straight section get the clean
// orthogonal-stub treatment (endpoints snapped to the node boundary on the
// flow axis, a midpoint bend injected when the ends don't share the cross
// axis); cross-subgraph and HA-internal routes are kept as produced. A
// containing walk has already extracted every node, so result.Nodes carries
// the geometry the snap needs.
func (e *Engine) extractLink(edge *solver.Edge, g *graph.Graph, valid *graph.Validated, h *graph.Hierarchy, result *Result) (*LayoutLink, bool) {
	src, ok := findLinkByID(valid, edge.ID)
	if !ok {
		return nil, false
	}

	points := sectionsToPoints(edge.Sections)
	if len(points) == 2 {
		if fromID, toID, ok := sameContainerEndpoints(src, g, valid, h); ok {
			points = snapStub(points[0], points[1], result.Nodes[fromID], result.Nodes[toID], g.EffectiveDirection())
		}
	}

	return &LayoutLink{
		ID:           edge.ID,
		From:         src.From.Node,
		To:           src.To.Node,
		FromEndpoint: src.From,
		ToEndpoint:   src.To,
		Points:       points,
		Source:       src,
	}, true
}

// sameContainerEndpoints resolves a link's endpoints and reports whether the
// route qualifies for boundary snapping: non-HA, with both endpoints living
// directly in the same container.
func sameContainerEndpoints(src graph.Link, g *graph.Graph, valid *graph.Validated, h *graph.Hierarchy) (fromID, toID string, ok bool) {
	if src.IsHA() {
		return "", "", false
	}
	fromID, _, frErr := graph.ResolveEndpoint(g, h, valid.NodeIndex, src.From)
	toID, _, toErr := graph.ResolveEndpoint(g, h, valid.NodeIndex, src.To)
	if frErr != nil || toErr != nil {
		return "", "", false
	}
	fromParent, fok := h.NodeParent(valid.NodeIndex[fromID])
	toParent, tok := h.NodeParent(valid.NodeIndex[toID])
	if !fok || !tok || fromParent != toParent {
		return "", "", false
	}
	return fromID, toID, true
}

func sectionsToPoints(sections []solver.Section) []Point {
	if len(sections) == 0 {
		return nil
	}
	points := []Point{{X: sections[0].StartX, Y: sections[0].StartY}}
	for _, s := range sections {
		for _, b := range s.BendPoints {
			points = append(points, Point{X: b.X, Y: b.Y})
		}
		points = append(points, Point{X: s.EndX, Y: s.EndY})
	}
	return points
}

const axisEpsilon = 0.5

// snapStub turns a bare two-point straight section into a clean orthogonal
// stub: each endpoint's flow-axis coordinate is snapped to its node's
// boundary (bottom/top for TB/BT, right/left for LR/RL, picked by which
// side faces the other end), then the ends are joined straight when they
// share the cross axis within jitter, or via a 3-segment midpoint bend when
// they don't. A nil node (endpoint dropped during validation) leaves that
// end where the solver put it.
func snapStub(start, end Point, from, to *LayoutNode, dir graph.Direction) []Point {
	if dir.Vertical() {
		if from != nil {
			start.Y = boundaryY(from, end.Y)
		}
		if to != nil {
			end.Y = boundaryY(to, start.Y)
		}
		if math.Abs(start.X-end.X) < axisEpsilon {
			mid := (start.X + end.X) / 2
			return []Point{{X: mid, Y: start.Y}, {X: mid, Y: end.Y}}
		}
		midY := (start.Y + end.Y) / 2
		return []Point{start, {X: start.X, Y: midY}, {X: end.X, Y: midY}, end}
	}
	if from != nil {
		start.X = boundaryX(from, end.X)
	}
	if to != nil {
		end.X = boundaryX(to, start.X)
	}
	if math.Abs(start.Y-end.Y) < axisEpsilon {
		mid := (start.Y + end.Y) / 2
		return []Point{{X: start.X, Y: mid}, {X: end.X, Y: mid}}
	}
	midX := (start.X + end.X) / 2
	return []Point{start, {X: midX, Y: start.Y}, {X: midX, Y: end.Y}, end}
}

// boundaryY returns the y of n's top or bottom edge, whichever faces
// towardY.
func boundaryY(n *LayoutNode, towardY float64) float64 {
	if towardY >= n.Position.Y {
		return n.Position.Y + n.Size.H/2
	}
	return n.Position.Y - n.Size.H/2
}

// boundaryX returns the x of n's left or right edge, whichever faces
// towardX.
func boundaryX(n *LayoutNode, towardX float64) float64 {
	if towardX >= n.Position.X {
		return n.Position.X + n.Size.W/2
	}
	return n.Position.X - n.Size.W/2
}

// computeBounds returns the minimum covering rectangle over every node and
// subgraph, expanded by a fixed margin.
func computeBounds(r *Result, padding float64) Bounds {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	touched := false

	consider := func(x0, y0, x1, y1 float64) {
		touched = true
		if x0 < minX {
			minX = x0
		}
		if y0 < minY {
			minY = y0
		}
		if x1 > maxX {
			maxX = x1
		}
		if y1 > maxY {
			maxY = y1
		}
	}

	for _, n := range r.Nodes {
		consider(n.Position.X-n.Size.W/2, n.Position.Y-n.Size.H/2, n.Position.X+n.Size.W/2, n.Position.Y+n.Size.H/2)
	}
	for _, sg := range r.Subgraphs {
		consider(sg.Bounds.X, sg.Bounds.Y, sg.Bounds.X+sg.Bounds.W, sg.Bounds.Y+sg.Bounds.H)
	}
	if !touched {
		return Bounds{}
	}
	return Bounds{
		X: minX - padding,
		Y: minY - padding,
		W: (maxX - minX) + 2*padding,
		H: (maxY - minY) + 2*padding,
	}
}
