// Package sheets derives the navigable multi-sheet view of a hierarchical
// graph: the root sheet plus one sheet per top-level subgraph, each with
// virtual export-connector nodes/links standing in for edges that cross the
// sheet's boundary.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/lspecian/netviz/internal/graph"
	"github.com/lspecian/netviz/internal/layout"
	"github.com/lspecian/netviz/internal/metrics"
)

// ExportNodePrefix and ExportLinkPrefix are the stable prefixes every
// synthesized virtual id carries, so any consumer can filter them out.
const (
	ExportNodePrefix = "__export_"
	ExportLinkPrefix = "__export_link_"
)

// SheetData is one navigable view: the root sheet (the entire graph) or one
// top-level subgraph expanded with export connectors, plus its own layout.
type SheetData struct {
	ID     string
	Graph  *graph.Graph
	Layout *layout.Result
}

// SubLayoutEngine is the callable sub-layout engine a caller hands to
// BuildHierarchicalSheets; layout.Engine satisfies it directly.
type SubLayoutEngine interface {
	LayoutAsync(ctx context.Context, g *graph.Graph) (<-chan layout.AsyncResult, context.CancelFunc)
}

// BuildHierarchicalSheets produces the root sheet plus one sheet per
// top-level navigable subgraph of g. The root sheet is always included
// verbatim, using rootLayout as-is.
func BuildHierarchicalSheets(ctx context.Context, g *graph.Graph, rootLayout *layout.Result, engine SubLayoutEngine) (map[string]*SheetData, error) {
	out := map[string]*SheetData{
		"root": {ID: "root", Graph: g, Layout: rootLayout},
	}

	h := graph.BuildHierarchy(g)
	for _, sg := range topLevelSubgraphs(g, h) {
		id := sheetID(sg)
		childGraph := buildChildGraph(g, h, sg)

		ch, cancel := engine.LayoutAsync(ctx, childGraph)
		res := <-ch
		cancel()
		if res.Err != nil {
			return nil, fmt.Errorf("sheets: layout sheet %q: %w", id, res.Err)
		}
		out[id] = &SheetData{ID: id, Graph: childGraph, Layout: res.Result}
		metrics.RecordSheetBuilt()
	}
	return out, nil
}

// sheetID returns a subgraph's navigable sheet id: its declared File
// attribute, defaulting to its own id when unset.
func sheetID(sg graph.Subgraph) string {
	if sg.File != "" {
		return sg.File
	}
	return sg.ID
}

// topLevelSubgraphs returns, in declaration order, every subgraph whose
// parent is absent or does not itself resolve to a subgraph in g.
func topLevelSubgraphs(g *graph.Graph, h *graph.Hierarchy) []graph.Subgraph {
	var out []graph.Subgraph
	for _, sg := range g.Subgraphs {
		parent := h.ParentOf(sg.ID)
		if _, ok := h.Subgraph(parent); !ok {
			out = append(out, sg)
		}
	}
	return out
}

func nodeIndexOf(g *graph.Graph) map[string]graph.Node {
	idx := make(map[string]graph.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		idx[n.ID] = n
	}
	return idx
}

// buildChildGraph derives the self-contained child graph for top-level
// subgraph sg: its descendant nodes and direct nested subgraphs renormalized
// with the "sg.ID/" prefix stripped (from node ids, node parents and nested
// subgraph ids alike), its wholly-internal links with endpoints remapped to
// the renormalized ids, and one export connector per group of
// boundary-crossing links.
func buildChildGraph(g *graph.Graph, h *graph.Hierarchy, sg graph.Subgraph) *graph.Graph {
	prefix := sg.ID + "/"
	child := &graph.Graph{
		ID:        sheetID(sg),
		Name:      sg.Label.String(),
		Direction: g.Direction,
		Theme:     g.Theme,
	}

	childNodeSet := make(map[string]bool)
	rename := make(map[string]string)
	for _, n := range g.Nodes {
		if n.Parent != sg.ID && !strings.HasPrefix(n.Parent, prefix) {
			continue
		}
		nn := n
		nn.ID = strings.TrimPrefix(nn.ID, prefix)
		switch {
		case nn.Parent == sg.ID:
			nn.Parent = ""
		default:
			nn.Parent = strings.TrimPrefix(nn.Parent, prefix)
		}
		child.Nodes = append(child.Nodes, nn)
		childNodeSet[n.ID] = true
		rename[n.ID] = nn.ID
	}

	for _, nsg := range g.Subgraphs {
		if nsg.ID == sg.ID || !strings.HasPrefix(nsg.ID, prefix) {
			continue
		}
		suffix := strings.TrimPrefix(nsg.ID, prefix)
		if strings.Contains(suffix, "/") {
			continue // direct children only; deeper nesting stays inside them
		}
		nsub := nsg
		nsub.ID = suffix
		switch {
		case nsub.Parent == sg.ID:
			nsub.Parent = ""
		case strings.HasPrefix(nsub.Parent, prefix):
			nsub.Parent = strings.TrimPrefix(nsub.Parent, prefix)
		}
		child.Subgraphs = append(child.Subgraphs, nsub)
	}

	idx := nodeIndexOf(g)
	var boundary []graph.Link
	for _, l := range g.Links {
		fromID, _, ferr := graph.ResolveEndpoint(g, h, idx, l.From)
		toID, _, terr := graph.ResolveEndpoint(g, h, idx, l.To)
		if ferr != nil || terr != nil {
			continue
		}
		fromIn, toIn := childNodeSet[fromID], childNodeSet[toID]
		switch {
		case fromIn && toIn:
			child.Links = append(child.Links, renameLinkEndpoints(l, prefix, rename))
		case fromIn != toIn:
			boundary = append(boundary, l)
		}
	}

	addExportConnectors(child, g, h, sg, boundary, childNodeSet, rename, idx)
	return child
}

// renameLinkEndpoints remaps an internal link's endpoints onto the child
// sheet's renormalized ids. Pin references name a subgraph, whose id is
// stripped of the same prefix.
func renameLinkEndpoints(l graph.Link, prefix string, rename map[string]string) graph.Link {
	if to, ok := rename[l.From.Node]; ok {
		l.From.Node = to
	} else {
		l.From.Node = strings.TrimPrefix(l.From.Node, prefix)
	}
	if to, ok := rename[l.To.Node]; ok {
		l.To.Node = to
	} else {
		l.To.Node = strings.TrimPrefix(l.To.Node, prefix)
	}
	return l
}

// connGroupKey identifies one export-connector group: its crossing
// direction relative to the inside of the sheet, and the counterpart
// top-level subgraph id ("" meaning a bare root-level device).
type connGroupKey struct {
	direction   string // "out" (inside -> outside) or "in" (outside -> inside)
	counterpart string
}

// addExportConnectors groups boundary links by (direction, counterpart
// top-level subgraph), and for each group synthesizes one stadium virtual
// node plus one dashed forward-arrow virtual link per member link.
func addExportConnectors(child *graph.Graph, g *graph.Graph, h *graph.Hierarchy, sg graph.Subgraph, boundary []graph.Link, childNodeSet map[string]bool, rename map[string]string, idx map[string]graph.Node) {
	var order []connGroupKey
	groups := make(map[connGroupKey][]graph.Link)
	labels := make(map[connGroupKey]string)

	for _, l := range boundary {
		fromID, _, _ := graph.ResolveEndpoint(g, h, idx, l.From)
		toID, _, _ := graph.ResolveEndpoint(g, h, idx, l.To)

		var dir, counterpartNodeID string
		if childNodeSet[fromID] {
			dir, counterpartNodeID = "out", toID
		} else {
			dir, counterpartNodeID = "in", fromID
		}

		counterpart, label := counterpartGroupInfo(h, idx, counterpartNodeID)
		k := connGroupKey{direction: dir, counterpart: counterpart}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
			labels[k] = label
		}
		groups[k] = append(groups[k], l)
	}

	for _, k := range order {
		connectorID := fmt.Sprintf("%s%s_%s_%s", ExportNodePrefix, sanitizeKey(sg.ID), k.direction, sanitizeKey(k.counterpart))
		child.Nodes = append(child.Nodes, graph.Node{
			ID:    connectorID,
			Label: graph.NewLabel(labels[k]),
			Shape: graph.ShapeStadium,
			Metadata: map[string]string{
				"export_counterpart_subgraph": k.counterpart,
			},
		})

		for i, l := range groups[k] {
			fromID, fromPort, _ := graph.ResolveEndpoint(g, h, idx, l.From)
			toID, toPort, _ := graph.ResolveEndpoint(g, h, idx, l.To)

			var insideNode, insidePort, cpNode, cpPort string
			if childNodeSet[fromID] {
				insideNode, insidePort, cpNode, cpPort = fromID, fromPort, toID, toPort
			} else {
				insideNode, insidePort, cpNode, cpPort = toID, toPort, fromID, fromPort
			}
			if to, ok := rename[insideNode]; ok {
				insideNode = to
			}

			elink := graph.Link{
				ID:    fmt.Sprintf("%s%s_%s_%s_%d", ExportLinkPrefix, sanitizeKey(sg.ID), k.direction, sanitizeKey(k.counterpart), i),
				Type:  graph.LinkDashed,
				Arrow: graph.ArrowForward,
				Style: l.Style,
				Metadata: map[string]string{
					"export_counterpart_subgraph":    k.counterpart,
					"export_counterpart_device_port": fmt.Sprintf("%s:%s", cpNode, cpPort),
				},
			}
			if k.direction == "out" {
				elink.From = graph.LinkEndpoint{Node: insideNode, Port: insidePort}
				elink.To = graph.LinkEndpoint{Node: connectorID}
			} else {
				elink.From = graph.LinkEndpoint{Node: connectorID}
				elink.To = graph.LinkEndpoint{Node: insideNode, Port: insidePort}
			}
			child.Links = append(child.Links, elink)
		}
	}
}

// counterpartGroupInfo resolves a counterpart node to its grouping key (the
// id of its top-level ancestor subgraph, or "" for a bare root-level
// device) and the label the connector node should display.
func counterpartGroupInfo(h *graph.Hierarchy, idx map[string]graph.Node, nodeID string) (key, label string) {
	n, ok := idx[nodeID]
	if !ok {
		return "", nodeID
	}
	parentID, _ := h.NodeParent(n)
	if parentID == "" {
		lbl := n.Label.String()
		if lbl == "" {
			lbl = n.ID
		}
		return "", lbl
	}
	top := topAncestorSubgraph(h, parentID)
	if sg, ok := h.Subgraph(top); ok {
		lbl := sg.Label.String()
		if lbl == "" {
			lbl = sg.ID
		}
		return top, lbl
	}
	lbl := n.Label.String()
	if lbl == "" {
		lbl = n.ID
	}
	return "", lbl
}

func topAncestorSubgraph(h *graph.Hierarchy, subgraphID string) string {
	cur := subgraphID
	for {
		p := h.ParentOf(cur)
		if p == "" {
			return cur
		}
		cur = p
	}
}

func sanitizeKey(k string) string {
	if k == "" {
		return "root"
	}
	return strings.ReplaceAll(k, "/", "_")
}

// IsExportID reports whether id was synthesized by BuildHierarchicalSheets.
func IsExportID(id string) bool {
	return strings.HasPrefix(id, ExportNodePrefix) || strings.HasPrefix(id, ExportLinkPrefix)
}
