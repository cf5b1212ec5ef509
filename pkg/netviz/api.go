// Package netviz is the public facade over the topology layout, sheet
// building, rendering and merge packages: a thin, validating wrapper that
// composes internal/* the way pkg/ovn composed the OVN northbound client for
// the rest of that codebase.
package netviz

import (
	"context"
	"fmt"

	"github.com/lspecian/netviz/internal/graph"
	"github.com/lspecian/netviz/internal/layout"
	"github.com/lspecian/netviz/internal/render/svg"
	"github.com/lspecian/netviz/internal/sheets"
)

// Layout runs the synchronous layout pass over g. A zero-valued opts falls
// back to layout.DefaultOptions().
func Layout(ctx context.Context, g *graph.Graph, opts layout.Options) (*layout.Result, error) {
	if g == nil {
		return nil, fmt.Errorf("netviz: graph is required")
	}
	engine := layout.NewEngine(opts)
	return engine.Layout(ctx, g)
}

// LayoutAsync starts a layout pass on a goroutine and returns a channel
// delivering its single result, plus a cancel func (internal/layout.Engine.LayoutAsync).
func LayoutAsync(ctx context.Context, g *graph.Graph, opts layout.Options) (<-chan layout.AsyncResult, context.CancelFunc) {
	engine := layout.NewEngine(opts)
	return engine.LayoutAsync(ctx, g)
}

// BuildHierarchicalSheets derives one SheetData per top-level navigable
// subgraph (plus the root sheet), synthesizing export connectors across
// sheet boundaries (internal/sheets.BuildHierarchicalSheets).
func BuildHierarchicalSheets(ctx context.Context, g *graph.Graph, root *layout.Result, sub sheets.SubLayoutEngine) (map[string]*sheets.SheetData, error) {
	if g == nil {
		return nil, fmt.Errorf("netviz: graph is required")
	}
	if root == nil {
		return nil, fmt.Errorf("netviz: root layout result is required")
	}
	return sheets.BuildHierarchicalSheets(ctx, g, root, sub)
}

// RenderSVG serializes a layout result into a complete SVG document
// (internal/render/svg.Render). It never returns an error of its own; the
// error return exists so callers can validate inputs uniformly with the
// rest of this facade.
func RenderSVG(g *graph.Graph, res *layout.Result, opts svg.Options) (string, error) {
	if g == nil {
		return "", fmt.Errorf("netviz: graph is required")
	}
	if res == nil {
		return "", fmt.Errorf("netviz: layout result is required")
	}
	return svg.Render(g, res, opts), nil
}

// MergeGraphs combines sources into one Graph per opts (internal/graph.MergeGraphs).
func MergeGraphs(sources []*graph.Graph, sourceIDs []string, opts graph.MergeOptions) (*graph.MergeResult, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("netviz: at least one source graph is required")
	}
	return graph.MergeGraphs(sources, sourceIDs, opts)
}

// Artifact is the one-shot render_network output: a graph's layout, its
// hierarchical sheet breakdown (when applicable), and summary counts.
type Artifact struct {
	ID           string                    `json:"id,omitempty"`
	Name         string                    `json:"name,omitempty"`
	Hierarchical bool                      `json:"hierarchical"`
	RootSheetID  string                    `json:"rootSheetId,omitempty"`
	Sheets       map[string]*ArtifactSheet `json:"sheets,omitempty"`
	NodeCount    int                       `json:"nodeCount"`
	EdgeCount    int                       `json:"edgeCount"`
}

// ArtifactSheet is one sheet's rendered form within an Artifact: the SVG
// markup, its content viewBox, a display label, and the parent sheet id
// (null for the root sheet).
type ArtifactSheet struct {
	Graph    *graph.Graph   `json:"graph"`
	Layout   *layout.Result `json:"-"`
	SVG      string         `json:"svg"`
	ViewBox  string         `json:"viewBox"`
	Label    string         `json:"label"`
	ParentID *string        `json:"parentId"`
}

func sheetViewBox(res *layout.Result) string {
	b := res.Bounds
	return fmt.Sprintf("%.2f %.2f %.2f %.2f", b.X, b.Y, b.W, b.H)
}

// RenderArtifactOptions configures RenderArtifact.
type RenderArtifactOptions struct {
	Layout layout.Options
	SVG    svg.Options
}

// RenderArtifact composes layout, hierarchical sheet building and SVG
// rendering into a single one-shot entry point.
func RenderArtifact(ctx context.Context, g *graph.Graph, opts RenderArtifactOptions) (*Artifact, error) {
	if g == nil {
		return nil, fmt.Errorf("netviz: graph is required")
	}

	engine := layout.NewEngine(opts.Layout)
	rootResult, err := engine.Layout(ctx, g)
	if err != nil {
		return nil, fmt.Errorf("netviz: layout root graph: %w", err)
	}

	artifact := &Artifact{
		ID:           g.ID,
		Name:         g.Name,
		Hierarchical: g.HasHierarchy(),
		RootSheetID:  "root",
		NodeCount:    len(g.Nodes),
		EdgeCount:    len(g.Links),
	}

	rootSVG, _ := RenderSVG(g, rootResult, opts.SVG)
	rootLabel := g.Name
	if rootLabel == "" {
		rootLabel = "root"
	}
	artifact.Sheets = map[string]*ArtifactSheet{
		"root": {Graph: g, Layout: rootResult, SVG: rootSVG, ViewBox: sheetViewBox(rootResult), Label: rootLabel, ParentID: nil},
	}

	if !g.HasHierarchy() {
		return artifact, nil
	}

	sheetData, err := sheets.BuildHierarchicalSheets(ctx, g, rootResult, engine)
	if err != nil {
		return nil, fmt.Errorf("netviz: build hierarchical sheets: %w", err)
	}
	rootID := "root"
	for id, sd := range sheetData {
		if id == "root" {
			continue
		}
		label := sd.Graph.Name
		if label == "" {
			label = id
		}
		sheetSVG, _ := RenderSVG(sd.Graph, sd.Layout, opts.SVG)
		artifact.Sheets[id] = &ArtifactSheet{
			Graph:    sd.Graph,
			Layout:   sd.Layout,
			SVG:      sheetSVG,
			ViewBox:  sheetViewBox(sd.Layout),
			Label:    label,
			ParentID: &rootID,
		}
	}
	return artifact, nil
}
