// Package svg deterministically serializes a layout.Result into a
// self-contained vector document: four Z-ordered layers (subgraph
// backgrounds, node backgrounds, link groups, node foregrounds) plus an
// optional legend. SVG is a text format, so the document is built with
// strings.Builder and fmt.Sprintf rather than a markup library.
package svg

import (
	"fmt"
	"strings"
	"time"

	"github.com/lspecian/netviz/internal/graph"
	"github.com/lspecian/netviz/internal/icons"
	"github.com/lspecian/netviz/internal/layout"
	"github.com/lspecian/netviz/internal/metrics"
)

// Options configures one Render call. The zero value renders without icons
// or a legend.
type Options struct {
	Icons  *icons.Registry
	Legend LegendOptions
}

// renderCtx threads the graph, layout, palette and icon registry through
// every layer emitter without any package-level state, keeping Render a
// pure function of its inputs.
type renderCtx struct {
	g      *graph.Graph
	result *layout.Result
	pal    Palette
	icons  *icons.Registry
	links  map[string]graph.Link
}

// Render turns a LayoutResult into a complete SVG document. It is a pure
// function of (graph, result, opts): no wall-clock or PRNG dependence, and
// it never fails — a malformed LayoutResult simply renders whatever
// geometry it has.
func Render(g *graph.Graph, result *layout.Result, opts Options) string {
	start := time.Now()
	pal := PaletteFor(g.EffectiveTheme())
	rc := &renderCtx{g: g, result: result, pal: pal, icons: opts.Icons, links: indexLinks(g)}

	bounds := result.Bounds
	lb := layoutBounds{X: bounds.X, Y: bounds.Y, W: bounds.W, H: bounds.H}
	if lb.W == 0 && lb.H == 0 {
		lb = layoutBounds{W: 400, H: 300}
	}

	bws := usedBandwidths(g)
	legendMarkup := ""
	if opts.Legend.Enabled && len(bws) > 0 {
		lw, lh := legendSize(len(bws))
		lb = expandForLegend(lb, opts.Legend.Position, lw, lh)
		legendMarkup = renderLegend(lb, opts.Legend, pal, bws)
	}

	var body strings.Builder
	body.WriteString(`<g class="layer-subgraphs">`)
	for _, id := range result.SubgraphIDs {
		body.WriteString(rc.renderSubgraph(result.Subgraphs[id]))
	}
	body.WriteString(`</g>`)

	body.WriteString(`<g class="layer-node-bg">`)
	for _, id := range result.NodeIDs {
		body.WriteString(rc.renderNodeBackground(result.Nodes[id]))
	}
	body.WriteString(`</g>`)

	body.WriteString(`<g class="layer-links">`)
	for _, id := range result.LinkIDs {
		body.WriteString(rc.renderLink(result.Links[id]))
	}
	body.WriteString(`</g>`)

	body.WriteString(`<g class="layer-node-fg">`)
	for _, id := range result.NodeIDs {
		body.WriteString(rc.renderNodeForeground(result.Nodes[id]))
	}
	body.WriteString(`</g>`)

	if legendMarkup != "" {
		body.WriteString(legendMarkup)
	}

	doc := assembleDocument(lb, pal, body.String())
	metrics.RecordRender(string(g.EffectiveTheme()), "ok", time.Since(start).Seconds())
	return doc
}

func indexLinks(g *graph.Graph) map[string]graph.Link {
	idx := make(map[string]graph.Link, len(g.Links))
	for _, l := range g.Links {
		id := l.ID
		if id == "" {
			id = l.From.Node + "->" + l.To.Node
		}
		idx[id] = l
	}
	return idx
}

func expandForLegend(b layoutBounds, pos LegendPosition, lw, lh float64) layoutBounds {
	const margin = 12.0
	extra := lh + 2*margin
	switch pos {
	case LegendBottomLeft, LegendBottomRight:
		b.H += extra
	default: // top-left, top-right: grow the box upward so the legend sits above the content
		b.Y -= extra
		b.H += extra
	}
	return b
}

func assembleDocument(b layoutBounds, pal Palette, body string) string {
	var doc strings.Builder
	fmt.Fprintf(&doc, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%s" height="%s">`,
		fnum(b.X), fnum(b.Y), fnum(b.W), fnum(b.H), fnum(b.W), fnum(b.H))
	doc.WriteString(renderDefs())
	doc.WriteString(renderStyle(pal))
	doc.WriteString(body)
	doc.WriteString(`</svg>`)
	return doc.String()
}

func renderDefs() string {
	return `<defs>` +
		`<marker id="arrow-forward" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M0,0 L10,5 L0,10 z"/></marker>` +
		`<marker id="arrow-back" viewBox="0 0 10 10" refX="1" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M10,0 L0,5 L10,10 z"/></marker>` +
		`<filter id="drop-shadow" x="-20%" y="-20%" width="140%" height="140%"><feDropShadow dx="1" dy="1" stdDeviation="1.5" flood-opacity="0.25"/></filter>` +
		`</defs>`
}

func renderStyle(pal Palette) string {
	return fmt.Sprintf(`<style>
svg { background: %s; font-family: "Segoe UI", Helvetica, Arial, sans-serif; }
.subgraph { fill: %s; stroke: %s; stroke-width: 1.5; }
.subgraph-label { font-size: 13px; font-weight: 600; fill: %s; }
.subgraph-icon { }
.node-bg { filter: url(#drop-shadow); }
.node-fg { }
.node-label { font-size: 12px; fill: %s; }
.node-label-bold { font-size: 12px; font-weight: 700; fill: %s; }
.node-icon { }
.port { fill: %s; stroke: %s; stroke-width: 1; }
.port-label { font-size: 9px; fill: %s; }
.port-label-bg { fill: %s; }
.link { fill: none; stroke: %s; stroke-width: 2; stroke-linecap: round; }
.link-double-outer { fill: none; stroke-width: 5; stroke-linecap: round; }
.link-double-inner { fill: none; stroke: %s; stroke-width: 2.5; stroke-linecap: round; }
.link-group { }
.link-label { font-size: 10px; fill: %s; }
.endpoint-label { font-size: 9px; fill: %s; }
.legend { font-size: 11px; fill: %s; }
</style>`,
		pal.Background, pal.SubgraphFill, pal.SubgraphStroke, pal.TextColor,
		pal.TextColor, pal.TextColor,
		pal.PortFill, pal.PortStroke, pal.TextColor, pal.PortLabelBG,
		pal.LinkStroke, pal.LinkInnerStroke, pal.TextColor, pal.TextColor, pal.TextColor)
}
