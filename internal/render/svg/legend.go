package svg

import (
	"fmt"
	"strings"

	"github.com/lspecian/netviz/internal/graph"
)

// LegendPosition enumerates where the optional legend box anchors.
type LegendPosition string

const (
	LegendTopLeft     LegendPosition = "top-left"
	LegendTopRight    LegendPosition = "top-right"
	LegendBottomLeft  LegendPosition = "bottom-left"
	LegendBottomRight LegendPosition = "bottom-right"
)

// LegendOptions configures the optional legend.
type LegendOptions struct {
	Enabled  bool
	Position LegendPosition
}

const (
	legendRowHeight = 20.0
	legendPadding   = 10.0
	legendGlyphW    = 28.0
)

// usedBandwidths collects the distinct bandwidth classes present in links,
// in ascending order, for the legend listing.
func usedBandwidths(g *graph.Graph) []graph.Bandwidth {
	order := []graph.Bandwidth{graph.Bandwidth1G, graph.Bandwidth10G, graph.Bandwidth25G, graph.Bandwidth40G, graph.Bandwidth100G}
	present := make(map[graph.Bandwidth]bool)
	for _, l := range g.Links {
		if l.Bandwidth != "" {
			present[l.Bandwidth] = true
		}
	}
	var out []graph.Bandwidth
	for _, bw := range order {
		if present[bw] {
			out = append(out, bw)
		}
	}
	return out
}

// legendSize returns the pixel footprint of the legend box for n rows.
func legendSize(n int) (w, h float64) {
	if n == 0 {
		return 0, 0
	}
	return 140, legendPadding*2 + float64(n)*legendRowHeight
}

// renderLegend emits the legend's <g> group, anchored within bounds per
// opts.Position, expanded so it never overlaps content (the caller is
// responsible for having already expanded the viewBox).
func renderLegend(bounds layoutBounds, opts LegendOptions, pal Palette, bws []graph.Bandwidth) string {
	if len(bws) == 0 {
		return ""
	}
	w, h := legendSize(len(bws))
	x, y := legendOrigin(bounds, opts.Position, w, h)

	var b strings.Builder
	fmt.Fprintf(&b, `<g class="legend">`)
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" rx="6" ry="6" fill="%s" stroke="%s"/>`,
		fnum(x), fnum(y), fnum(w), fnum(h), pal.LegendBackground, pal.LegendStroke)
	for i, bw := range bws {
		rowY := y + legendPadding + float64(i)*legendRowHeight + legendRowHeight/2
		strokes := bw.StrokeCount()
		for _, off := range strokeOffsets(strokes) {
			fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="2"/>`,
				fnum(x+legendPadding), fnum(rowY+off), fnum(x+legendPadding+legendGlyphW), fnum(rowY+off), pal.LinkStroke)
		}
		fmt.Fprintf(&b, `<text x="%s" y="%s" class="link-label" fill="%s">%s</text>`,
			fnum(x+legendPadding+legendGlyphW+8), fnum(rowY+4), pal.TextColor, string(bw))
	}
	fmt.Fprintf(&b, `</g>`)
	return b.String()
}

type layoutBounds struct{ X, Y, W, H float64 }

func legendOrigin(bounds layoutBounds, pos LegendPosition, w, h float64) (float64, float64) {
	const margin = 12.0
	switch pos {
	case LegendTopRight:
		return bounds.X + bounds.W - w - margin, bounds.Y + margin
	case LegendBottomLeft:
		return bounds.X + margin, bounds.Y + bounds.H - h - margin
	case LegendBottomRight:
		return bounds.X + bounds.W - w - margin, bounds.Y + bounds.H - h - margin
	default: // top-left
		return bounds.X + margin, bounds.Y + margin
	}
}
