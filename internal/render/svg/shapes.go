package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/lspecian/netviz/internal/graph"
)

// shapeBackground emits the shape-specific background markup for a node's
// center (cx, cy) and size (w, h). The shapes are a closed set, handled by
// a dedicated case each rather than a type hierarchy.
func shapeBackground(shape graph.Shape, cx, cy, w, h float64, fill, stroke string, strokeWidth float64) string {
	attrs := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%s"`, fill, stroke, fnum(strokeWidth))
	x0, y0 := cx-w/2, cy-h/2

	switch shape {
	case graph.ShapeCircle:
		r := math.Min(w, h) / 2
		return fmt.Sprintf(`<circle class="node-bg" cx="%s" cy="%s" r="%s" %s/>`, fnum(cx), fnum(cy), fnum(r), attrs)

	case graph.ShapeRounded:
		return fmt.Sprintf(`<rect class="node-bg" x="%s" y="%s" width="%s" height="%s" rx="10" ry="10" %s/>`,
			fnum(x0), fnum(y0), fnum(w), fnum(h), attrs)

	case graph.ShapeStadium:
		r := h / 2
		return fmt.Sprintf(`<rect class="node-bg" x="%s" y="%s" width="%s" height="%s" rx="%s" ry="%s" %s/>`,
			fnum(x0), fnum(y0), fnum(w), fnum(h), fnum(r), fnum(r), attrs)

	case graph.ShapeDiamond:
		pts := []point{{cx, y0}, {cx + w/2, cy}, {cx, cy + h/2}, {cx - w/2, cy}}
		return fmt.Sprintf(`<polygon class="node-bg" points="%s" %s/>`, polyPoints(pts), attrs)

	case graph.ShapeHexagon:
		inset := 0.866 * w / 2
		pts := []point{
			{x0 + w - inset, y0}, {x0 + w, cy}, {x0 + w - inset, y0 + h},
			{x0 + inset, y0 + h}, {x0, cy}, {x0 + inset, y0},
		}
		return fmt.Sprintf(`<polygon class="node-bg" points="%s" %s/>`, polyPoints(pts), attrs)

	case graph.ShapeTrapezoid:
		inset := 0.15 * w
		pts := []point{{x0 + inset, y0}, {x0 + w - inset, y0}, {x0 + w, y0 + h}, {x0, y0 + h}}
		return fmt.Sprintf(`<polygon class="node-bg" points="%s" %s/>`, polyPoints(pts), attrs)

	case graph.ShapeCylinder:
		ellipseH := h * 0.15
		var b strings.Builder
		fmt.Fprintf(&b, `<path class="node-bg" d="M %s %s L %s %s A %s %s 0 0 0 %s %s L %s %s A %s %s 0 0 0 %s %s Z" %s/>`,
			fnum(x0), fnum(y0+ellipseH/2), fnum(x0), fnum(y0+h-ellipseH/2),
			fnum(w/2), fnum(ellipseH/2), fnum(x0+w), fnum(y0+h-ellipseH/2),
			fnum(x0+w), fnum(y0+ellipseH/2),
			fnum(w/2), fnum(ellipseH/2), fnum(x0), fnum(y0+ellipseH/2),
			attrs)
		fmt.Fprintf(&b, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s" %s/>`,
			fnum(cx), fnum(y0+ellipseH/2), fnum(w/2), fnum(ellipseH/2), attrs)
		return b.String()

	default: // rect
		return fmt.Sprintf(`<rect class="node-bg" x="%s" y="%s" width="%s" height="%s" %s/>`,
			fnum(x0), fnum(y0), fnum(w), fnum(h), attrs)
	}
}

type point struct{ X, Y float64 }

func polyPoints(pts []point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fnum(p.X) + "," + fnum(p.Y)
	}
	return strings.Join(parts, " ")
}

func fnum(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
