package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/lspecian/netviz/internal/layout"
)

// strokeOffsets returns the per-segment perpendicular offsets for n parallel
// bandwidth strokes, centered on zero with a 3-unit center-to-center
// spacing: n=4 yields {-4.5, -1.5, 1.5, 4.5}.
func strokeOffsets(n int) []float64 {
	if n <= 1 {
		return []float64{0}
	}
	const spacing = 3.0
	mid := float64(n-1) / 2
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = (float64(i) - mid) * spacing
	}
	return out
}

// offsetPolyline translates every segment of points independently along its
// own perpendicular by offset, inserting both the translated segment-end and
// the next segment's translated-start at each bend.
func offsetPolyline(points []layout.Point, offset float64) []layout.Point {
	if len(points) < 2 || offset == 0 {
		return points
	}
	var out []layout.Point
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		px, py := perpendicular(a, b)
		oa := layout.Point{X: a.X + px*offset, Y: a.Y + py*offset}
		ob := layout.Point{X: b.X + px*offset, Y: b.Y + py*offset}
		if n := len(out); n > 0 && almostEqual(out[n-1], oa) {
			out = append(out, ob)
		} else {
			out = append(out, oa, ob)
		}
	}
	return out
}

func perpendicular(a, b layout.Point) (px, py float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return 0, 0
	}
	return -dy / length, dx / length
}

func almostEqual(a, b layout.Point) bool {
	const eps = 1e-6
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func dist(a, b layout.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

func movePoint(from, toward layout.Point, d float64) layout.Point {
	length := dist(from, toward)
	if length == 0 || d <= 0 {
		return from
	}
	if d > length {
		d = length
	}
	t := d / length
	return layout.Point{X: from.X + (toward.X-from.X)*t, Y: from.Y + (toward.Y-from.Y)*t}
}

// pathData renders points as an SVG path "d" attribute, rounding interior
// corners with a radius clamped to half the shorter adjacent segment.
func pathData(points []layout.Point, maxRadius float64) string {
	if len(points) == 0 {
		return ""
	}
	if len(points) == 1 {
		return fmt.Sprintf("M %s %s", fnum(points[0].X), fnum(points[0].Y))
	}
	if len(points) == 2 || maxRadius <= 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "M %s %s", fnum(points[0].X), fnum(points[0].Y))
		for _, p := range points[1:] {
			fmt.Fprintf(&b, " L %s %s", fnum(p.X), fnum(p.Y))
		}
		return b.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", fnum(points[0].X), fnum(points[0].Y))
	for i := 1; i < len(points)-1; i++ {
		prev, cur, next := points[i-1], points[i], points[i+1]
		r := maxRadius
		if half := dist(prev, cur) / 2; half < r {
			r = half
		}
		if half := dist(cur, next) / 2; half < r {
			r = half
		}
		p1 := movePoint(cur, prev, r)
		p2 := movePoint(cur, next, r)
		fmt.Fprintf(&b, " L %s %s Q %s %s %s %s", fnum(p1.X), fnum(p1.Y), fnum(cur.X), fnum(cur.Y), fnum(p2.X), fnum(p2.Y))
	}
	last := points[len(points)-1]
	fmt.Fprintf(&b, " L %s %s", fnum(last.X), fnum(last.Y))
	return b.String()
}

const cornerRadius = 6.0
