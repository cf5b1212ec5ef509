package svg

import (
	"fmt"
	"hash/fnv"

	"github.com/lspecian/netviz/internal/layout"
)

// Font metrics used to size label background rects. charWidth matches the
// layout engine's CharWidth (internal/layout/size.go); lineHeight (14) is
// smaller than the layout's LineHeight (16).
const (
	charWidth  = 7.0
	lineHeight = 14.0
	labelPadX  = 6.0
	labelPadY  = 3.0
)

func textWidth(s string) float64 {
	return float64(len(s))*charWidth + 2*labelPadX
}

// labelBackground emits a rounded background rect centered at (cx, cy) sized
// to fit s, followed by the text itself, tagged with class.
func labelBackground(cx, cy float64, s, class, bgClass, fill, textColor string) string {
	if s == "" {
		return ""
	}
	w := textWidth(s)
	h := lineHeight + 2*labelPadY
	x0, y0 := cx-w/2, cy-h/2
	return fmt.Sprintf(
		`<rect class="%s" x="%s" y="%s" width="%s" height="%s" rx="4" ry="4" fill="%s"/><text class="%s" x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" fill="%s">%s</text>`,
		bgClass, fnum(x0), fnum(y0), fnum(w), fnum(h), fill,
		class, fnum(cx), fnum(cy+4), textColor, escapeText(s),
	)
}

func escapeText(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '&':
			out = append(out, []rune("&amp;")...)
		case '<':
			out = append(out, []rune("&lt;")...)
		case '>':
			out = append(out, []rune("&gt;")...)
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// portNameHash is the deterministic tie-break used for vertical-link
// endpoint label placement when the port's x-offset doesn't decide a side.
func portNameHash(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}

// endpointLabelPosition computes where an IP endpoint label sits, offset
// perpendicular to the link direction near the given end point. vertical
// reports whether the graph's direction is TB/BT; portDX is the port's
// x-offset from its node's center (0 when unknown).
func endpointLabelPosition(end, other layout.Point, vertical bool, portDX float64, portName string) (float64, float64) {
	const offset = 16.0
	if vertical {
		side := 1.0
		switch {
		case portDX > 0:
			side = 1
		case portDX < 0:
			side = -1
		default:
			if portNameHash(portName)%2 == 0 {
				side = -1
			}
		}
		return end.X + side*offset, end.Y
	}
	midX := (end.X + other.X) / 2
	// anchor toward the link's midpoint, placed just below the line.
	x := end.X
	if midX > end.X {
		x = end.X + offset/2
	} else if midX < end.X {
		x = end.X - offset/2
	}
	return x, end.Y + offset
}
