package layout

import (
	"github.com/lspecian/netviz/internal/graph"
)

// Metrics holds the size-estimation constants: every tunable the node
// sizing pass consults, overridable as a group through Options.Metrics.
type Metrics struct {
	MinNodeWidth      float64
	MinNodeHeight     float64
	IconHeight        float64
	IconAspectRatio   float64
	IconWidthFraction float64 // icon width is clamped to this fraction of final node width
	LineHeight        float64
	IconLabelGap      float64
	VerticalPadding   float64
	CharWidth         float64
	HorizontalPadding float64
	MinPortSpacing    float64
	PortLabelPadding  float64
	PortExtent        float64 // width/height of a port glyph
	EdgeMargin        float64
}

// DefaultMetrics returns the module's built-in size-estimation constants.
func DefaultMetrics() Metrics {
	return Metrics{
		MinNodeWidth:      80,
		MinNodeHeight:     50,
		IconHeight:        32,
		IconAspectRatio:   1.0,
		IconWidthFraction: 0.6,
		LineHeight:        16,
		IconLabelGap:      4,
		VerticalPadding:   12,
		CharWidth:         7,
		HorizontalPadding: 16,
		MinPortSpacing:    20,
		PortLabelPadding:  6,
		PortExtent:        10,
		EdgeMargin:        8,
	}
}

// EstimateSize computes a node's width and height deterministically from
// its content: height from icon + label lines + padding; width as the max
// of icon demand, label demand, and port-count demand.
func EstimateSize(n graph.Node, topPorts, bottomPorts, leftPorts, rightPorts int, m Metrics) Size {
	hasIcon := n.Vendor != "" || n.Service != "" || n.Model != "" || n.Resource != "" || n.Type != ""
	iconH := 0.0
	if hasIcon {
		iconH = m.IconHeight
	}

	lines := n.Label.Lines
	lineCount := len(lines)
	height := iconH + m.IconLabelGap + float64(lineCount)*m.LineHeight + m.VerticalPadding
	if height < m.MinNodeHeight {
		height = m.MinNodeHeight
	}

	iconW := 0.0
	if hasIcon {
		iconW = iconH * m.IconAspectRatio
	}

	longestLine := 0
	for _, l := range lines {
		if len(l) > longestLine {
			longestLine = len(l)
		}
	}
	labelWidth := float64(longestLine)*m.CharWidth + m.HorizontalPadding

	maxSidePorts := topPorts
	if bottomPorts > maxSidePorts {
		maxSidePorts = bottomPorts
	}
	portSpacing := m.MinPortSpacing
	portWidth := float64(maxSidePorts)*portSpacing + 2*m.EdgeMargin

	width := iconW
	if iconW > 0 {
		width = iconW / m.IconWidthFraction
	}
	if labelWidth > width {
		width = labelWidth
	}
	if portWidth > width {
		width = portWidth
	}
	if width < m.MinNodeWidth {
		width = m.MinNodeWidth
	}

	_ = leftPorts
	_ = rightPorts
	return Size{W: width, H: height}
}

// PortSpacing computes the slot spacing for a side given the longest port
// label on that side, enlarging beyond MinPortSpacing when labels demand it.
func PortSpacing(longestPortLabelChars int, m Metrics) float64 {
	demand := float64(longestPortLabelChars)*m.CharWidth + m.PortLabelPadding
	if demand > m.MinPortSpacing {
		return demand
	}
	return m.MinPortSpacing
}
