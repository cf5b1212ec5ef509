package svg

import (
	"fmt"
	"strings"

	"github.com/lspecian/netviz/internal/graph"
	"github.com/lspecian/netviz/internal/layout"
)

// renderSubgraph emits one subgraph background: a rounded rectangle, an
// optional top-left icon, and a top-anchored label.
func (rc *renderCtx) renderSubgraph(ls *layout.LayoutSubgraph) string {
	if ls == nil {
		return ""
	}
	b := ls.Bounds
	var out strings.Builder
	fmt.Fprintf(&out, `<rect class="subgraph" data-id="%s" x="%s" y="%s" width="%s" height="%s" rx="8" ry="8"/>`,
		escapeText(ls.ID), fnum(b.X), fnum(b.Y), fnum(b.W), fnum(b.H))

	label := ls.Source.Label.String()
	iconW := 0.0
	if e, ok := rc.icons.Lookup(ls.Source.Vendor, ls.Source.Service, ls.Source.Model, ls.Source.Resource, ""); ok {
		iconW = 16
		fmt.Fprintf(&out, `<g class="subgraph-icon" transform="translate(%s,%s)">%s</g>`, fnum(b.X+6), fnum(b.Y+4), e.Glyph)
	}
	if label != "" {
		fmt.Fprintf(&out, `<text class="subgraph-label" x="%s" y="%s">%s</text>`,
			fnum(b.X+8+iconW), fnum(b.Y+16), escapeText(label))
	}
	return out.String()
}

// renderNodeBackground emits one node's shape-specific background path.
func (rc *renderCtx) renderNodeBackground(ln *layout.LayoutNode) string {
	if ln == nil {
		return ""
	}
	fill, stroke, strokeWidth := rc.nodeStyle(ln.Source)
	bg := shapeBackground(ln.Source.EffectiveShape(), ln.Position.X, ln.Position.Y, ln.Size.W, ln.Size.H, fill, stroke, strokeWidth)
	return fmt.Sprintf(`<g data-id="%s">%s</g>`, escapeText(ln.ID), bg)
}

func (rc *renderCtx) nodeStyle(n graph.Node) (fill, stroke string, strokeWidth float64) {
	fill, stroke, strokeWidth = rc.pal.NodeFill, rc.pal.NodeStroke, 1.5
	if n.Style != nil {
		if n.Style.Fill != "" {
			fill = n.Style.Fill
		}
		if n.Style.Stroke != "" {
			stroke = n.Style.Stroke
		}
		if n.Style.StrokeWidth > 0 {
			strokeWidth = n.Style.StrokeWidth
		}
	}
	return
}

// renderNodeForeground emits a node's icon+label stack (vertically centered
// in the node) and its port glyphs with labels.
func (rc *renderCtx) renderNodeForeground(ln *layout.LayoutNode) string {
	if ln == nil {
		return ""
	}
	var out strings.Builder
	fmt.Fprintf(&out, `<g class="node-fg" data-id="%s">`, escapeText(ln.ID))

	src := ln.Source
	hasIcon := src.Vendor != "" || src.Service != "" || src.Model != "" || src.Resource != "" || src.Type != ""
	entry, iconOK := rc.icons.Lookup(src.Vendor, src.Service, src.Model, src.Resource, src.Type)
	iconOK = iconOK && hasIcon

	lines := src.Label.Lines
	const iconH = 32.0
	const iconLabelGap = 4.0
	const lineH = 16.0

	contentH := float64(len(lines)) * lineH
	if iconOK {
		contentH += iconH + iconLabelGap
	}
	top := ln.Position.Y - contentH/2

	if iconOK {
		iconW := iconH * entry.AspectRatio
		fmt.Fprintf(&out, `<g class="node-icon" transform="translate(%s,%s)">%s</g>`,
			fnum(ln.Position.X-iconW/2), fnum(top), entry.Glyph)
		top += iconH + iconLabelGap
	}
	for i, line := range lines {
		class := "node-label"
		if i == 0 {
			class = "node-label-bold"
		}
		fmt.Fprintf(&out, `<text class="%s" x="%s" y="%s" text-anchor="middle">%s</text>`,
			class, fnum(ln.Position.X), fnum(top+float64(i)*lineH+lineH*0.75), escapeText(line))
	}

	for _, portID := range ln.PortIDs {
		p := ln.Ports[portID]
		out.WriteString(rc.renderPort(ln, p))
	}
	out.WriteString(`</g>`)
	return out.String()
}

// renderPort emits one port glyph at its node-relative position, plus its
// label placed further outside on the same axis.
func (rc *renderCtx) renderPort(ln *layout.LayoutNode, p *layout.LayoutPort) string {
	cx, cy := ln.Position.X+p.Position.X, ln.Position.Y+p.Position.Y
	var out strings.Builder
	fmt.Fprintf(&out, `<rect class="port" data-port="%s" x="%s" y="%s" width="%s" height="%s"/>`,
		escapeText(p.ID), fnum(cx-p.Size.W/2), fnum(cy-p.Size.H/2), fnum(p.Size.W), fnum(p.Size.H))

	if p.Label == "" {
		return out.String()
	}
	lx, ly := cx, cy
	const labelGap = 12.0
	switch p.Side {
	case graph.SideTop:
		ly -= labelGap
	case graph.SideBottom:
		ly += labelGap
	case graph.SideLeft:
		lx -= labelGap
	case graph.SideRight:
		lx += labelGap
	}
	out.WriteString(labelBackground(lx, ly, p.Label, "port-label", "port-label-bg", rc.pal.PortLabelBG, rc.pal.TextColor))
	return out.String()
}

// renderLink emits one link's full group: parallel bandwidth strokes, an
// optional center label, an optional VLAN label, and up to two endpoint
// labels.
func (rc *renderCtx) renderLink(ll *layout.LayoutLink) string {
	if ll == nil || len(ll.Points) < 2 {
		return ""
	}
	src := ll.Source
	if src.EffectiveType() == graph.LinkInvisible {
		return fmt.Sprintf(`<g class="link-group" data-id="%s"></g>`, escapeText(ll.ID))
	}

	strokeColor := rc.pal.LinkStroke
	if c := VLANColor(src.VLAN); c != "" {
		strokeColor = c
	}
	strokeWidth := 2.0
	dasharray := ""
	if src.Style != nil {
		if src.Style.Stroke != "" {
			strokeColor = src.Style.Stroke
		}
		if src.Style.StrokeWidth > 0 {
			strokeWidth = src.Style.StrokeWidth
		}
		dasharray = src.Style.Dasharray
	}
	switch src.EffectiveType() {
	case graph.LinkDashed:
		if dasharray == "" {
			dasharray = "6,4"
		}
	case graph.LinkThick:
		strokeWidth = strokeWidth * 2
	}

	markerAttr := ""
	switch src.EffectiveArrow() {
	case graph.ArrowForward:
		markerAttr = ` marker-end="url(#arrow-forward)"`
	case graph.ArrowBack:
		markerAttr = ` marker-start="url(#arrow-back)"`
	case graph.ArrowBoth:
		markerAttr = ` marker-start="url(#arrow-back)" marker-end="url(#arrow-forward)"`
	}

	n := src.Bandwidth.StrokeCount()
	offsets := strokeOffsets(n)

	var out strings.Builder
	fmt.Fprintf(&out, `<g class="link-group" data-id="%s">`, escapeText(ll.ID))
	for i, off := range offsets {
		pts := offsetPolyline(ll.Points, off)
		d := pathData(pts, cornerRadius)
		if i == 0 && src.EffectiveType() == graph.LinkDouble {
			fmt.Fprintf(&out, `<path class="link-double-outer" d="%s" stroke="%s"%s/>`, d, strokeColor, markerAttr)
			fmt.Fprintf(&out, `<path class="link-double-inner" d="%s"/>`, d)
			fmt.Fprintf(&out, `<path class="link" d="%s" stroke="%s" stroke-width="%s" stroke-dasharray="%s"%s/>`,
				d, strokeColor, fnum(strokeWidth), dasharray, markerAttr)
			continue
		}
		fmt.Fprintf(&out, `<path class="link" d="%s" stroke="%s" stroke-width="%s" stroke-dasharray="%s"%s/>`,
			d, strokeColor, fnum(strokeWidth), dasharray, markerAttr)
	}

	mid := ll.Points[len(ll.Points)/2]
	if label := src.Label.String(); label != "" {
		out.WriteString(labelBackground(mid.X, mid.Y, label, "link-label", "port-label-bg", rc.pal.Background, rc.pal.TextColor))
	}
	if len(src.VLAN) > 0 {
		vlanText := vlanLabelText(src.VLAN)
		out.WriteString(labelBackground(mid.X, mid.Y+16, vlanText, "link-label", "port-label-bg", rc.pal.Background, rc.pal.TextColor))
	}

	out.WriteString(rc.renderEndpointLabels(ll))
	out.WriteString(`</g>`)
	return out.String()
}

func vlanLabelText(vlans []int) string {
	parts := make([]string, len(vlans))
	for i, v := range vlans {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "vlan:" + strings.Join(parts, ",")
}

// renderEndpointLabels places the IP-only endpoint labels near each port;
// port-name labels belong to the port glyph itself.
func (rc *renderCtx) renderEndpointLabels(ll *layout.LayoutLink) string {
	vertical := rc.g.EffectiveDirection().Vertical()
	var out strings.Builder
	if ip := ll.FromEndpoint.IP; ip != "" {
		start, next := ll.Points[0], ll.Points[min(1, len(ll.Points)-1)]
		portDX := fromNodePortDX(rc.result, ll.From, ll.FromEndpoint.Port)
		x, y := endpointLabelPosition(start, next, vertical, portDX, ll.FromEndpoint.Port)
		out.WriteString(labelBackground(x, y, ip, "endpoint-label", "port-label-bg", rc.pal.Background, rc.pal.MutedText))
	}
	if ip := ll.ToEndpoint.IP; ip != "" {
		end := ll.Points[len(ll.Points)-1]
		prev := ll.Points[max(0, len(ll.Points)-2)]
		portDX := fromNodePortDX(rc.result, ll.To, ll.ToEndpoint.Port)
		x, y := endpointLabelPosition(end, prev, vertical, portDX, ll.ToEndpoint.Port)
		out.WriteString(labelBackground(x, y, ip, "endpoint-label", "port-label-bg", rc.pal.Background, rc.pal.MutedText))
	}
	return out.String()
}

func fromNodePortDX(result *layout.Result, nodeID, portID string) float64 {
	n, ok := result.Nodes[nodeID]
	if !ok || portID == "" {
		return 0
	}
	p, ok := n.Ports[portID]
	if !ok {
		return 0
	}
	return p.Position.X
}
