package svg

import "github.com/lspecian/netviz/internal/graph"

// Palette is the narrow set of colors that govern every stroke and fill the
// renderer doesn't receive an explicit per-element Style override for, one
// instance per graph.Theme.
type Palette struct {
	Background       string
	SubgraphFill     string
	SubgraphStroke   string
	NodeFill         string
	NodeStroke       string
	TextColor        string
	MutedText        string
	LinkStroke       string
	LinkInnerStroke  string
	PortFill         string
	PortStroke       string
	PortLabelBG      string
	LegendBackground string
	LegendStroke     string
}

// PaletteFor returns the palette for a graph's effective theme.
func PaletteFor(theme graph.Theme) Palette {
	if theme == graph.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

var lightPalette = Palette{
	Background:       "#ffffff",
	SubgraphFill:     "#f3f4f6",
	SubgraphStroke:   "#9ca3af",
	NodeFill:         "#e5edff",
	NodeStroke:       "#3b5bdb",
	TextColor:        "#111827",
	MutedText:        "#6b7280",
	LinkStroke:       "#374151",
	LinkInnerStroke:  "#ffffff",
	PortFill:         "#f59e0b",
	PortStroke:       "#92400e",
	PortLabelBG:      "#fef3c7",
	LegendBackground: "#ffffff",
	LegendStroke:     "#9ca3af",
}

var darkPalette = Palette{
	Background:       "#111827",
	SubgraphFill:     "#1f2937",
	SubgraphStroke:   "#4b5563",
	NodeFill:         "#1e3a8a",
	NodeStroke:       "#93c5fd",
	TextColor:        "#f9fafb",
	MutedText:        "#9ca3af",
	LinkStroke:       "#d1d5db",
	LinkInnerStroke:  "#111827",
	PortFill:         "#fbbf24",
	PortStroke:       "#78350f",
	PortLabelBG:      "#374151",
	LegendBackground: "#1f2937",
	LegendStroke:     "#4b5563",
}

// vlanPalette is the 12-color VLAN palette, indexed by vlan id (or the sum
// of a link's VLAN ids) modulo its length.
var vlanPalette = [12]string{
	"#e6194b", "#3cb44b", "#ffe119", "#4363d8",
	"#f58231", "#911eb4", "#46f0f0", "#f032e6",
	"#bcf60c", "#fabebe", "#008080", "#e6beff",
}

// VLANColor returns the palette color for a link's VLAN tags, or "" when
// the link carries none.
func VLANColor(vlans []int) string {
	if len(vlans) == 0 {
		return ""
	}
	sum := 0
	for _, v := range vlans {
		sum += v
	}
	idx := sum % len(vlanPalette)
	if idx < 0 {
		idx += len(vlanPalette)
	}
	return vlanPalette[idx]
}
