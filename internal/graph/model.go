// Package graph defines the declarative network data model: nodes, links,
// subgraphs and their enumerations. Values here are immutable once built —
// the layout engine and renderer only ever read them.
package graph

// Shape enumerates the supported node shapes.
type Shape string

const (
	ShapeRect       Shape = "rect"
	ShapeRounded    Shape = "rounded"
	ShapeCircle     Shape = "circle"
	ShapeDiamond    Shape = "diamond"
	ShapeHexagon    Shape = "hexagon"
	ShapeCylinder   Shape = "cylinder"
	ShapeStadium    Shape = "stadium"
	ShapeTrapezoid  Shape = "trapezoid"
)

// LinkType enumerates the supported cable rendering types.
type LinkType string

const (
	LinkSolid     LinkType = "solid"
	LinkDashed    LinkType = "dashed"
	LinkThick     LinkType = "thick"
	LinkDouble    LinkType = "double"
	LinkInvisible LinkType = "invisible"
)

// Arrow enumerates link arrowhead styles.
type Arrow string

const (
	ArrowNone    Arrow = "none"
	ArrowForward Arrow = "forward"
	ArrowBack    Arrow = "back"
	ArrowBoth    Arrow = "both"
)

// Bandwidth enumerates the link-speed classes that drive parallel-stroke
// rendering.
type Bandwidth string

const (
	Bandwidth1G   Bandwidth = "1G"
	Bandwidth10G  Bandwidth = "10G"
	Bandwidth25G  Bandwidth = "25G"
	Bandwidth40G  Bandwidth = "40G"
	Bandwidth100G Bandwidth = "100G"
)

// StrokeCount returns the number of parallel strokes used to render a link
// of this bandwidth class. Unknown/empty bandwidth renders as a single
// stroke.
func (b Bandwidth) StrokeCount() int {
	switch b {
	case Bandwidth1G:
		return 1
	case Bandwidth10G:
		return 2
	case Bandwidth25G:
		return 3
	case Bandwidth40G:
		return 4
	case Bandwidth100G:
		return 5
	default:
		return 1
	}
}

// Redundancy enumerates the recognized high-availability tags. Any
// non-empty value implies the link's endpoints form an HA pair; the named
// constants are the ones with dedicated rendering defaults.
type Redundancy string

const (
	RedundancyHA    Redundancy = "ha"
	RedundancyVC    Redundancy = "vc"
	RedundancyVSS   Redundancy = "vss"
	RedundancyVPC   Redundancy = "vpc"
	RedundancyMLAG  Redundancy = "mlag"
	RedundancyStack Redundancy = "stack"
)

// DefaultLinkType returns the rendering default for a link's type, driven by
// its redundancy tag.
func DefaultLinkType(r Redundancy) LinkType {
	switch r {
	case RedundancyHA, RedundancyVC, RedundancyVSS, RedundancyVPC, RedundancyMLAG:
		return LinkDouble
	case RedundancyStack:
		return LinkThick
	default:
		return LinkSolid
	}
}

// Side enumerates the side of a node a port sits on.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// Direction enumerates the layered-layout flow direction.
type Direction string

const (
	DirectionTB Direction = "TB"
	DirectionBT Direction = "BT"
	DirectionLR Direction = "LR"
	DirectionRL Direction = "RL"
)

// Vertical reports whether the direction lays out top-to-bottom/bottom-to-top
// (as opposed to left-right).
func (d Direction) Vertical() bool {
	return d == DirectionTB || d == DirectionBT || d == ""
}

// SplineMode enumerates edge-routing styles offered to the layered solver.
type SplineMode string

const (
	SplineOrthogonal SplineMode = "orthogonal"
	SplinePolyline   SplineMode = "polyline"
	SplineSpline     SplineMode = "spline"
	SplineStraight   SplineMode = "straight"
)

// Theme enumerates the renderer's palette sets.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Style carries optional visual overrides shared by nodes, links and
// subgraphs.
type Style struct {
	Fill        string  `json:"fill,omitempty" yaml:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty" yaml:"strokeWidth,omitempty"`
	Dasharray   string  `json:"dasharray,omitempty" yaml:"dasharray,omitempty"`
	MinLength   float64 `json:"minLength,omitempty" yaml:"minLength,omitempty"`

	// Subgraph-only extensions.
	Padding       float64 `json:"padding,omitempty" yaml:"padding,omitempty"`
	NodeSpacing   float64 `json:"nodeSpacing,omitempty" yaml:"nodeSpacing,omitempty"`
	RankSpacing   float64 `json:"rankSpacing,omitempty" yaml:"rankSpacing,omitempty"`
	LabelPosition string  `json:"labelPosition,omitempty" yaml:"labelPosition,omitempty"`
}

// Label is either a single line or an ordered sequence of lines.
type Label struct {
	Lines []string
}

// NewLabel builds a single-line label.
func NewLabel(s string) Label { return Label{Lines: []string{s}} }

// String returns the label joined with newlines.
func (l Label) String() string {
	out := ""
	for i, line := range l.Lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}

// IsZero reports whether the label carries no text.
func (l Label) IsZero() bool { return len(l.Lines) == 0 }

// MarshalJSON renders a single-line label as a bare string and a multi-line
// label as an array, so both wire shapes round-trip.
func (l Label) MarshalJSON() ([]byte, error) {
	return marshalLabel(l)
}

// UnmarshalJSON accepts either a bare string or an array of strings.
func (l *Label) UnmarshalJSON(data []byte) error {
	return unmarshalLabel(data, l)
}

// MarshalYAML mirrors MarshalJSON's string-or-sequence shape for YAML input.
func (l Label) MarshalYAML() (interface{}, error) {
	return marshalLabelYAML(l)
}

// UnmarshalYAML accepts either a scalar string or a sequence of strings.
func (l *Label) UnmarshalYAML(unmarshal func(interface{}) error) error {
	return unmarshalLabelYAML(unmarshal, l)
}

// LinkEndpoint identifies one end of a Link: a node, optionally a specific
// port, and optional addressing metadata used only for display.
type LinkEndpoint struct {
	Node string `json:"node" yaml:"node"`
	Port string `json:"port,omitempty" yaml:"port,omitempty"`
	IP   string `json:"ip,omitempty" yaml:"ip,omitempty"`
	Pin  string `json:"pin,omitempty" yaml:"pin,omitempty"`
}

// Node is a device or abstract endpoint in the topology.
type Node struct {
	ID       string            `json:"id" yaml:"id"`
	Label    Label             `json:"label" yaml:"label"`
	Shape    Shape             `json:"shape,omitempty" yaml:"shape,omitempty"`
	Type     string            `json:"type,omitempty" yaml:"type,omitempty"`
	Vendor   string            `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Service  string            `json:"service,omitempty" yaml:"service,omitempty"`
	Model    string            `json:"model,omitempty" yaml:"model,omitempty"`
	Resource string            `json:"resource,omitempty" yaml:"resource,omitempty"`
	Rank     *int              `json:"rank,omitempty" yaml:"rank,omitempty"`
	Parent   string            `json:"parent,omitempty" yaml:"parent,omitempty"`
	Style    *Style            `json:"style,omitempty" yaml:"style,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// EffectiveShape returns the node's shape, defaulting to rect.
func (n Node) EffectiveShape() Shape {
	if n.Shape == "" {
		return ShapeRect
	}
	return n.Shape
}

// Link is a cable connecting two endpoints.
type Link struct {
	ID         string       `json:"id,omitempty" yaml:"id,omitempty"`
	From       LinkEndpoint `json:"from" yaml:"from"`
	To         LinkEndpoint `json:"to" yaml:"to"`
	Label      Label        `json:"label,omitempty" yaml:"label,omitempty"`
	Type       LinkType     `json:"type,omitempty" yaml:"type,omitempty"`
	Arrow      Arrow        `json:"arrow,omitempty" yaml:"arrow,omitempty"`
	Bandwidth  Bandwidth    `json:"bandwidth,omitempty" yaml:"bandwidth,omitempty"`
	Redundancy Redundancy   `json:"redundancy,omitempty" yaml:"redundancy,omitempty"`
	VLAN       []int        `json:"vlan,omitempty" yaml:"vlan,omitempty"`
	Style      *Style       `json:"style,omitempty" yaml:"style,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IsHA reports whether the link's redundancy tag implies an HA pair.
func (l Link) IsHA() bool { return l.Redundancy != "" }

// EffectiveType returns the link's rendering type, applying redundancy-driven
// defaults.
func (l Link) EffectiveType() LinkType {
	if l.Type != "" {
		return l.Type
	}
	return DefaultLinkType(l.Redundancy)
}

// EffectiveArrow returns the link's arrow style, defaulting to none.
func (l Link) EffectiveArrow() Arrow {
	if l.Arrow != "" {
		return l.Arrow
	}
	return ArrowNone
}

// Subgraph is a rectangular grouping of nodes and nested subgraphs.
type Subgraph struct {
	ID        string            `json:"id" yaml:"id"`
	Label     Label             `json:"label" yaml:"label"`
	Parent    string            `json:"parent,omitempty" yaml:"parent,omitempty"`
	Direction Direction         `json:"direction,omitempty" yaml:"direction,omitempty"`
	File      string            `json:"file,omitempty" yaml:"file,omitempty"`
	Pins      map[string]string `json:"pins,omitempty" yaml:"pins,omitempty"`
	Style     *Style            `json:"style,omitempty" yaml:"style,omitempty"`
	Vendor    string            `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Service   string            `json:"service,omitempty" yaml:"service,omitempty"`
	Model     string            `json:"model,omitempty" yaml:"model,omitempty"`
	Resource  string            `json:"resource,omitempty" yaml:"resource,omitempty"`
}

// Graph is the full declarative network description: the unit of work for
// layout, rendering and merge.
type Graph struct {
	ID         string              `json:"id,omitempty" yaml:"id,omitempty"`
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	Direction  Direction           `json:"direction,omitempty" yaml:"direction,omitempty"`
	Theme      Theme               `json:"theme,omitempty" yaml:"theme,omitempty"`
	Nodes      []Node              `json:"nodes" yaml:"nodes"`
	Links      []Link              `json:"links" yaml:"links"`
	Subgraphs  []Subgraph          `json:"subgraphs,omitempty" yaml:"subgraphs,omitempty"`
}

// HasHierarchy reports whether the graph declares any subgraphs, i.e.
// whether sheet building and LCA-based edge container resolution apply.
func (g *Graph) HasHierarchy() bool {
	return len(g.Subgraphs) > 0
}

// EffectiveDirection returns the graph's layout direction, defaulting to TB.
func (g *Graph) EffectiveDirection() Direction {
	if g.Direction == "" {
		return DirectionTB
	}
	return g.Direction
}

// EffectiveTheme returns the graph's theme, defaulting to light.
func (g *Graph) EffectiveTheme() Theme {
	if g.Theme == "" {
		return ThemeLight
	}
	return g.Theme
}
