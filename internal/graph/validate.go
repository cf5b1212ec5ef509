package graph

import "fmt"

// DiagnosticKind classifies a structured InvalidGraph finding.
type DiagnosticKind string

const (
	DiagDanglingEndpoint DiagnosticKind = "dangling_endpoint"
	DiagUnknownParent    DiagnosticKind = "unknown_parent"
	DiagDuplicateNodeID  DiagnosticKind = "duplicate_node_id"
	DiagMalformedPin     DiagnosticKind = "malformed_pin"
)

// Diagnostic describes one malformed-input finding. The engine never panics
// on these; it reports them and skips the offending element.
type Diagnostic struct {
	Kind      DiagnosticKind
	ElementID string
	Message   string
}

// Diagnostics is an ordered collection of Diagnostic values.
type Diagnostics []Diagnostic

func (d *Diagnostics) add(kind DiagnosticKind, elementID, format string, args ...interface{}) {
	*d = append(*d, Diagnostic{Kind: kind, ElementID: elementID, Message: fmt.Sprintf(format, args...)})
}

// Validated is the result of validating a Graph: the set of node ids that
// are well-formed and safe for the layout engine to place, and any
// diagnostics collected along the way. Malformed links/nodes are omitted
// from the engine's working set rather than causing a hard failure.
type Validated struct {
	Diagnostics Diagnostics
	NodeIndex   map[string]Node
	ValidLinks  []Link
}

// Validate checks a graph for dangling endpoints, unknown subgraph parents,
// duplicate node ids, and malformed pin references. It never
// returns an error for a well-formed-but-incomplete graph: problems are
// reported as Diagnostics and the offending elements are dropped from the
// returned working set.
func Validate(g *Graph) *Validated {
	h := BuildHierarchy(g)
	v := &Validated{NodeIndex: make(map[string]Node, len(g.Nodes))}

	for _, n := range g.Nodes {
		if _, dup := v.NodeIndex[n.ID]; dup {
			v.Diagnostics.add(DiagDuplicateNodeID, n.ID, "duplicate node id %q", n.ID)
			continue
		}
		if _, ok := h.NodeParent(n); !ok {
			v.Diagnostics.add(DiagUnknownParent, n.ID, "node %q references unknown parent subgraph %q", n.ID, n.Parent)
			continue
		}
		v.NodeIndex[n.ID] = n
	}

	for _, sg := range g.Subgraphs {
		if sg.Parent != "" {
			if _, ok := h.byID[sg.Parent]; !ok {
				v.Diagnostics.add(DiagUnknownParent, sg.ID, "subgraph %q references unknown parent subgraph %q", sg.ID, sg.Parent)
			}
		}
	}

	for _, l := range g.Links {
		fromNode, _, ferr := ResolveEndpoint(g, h, v.NodeIndex, l.From)
		toNode, _, terr := ResolveEndpoint(g, h, v.NodeIndex, l.To)
		id := l.ID
		if id == "" {
			id = fmt.Sprintf("%s->%s", l.From.Node, l.To.Node)
		}
		if ferr != nil {
			v.Diagnostics.add(ferr.kind, id, "%s", ferr.msg)
			continue
		}
		if terr != nil {
			v.Diagnostics.add(terr.kind, id, "%s", terr.msg)
			continue
		}
		if _, ok := v.NodeIndex[fromNode]; !ok {
			v.Diagnostics.add(DiagDanglingEndpoint, id, "link %q source %q does not resolve to a node", id, l.From.Node)
			continue
		}
		if _, ok := v.NodeIndex[toNode]; !ok {
			v.Diagnostics.add(DiagDanglingEndpoint, id, "link %q target %q does not resolve to a node", id, l.To.Node)
			continue
		}
		v.ValidLinks = append(v.ValidLinks, l)
	}

	return v
}

type resolveErr struct {
	kind DiagnosticKind
	msg  string
}

func (e *resolveErr) Error() string { return e.msg }

// ResolveEndpoint resolves a LinkEndpoint to a concrete (node id, port id)
// pair. When ep.Pin is set, ep.Node names a subgraph and the pin is looked
// up in its Pins map, whose value is expected to be a "device:port" string.
func ResolveEndpoint(g *Graph, h *Hierarchy, nodeIndex map[string]Node, ep LinkEndpoint) (nodeID, port string, rerr *resolveErr) {
	if ep.Pin == "" {
		return ep.Node, ep.Port, nil
	}
	sg, ok := h.Subgraph(ep.Node)
	if !ok {
		return "", "", &resolveErr{DiagMalformedPin, fmt.Sprintf("pin %q references unknown subgraph %q", ep.Pin, ep.Node)}
	}
	binding, ok := sg.Pins[ep.Pin]
	if !ok {
		return "", "", &resolveErr{DiagMalformedPin, fmt.Sprintf("subgraph %q has no pin %q", sg.ID, ep.Pin)}
	}
	node, port, ok := splitDevicePort(binding)
	if !ok {
		return "", "", &resolveErr{DiagMalformedPin, fmt.Sprintf("pin %q binding %q is not a device:port reference", ep.Pin, binding)}
	}
	return node, port, nil
}

func splitDevicePort(binding string) (node, port string, ok bool) {
	for i := 0; i < len(binding); i++ {
		if binding[i] == ':' {
			return binding[:i], binding[i+1:], true
		}
	}
	return binding, "", binding != ""
}
