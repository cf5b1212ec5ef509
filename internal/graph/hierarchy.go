package graph

import "strings"

// Hierarchy is an explicit tree over subgraph ids, built once per Graph and
// reused by the layout engine and sheet builder. Traversal never relies on
// string manipulation of ids; only construction does, to normalize a
// subgraph's declared or slash-derived parent.
type Hierarchy struct {
	byID     map[string]Subgraph
	children map[string][]string // parent id ("" = root) -> direct child subgraph ids, insertion order
	parent   map[string]string   // subgraph id -> parent id ("" = root)
}

// BuildHierarchy derives the explicit subgraph tree from a Graph, resolving
// each subgraph's parent either from its declared Parent field or, when
// unset, from the slash-delimited prefix of its id.
func BuildHierarchy(g *Graph) *Hierarchy {
	h := &Hierarchy{
		byID:     make(map[string]Subgraph, len(g.Subgraphs)),
		children: make(map[string][]string),
		parent:   make(map[string]string, len(g.Subgraphs)),
	}
	for _, sg := range g.Subgraphs {
		h.byID[sg.ID] = sg
		p := sg.Parent
		if p == "" {
			p = parentPrefix(sg.ID)
		}
		h.parent[sg.ID] = p
	}
	seen := make(map[string]bool, len(g.Subgraphs))
	for _, sg := range g.Subgraphs {
		if seen[sg.ID] {
			continue
		}
		seen[sg.ID] = true
		p := h.parent[sg.ID]
		h.children[p] = append(h.children[p], sg.ID)
	}
	return h
}

// parentPrefix returns the slash-delimited prefix up to (not including) the
// last "/" in id, or "" if id has no "/".
func parentPrefix(id string) string {
	i := strings.LastIndex(id, "/")
	if i < 0 {
		return ""
	}
	return id[:i]
}

// TopLevel returns the top-level (outermost) segment of a hierarchical
// subgraph id, i.e. the portion before the first "/".
func TopLevel(id string) string {
	i := strings.Index(id, "/")
	if i < 0 {
		return id
	}
	return id[:i]
}

// Subgraph looks up a subgraph by id.
func (h *Hierarchy) Subgraph(id string) (Subgraph, bool) {
	sg, ok := h.byID[id]
	return sg, ok
}

// ParentOf returns the parent subgraph id of sg ("" means root).
func (h *Hierarchy) ParentOf(subgraphID string) string {
	return h.parent[subgraphID]
}

// Children returns the direct child subgraph ids of subgraphID ("" for root),
// in declaration order.
func (h *Hierarchy) Children(subgraphID string) []string {
	return h.children[subgraphID]
}

// IsDescendant reports whether a is b or a nested (at any depth) descendant
// of b. The root ("") is an ancestor of everything.
func (h *Hierarchy) IsDescendant(a, b string) bool {
	if b == "" {
		return true
	}
	for cur := a; ; {
		if cur == b {
			return true
		}
		if cur == "" {
			return false
		}
		cur = h.parent[cur]
	}
}

// Ancestors returns the chain from subgraphID up to and including the root
// (""), starting with subgraphID itself.
func (h *Hierarchy) Ancestors(subgraphID string) []string {
	var out []string
	for cur := subgraphID; ; {
		out = append(out, cur)
		if cur == "" {
			return out
		}
		cur = h.parent[cur]
	}
}

// LCA returns the lowest common ancestor subgraph id ("" meaning root) of
// two subgraph ids. Either argument may be "" (root).
func (h *Hierarchy) LCA(a, b string) string {
	ancestorsA := h.Ancestors(a)
	set := make(map[string]struct{}, len(ancestorsA))
	for _, id := range ancestorsA {
		set[id] = struct{}{}
	}
	for _, id := range h.Ancestors(b) {
		if _, ok := set[id]; ok {
			return id
		}
	}
	return ""
}

// NodeParent resolves the subgraph id that directly contains a node, per
// the model's invariant: Parent must resolve to a subgraph in the same graph,
// or be a forward-slash-separated nested id whose top-level segment
// resolves. Returns ("", true) when the node has no parent.
func (h *Hierarchy) NodeParent(n Node) (string, bool) {
	if n.Parent == "" {
		return "", true
	}
	if _, ok := h.byID[n.Parent]; ok {
		return n.Parent, true
	}
	top := TopLevel(n.Parent)
	if _, ok := h.byID[top]; ok {
		return top, true
	}
	return n.Parent, false
}
