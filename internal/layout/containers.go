package layout

import (
	"github.com/lspecian/netviz/internal/graph"
)

// resolvedEdge is a non-HA link with its endpoints already resolved to
// concrete node/port pairs, ready to be attached to the container the LCA
// resolution assigns it to.
type resolvedEdge struct {
	link     graph.Link
	fromNode string
	fromPort string
	toNode   string
	toPort   string
}

// containerNode is one node of the recursive container tree built from the
// graph's subgraph hierarchy plus synthesized HA-pair containers. The root
// has id "".
type containerNode struct {
	id       string
	subgraph *graph.Subgraph // nil for root and HA containers
	haPair   *HAPair         // non-nil only for an HA container
	children []*containerNode
	nodeIDs  []string // leaf nodes (non-HA) owned directly by this container
	edges    []resolvedEdge
}

func nodeParentID(h *graph.Hierarchy, n graph.Node) string {
	parentID, ok := h.NodeParent(n)
	if !ok {
		return ""
	}
	return parentID
}

// BuildContainerTree assembles the recursive container tree: one node per
// subgraph (nested per the hierarchy), one compound container per detected
// HA pair, and every plain node attached to its resolved parent container.
// Every non-HA link is attached to the container given by the lowest common
// ancestor of its two endpoints' parent containers; every HA pair's
// defining redundancy link is attached directly inside its own container.
// Edge endpoints take their port ids from AssignPorts' fromInfo/toInfo, so
// links whose endpoints name no explicit port still reference the synthetic
// ports the engine placed for them.
func BuildContainerTree(g *graph.Graph, valid *graph.Validated, h *graph.Hierarchy, haIdx *HAIndex, fromInfo, toInfo map[string]endpointPortInfo) *containerNode {
	nodes := make(map[string]*containerNode)
	root := &containerNode{id: ""}
	nodes[""] = root

	var ensure func(id string) *containerNode
	ensure = func(id string) *containerNode {
		if id == "" {
			return root
		}
		if c, ok := nodes[id]; ok {
			return c
		}
		sg, _ := h.Subgraph(id)
		c := &containerNode{id: id, subgraph: &sg}
		nodes[id] = c
		parent := ensure(h.ParentOf(id))
		parent.children = append(parent.children, c)
		return c
	}
	for _, sg := range g.Subgraphs {
		ensure(sg.ID)
	}

	haContainerByNode := make(map[string]*containerNode)
	for _, pair := range haIdx.Pairs() {
		pair := pair
		leftParent := nodeParentID(h, valid.NodeIndex[pair.Left])
		parentContainer := ensure(leftParent)
		haNode := &containerNode{id: pair.ID, haPair: &pair}
		parentContainer.children = append(parentContainer.children, haNode)
		haContainerByNode[pair.Left] = haNode
		haContainerByNode[pair.Right] = haNode
	}

	for _, n := range g.Nodes {
		if _, inHA := haContainerByNode[n.ID]; inHA {
			continue
		}
		if _, ok := valid.NodeIndex[n.ID]; !ok {
			continue
		}
		parentID := nodeParentID(h, n)
		c := ensure(parentID)
		c.nodeIDs = append(c.nodeIDs, n.ID)
	}

	for _, l := range valid.ValidLinks {
		fromNodeID, fromPort, frErr := graph.ResolveEndpoint(g, h, valid.NodeIndex, l.From)
		toNodeID, toPort, toErr := graph.ResolveEndpoint(g, h, valid.NodeIndex, l.To)
		if frErr != nil || toErr != nil {
			continue
		}
		re := resolvedEdge{link: l, fromNode: fromNodeID, fromPort: fromPort, toNode: toNodeID, toPort: toPort}
		lid := linkID(l)
		if info, ok := fromInfo[lid]; ok {
			re.fromPort = info.PortID
		}
		if info, ok := toInfo[lid]; ok {
			re.toPort = info.PortID
		}

		if l.IsHA() {
			if haC, ok := haContainerByNode[fromNodeID]; ok {
				haC.edges = append(haC.edges, re)
				continue
			}
		}

		fromParent := nodeParentID(h, valid.NodeIndex[fromNodeID])
		toParent := nodeParentID(h, valid.NodeIndex[toNodeID])
		lcaID := h.LCA(fromParent, toParent)
		if lcaID == fromNodeID || lcaID == toNodeID {
			lcaID = h.ParentOf(lcaID)
		}
		c := ensure(lcaID)
		c.edges = append(c.edges, re)
	}

	return root
}
