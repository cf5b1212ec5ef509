package layout

import (
	"fmt"

	"github.com/lspecian/netviz/internal/graph"
)

// HAPair is an implicit redundancy pair: two nodes joined by a
// redundancy-tagged link, grouped into a compound container during solving
// and unwrapped again on extraction. Left/Right follow the link's
// from/to direction (the link's source is the "left" partner, its
// destination the "right" partner), which is also how ports.go assigns
// their facing ports.
type HAPair struct {
	ID     string // synthetic container id
	Left   string // node id
	Right  string // node id
	LinkID string // the redundancy link that defined the pair
}

// DetectHAPairs scans the validated link set for redundancy-tagged links and
// groups their endpoints into HAPair values, one per distinct node pair.
func DetectHAPairs(g *graph.Graph, valid *graph.Validated, h *graph.Hierarchy) []HAPair {
	seen := make(map[string]bool)
	var pairs []HAPair
	for _, l := range valid.ValidLinks {
		if !l.IsHA() {
			continue
		}
		fromID, _, frErr := graph.ResolveEndpoint(g, h, valid.NodeIndex, l.From)
		toID, _, toErr := graph.ResolveEndpoint(g, h, valid.NodeIndex, l.To)
		if frErr != nil || toErr != nil {
			continue
		}
		key := pairKey(fromID, toID)
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, HAPair{
			ID:     fmt.Sprintf("__ha_%s_%s", fromID, toID),
			Left:   fromID,
			Right:  toID,
			LinkID: l.ID,
		})
	}
	return pairs
}

func pairKey(a, b string) string {
	if a < b {
		return a + "\x00" + b
	}
	return b + "\x00" + a
}

// HAIndex is a lookup structure over DetectHAPairs' output: which container
// (if any) a node belongs to, and the pair's own metadata.
type HAIndex struct {
	pairs      []HAPair
	nodeToPair map[string]*HAPair
}

// BuildHAIndex builds a lookup index from a pair list.
func BuildHAIndex(pairs []HAPair) *HAIndex {
	idx := &HAIndex{nodeToPair: make(map[string]*HAPair, len(pairs)*2)}
	for i := range pairs {
		p := &pairs[i]
		idx.pairs = append(idx.pairs, *p)
		idx.nodeToPair[p.Left] = p
		idx.nodeToPair[p.Right] = p
	}
	return idx
}

// PairOf returns the HA pair containing nodeID, if any.
func (idx *HAIndex) PairOf(nodeID string) (HAPair, bool) {
	if idx == nil {
		return HAPair{}, false
	}
	p, ok := idx.nodeToPair[nodeID]
	if !ok {
		return HAPair{}, false
	}
	return *p, true
}

// Pairs returns all detected HA pairs.
func (idx *HAIndex) Pairs() []HAPair {
	if idx == nil {
		return nil
	}
	return idx.pairs
}
