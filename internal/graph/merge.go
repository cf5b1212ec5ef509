package graph

import (
	"fmt"
	"strings"

	"github.com/lspecian/netviz/internal/metrics"
)

// MatchStrategy selects how an overlay node is matched against the
// in-progress merged graph.
type MatchStrategy string

const (
	MatchID        MatchStrategy = "id"
	MatchName      MatchStrategy = "name"
	MatchAttribute MatchStrategy = "attribute"
	MatchManual    MatchStrategy = "manual"
)

// OnMatchStrategy selects how a matched overlay node's fields combine with
// the base node it matched.
type OnMatchStrategy string

const (
	OnMatchMergeProperties OnMatchStrategy = "merge-properties"
	OnMatchKeepBase        OnMatchStrategy = "keep-base"
	OnMatchKeepOverlay     OnMatchStrategy = "keep-overlay"
)

// OnUnmatchedStrategy selects how an overlay node with no match is handled.
type OnUnmatchedStrategy string

const (
	OnUnmatchedAddToRoot     OnUnmatchedStrategy = "add-to-root"
	OnUnmatchedAddToSubgraph OnUnmatchedStrategy = "add-to-subgraph"
	OnUnmatchedIgnore        OnUnmatchedStrategy = "ignore"
)

// LegacyStrategy is the pre-overlay-config id-collision handling bundle,
// used when MergeOptions.Match is left unset.
type LegacyStrategy string

const (
	LegacyKeepFirst    LegacyStrategy = "keep-first"
	LegacyKeepLast     LegacyStrategy = "keep-last"
	LegacyPrefixSource LegacyStrategy = "prefix-source"
	LegacyError        LegacyStrategy = "error"
)

// MergeOptions configures a multi-source graph merge.
type MergeOptions struct {
	Match         MatchStrategy
	OnMatch       OnMatchStrategy
	OnUnmatched   OnUnmatchedStrategy
	AttributePath string            // metadata key compared under MatchAttribute
	ManualMap     map[string]string // overlay node id -> base node id, under MatchManual
	Legacy        LegacyStrategy    // used only when Match == ""
}

// SkipReport records one node or link dropped during merge, with the reason.
type SkipReport struct {
	ID     string
	Reason string
}

// SourceCounts tallies accepted nodes/links from one source graph.
type SourceCounts struct {
	Nodes int
	Links int
}

// MergeResult is the outcome of MergeGraphs: the combined graph, per-source
// acceptance counts, skip reports, and the overlay->merged id translation
// table.
type MergeResult struct {
	Graph             *Graph
	Counts            map[string]SourceCounts
	SkippedNodes      []SkipReport
	SkippedLinks      []SkipReport
	AppliedIDMappings map[string]string
}

// MergeConflict is raised only under the legacy LegacyError collision
// strategy.
type MergeConflict struct {
	NodeID string
}

func (e *MergeConflict) Error() string {
	return fmt.Sprintf("graph: merge conflict on node id %q", e.NodeID)
}

// MergeGraphs combines sources (and their matching per-source identifiers,
// used for subgraph naming and id prefixing) into one Graph. The first
// source is the base; later sources are overlays matched and combined
// against the progressively merged result.
func MergeGraphs(sources []*Graph, sourceIDs []string, opts MergeOptions) (*MergeResult, error) {
	if len(sources) == 0 {
		return &MergeResult{Graph: &Graph{}, Counts: map[string]SourceCounts{}, AppliedIDMappings: map[string]string{}}, nil
	}

	res := &MergeResult{
		Graph:             &Graph{},
		Counts:            make(map[string]SourceCounts, len(sources)),
		AppliedIDMappings: make(map[string]string),
	}
	merged := res.Graph
	merged.Direction = sources[0].Direction
	merged.Theme = sources[0].Theme

	nodeIDs := make(map[string]struct{})
	addedSubgraphs := make(map[string]struct{})

	sourceID := func(i int) string {
		if i < len(sourceIDs) && sourceIDs[i] != "" {
			return sourceIDs[i]
		}
		return fmt.Sprintf("source-%d", i)
	}

	for i, src := range sources {
		sid := sourceID(i)
		counts := SourceCounts{}
		idMap := make(map[string]string, len(src.Nodes))

		for _, sg := range src.Subgraphs {
			if _, exists := addedSubgraphs[sg.ID]; exists {
				continue
			}
			merged.Subgraphs = append(merged.Subgraphs, sg)
			addedSubgraphs[sg.ID] = struct{}{}
		}

		for _, n := range src.Nodes {
			newID, accepted, reason, err := mergeOneNode(merged, &nodeIDs, n, sid, i == 0, opts, &addedSubgraphs)
			if err != nil {
				return nil, err
			}
			if newID != "" {
				// Matched/folded nodes get a translation entry too, so
				// overlay links referencing them still resolve below.
				idMap[n.ID] = newID
				if newID != n.ID {
					res.AppliedIDMappings[n.ID] = newID
				}
			}
			if !accepted {
				if reason != "" {
					res.SkippedNodes = append(res.SkippedNodes, SkipReport{ID: n.ID, Reason: reason})
					skipKind := "unmatched"
					if opts.Match == "" {
						skipKind = "id_collision"
					}
					metrics.RecordMergeSkip("node", skipKind)
				}
				continue
			}
			counts.Nodes++
		}

		for _, l := range src.Links {
			fromID, fromOK := resolveMergedEndpoint(idMap, nodeIDs, l.From.Node)
			toID, toOK := resolveMergedEndpoint(idMap, nodeIDs, l.To.Node)
			id := l.ID
			if id == "" {
				id = fmt.Sprintf("%s->%s", l.From.Node, l.To.Node)
			}
			if !fromOK || !toOK {
				res.SkippedLinks = append(res.SkippedLinks, SkipReport{ID: id, Reason: "endpoint could not be resolved after merge"})
				metrics.RecordMergeSkip("link", "unresolved_endpoint")
				continue
			}
			nl := l
			nl.From.Node = fromID
			nl.To.Node = toID
			merged.Links = append(merged.Links, nl)
			counts.Links++
		}

		res.Counts[sid] = counts
	}

	return res, nil
}

func resolveMergedEndpoint(idMap map[string]string, nodeIDs map[string]struct{}, original string) (string, bool) {
	if mapped, ok := idMap[original]; ok {
		return mapped, true
	}
	if _, ok := nodeIDs[original]; ok {
		return original, true
	}
	return "", false
}

// mergeOneNode applies the configured match/onMatch/onUnmatched (or legacy)
// strategy for a single overlay node against the in-progress merged graph.
// It returns the id the node was ultimately stored under, whether it counts
// as "accepted" for SourceCounts, and a skip reason when not accepted. The
// base source (isBase) is never matched against itself: its nodes seed the
// merged graph directly.
func mergeOneNode(merged *Graph, nodeIDs *map[string]struct{}, n Node, sourceID string, isBase bool, opts MergeOptions, addedSubgraphs *map[string]struct{}) (newID string, accepted bool, reason string, err error) {
	if opts.Match == "" {
		id, ok, r, e := mergeOneNodeLegacy(merged, nodeIDs, n, sourceID, opts.Legacy)
		return id, ok, r, e
	}
	if isBase {
		id := uniqueNodeID(*nodeIDs, n.ID)
		n.ID = id
		merged.Nodes = append(merged.Nodes, n)
		(*nodeIDs)[id] = struct{}{}
		return id, true, "", nil
	}

	baseIdx, matched := findMatch(merged, n, sourceID, opts)
	if matched {
		switch opts.OnMatch {
		case OnMatchKeepOverlay:
			base := merged.Nodes[baseIdx]
			overlay := n
			overlay.ID = base.ID
			merged.Nodes[baseIdx] = overlay
		case OnMatchKeepBase:
			// no changes
		default: // merge-properties
			merged.Nodes[baseIdx] = mergeNodeProperties(merged.Nodes[baseIdx], n)
		}
		return merged.Nodes[baseIdx].ID, false, "", nil
	}

	switch opts.OnUnmatched {
	case OnUnmatchedIgnore:
		return "", false, "unmatched node ignored per merge options", nil
	case OnUnmatchedAddToSubgraph:
		sgID := "source:" + sourceID
		if _, ok := (*addedSubgraphs)[sgID]; !ok {
			merged.Subgraphs = append(merged.Subgraphs, Subgraph{ID: sgID, Label: NewLabel(sourceID)})
			(*addedSubgraphs)[sgID] = struct{}{}
		}
		n.Parent = sgID
		fallthrough
	default: // add-to-root
		id := uniqueNodeID(*nodeIDs, n.ID)
		n.ID = id
		merged.Nodes = append(merged.Nodes, n)
		(*nodeIDs)[id] = struct{}{}
		return id, true, "", nil
	}
}

func findMatch(merged *Graph, n Node, sourceID string, opts MergeOptions) (int, bool) {
	switch opts.Match {
	case MatchID:
		for i, b := range merged.Nodes {
			if b.ID == n.ID {
				return i, true
			}
		}
	case MatchName:
		target := normalizeName(n.Label.String())
		for i, b := range merged.Nodes {
			if normalizeName(b.Label.String()) == target {
				return i, true
			}
		}
	case MatchAttribute:
		target, ok := n.Metadata[opts.AttributePath]
		if !ok {
			return 0, false
		}
		for i, b := range merged.Nodes {
			if v, ok := b.Metadata[opts.AttributePath]; ok && v == target {
				return i, true
			}
		}
	case MatchManual:
		baseID, ok := opts.ManualMap[n.ID]
		if !ok {
			return 0, false
		}
		for i, b := range merged.Nodes {
			if b.ID == baseID {
				return i, true
			}
		}
	}
	return 0, false
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// mergeNodeProperties shallow-merges overlay into base: overlay wins on
// non-container scalar fields, metadata maps are shallow-merged, and the
// base id is preserved.
func mergeNodeProperties(base, overlay Node) Node {
	out := base
	if overlay.Label.String() != "" {
		out.Label = overlay.Label
	}
	if overlay.Shape != "" {
		out.Shape = overlay.Shape
	}
	if overlay.Type != "" {
		out.Type = overlay.Type
	}
	if overlay.Vendor != "" {
		out.Vendor = overlay.Vendor
	}
	if overlay.Service != "" {
		out.Service = overlay.Service
	}
	if overlay.Model != "" {
		out.Model = overlay.Model
	}
	if overlay.Resource != "" {
		out.Resource = overlay.Resource
	}
	if overlay.Rank != nil {
		out.Rank = overlay.Rank
	}
	if overlay.Style != nil {
		out.Style = overlay.Style
	}
	if len(overlay.Metadata) > 0 {
		merged := make(map[string]string, len(out.Metadata)+len(overlay.Metadata))
		for k, v := range out.Metadata {
			merged[k] = v
		}
		for k, v := range overlay.Metadata {
			merged[k] = v
		}
		out.Metadata = merged
	}
	return out
}

func mergeOneNodeLegacy(merged *Graph, nodeIDs *map[string]struct{}, n Node, sourceID string, strategy LegacyStrategy) (string, bool, string, error) {
	if _, exists := (*nodeIDs)[n.ID]; !exists {
		merged.Nodes = append(merged.Nodes, n)
		(*nodeIDs)[n.ID] = struct{}{}
		return n.ID, true, "", nil
	}
	switch strategy {
	case LegacyError:
		return "", false, "", &MergeConflict{NodeID: n.ID}
	case LegacyKeepLast:
		for i, b := range merged.Nodes {
			if b.ID == n.ID {
				merged.Nodes[i] = n
				return n.ID, false, "", nil
			}
		}
		return n.ID, false, "id collision: original not found", nil
	case LegacyPrefixSource:
		id := sourceID + "_" + n.ID
		n.ID = id
		merged.Nodes = append(merged.Nodes, n)
		(*nodeIDs)[id] = struct{}{}
		return id, true, "", nil
	default: // LegacyKeepFirst (default)
		return n.ID, false, "id collision under keep-first: kept earlier source's node", nil
	}
}

func uniqueNodeID(existing map[string]struct{}, id string) string {
	if _, ok := existing[id]; !ok {
		return id
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", id, i)
		if _, ok := existing[candidate]; !ok {
			return candidate
		}
	}
}
