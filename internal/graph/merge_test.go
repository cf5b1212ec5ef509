package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeGraphsLegacyPrefixSourceOnCollision(t *testing.T) {
	base := &Graph{Nodes: []Node{{ID: "core"}}}
	overlay := &Graph{Nodes: []Node{{ID: "core"}}}

	res, err := MergeGraphs([]*Graph{base, overlay}, []string{"base", "overlay"}, MergeOptions{Legacy: LegacyPrefixSource})
	require.NoError(t, err)

	ids := make([]string, len(res.Graph.Nodes))
	for i, n := range res.Graph.Nodes {
		ids[i] = n.ID
	}
	assert.Contains(t, ids, "core")
	assert.Contains(t, ids, "overlay_core")
}

func TestMergeGraphsLegacyErrorOnCollision(t *testing.T) {
	base := &Graph{Nodes: []Node{{ID: "core"}}}
	overlay := &Graph{Nodes: []Node{{ID: "core"}}}

	_, err := MergeGraphs([]*Graph{base, overlay}, []string{"base", "overlay"}, MergeOptions{Legacy: LegacyError})
	require.Error(t, err)
	var conflict *MergeConflict
	assert.ErrorAs(t, err, &conflict)
}

func TestMergeGraphsLegacyKeepFirst(t *testing.T) {
	base := &Graph{Nodes: []Node{{ID: "core", Label: NewLabel("base-label")}}}
	overlay := &Graph{Nodes: []Node{{ID: "core", Label: NewLabel("overlay-label")}}}

	res, err := MergeGraphs([]*Graph{base, overlay}, []string{"base", "overlay"}, MergeOptions{Legacy: LegacyKeepFirst})
	require.NoError(t, err)
	require.Len(t, res.Graph.Nodes, 1)
	assert.Equal(t, "base-label", res.Graph.Nodes[0].Label.String())
}

func TestMergeGraphsMatchIDMergeProperties(t *testing.T) {
	base := &Graph{Nodes: []Node{{ID: "core", Label: NewLabel("base-label")}}}
	overlay := &Graph{Nodes: []Node{{ID: "core", Vendor: "cisco"}}}

	res, err := MergeGraphs([]*Graph{base, overlay}, []string{"base", "overlay"}, MergeOptions{
		Match:   MatchID,
		OnMatch: OnMatchMergeProperties,
	})
	require.NoError(t, err)
	require.Len(t, res.Graph.Nodes, 1)
	assert.Equal(t, "base-label", res.Graph.Nodes[0].Label.String())
	assert.Equal(t, "cisco", res.Graph.Nodes[0].Vendor)
}

func TestMergeGraphsMatchNameKeepBase(t *testing.T) {
	base := &Graph{Nodes: []Node{{ID: "a", Label: NewLabel("Core Switch")}}}
	overlay := &Graph{Nodes: []Node{{ID: "b", Label: NewLabel("core switch")}}}

	res, err := MergeGraphs([]*Graph{base, overlay}, []string{"base", "overlay"}, MergeOptions{
		Match:   MatchName,
		OnMatch: OnMatchKeepBase,
	})
	require.NoError(t, err)
	require.Len(t, res.Graph.Nodes, 1)
	assert.Equal(t, "a", res.Graph.Nodes[0].ID)
}

func TestMergeGraphsOnUnmatchedAddToSubgraph(t *testing.T) {
	base := &Graph{}
	overlay := &Graph{Nodes: []Node{{ID: "extra"}}}

	res, err := MergeGraphs([]*Graph{base, overlay}, []string{"base", "overlay"}, MergeOptions{
		Match:       MatchID,
		OnUnmatched: OnUnmatchedAddToSubgraph,
	})
	require.NoError(t, err)
	require.Len(t, res.Graph.Nodes, 1)
	assert.Equal(t, "source:overlay", res.Graph.Nodes[0].Parent)

	var found bool
	for _, sg := range res.Graph.Subgraphs {
		if sg.ID == "source:overlay" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMergeGraphsOnUnmatchedIgnore(t *testing.T) {
	base := &Graph{}
	overlay := &Graph{Nodes: []Node{{ID: "extra"}}}

	res, err := MergeGraphs([]*Graph{base, overlay}, []string{"base", "overlay"}, MergeOptions{
		Match:       MatchID,
		OnUnmatched: OnUnmatchedIgnore,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Graph.Nodes)
	assert.Len(t, res.SkippedNodes, 1)
}

func TestMergeGraphsLinksFollowRemappedEndpoints(t *testing.T) {
	base := &Graph{
		Nodes: []Node{{ID: "core"}},
		Links: []Link{{ID: "l0", From: LinkEndpoint{Node: "core"}, To: LinkEndpoint{Node: "core"}}},
	}
	overlay := &Graph{
		Nodes: []Node{{ID: "core"}, {ID: "edge"}},
		Links: []Link{{ID: "l1", From: LinkEndpoint{Node: "core"}, To: LinkEndpoint{Node: "edge"}}},
	}

	res, err := MergeGraphs([]*Graph{base, overlay}, []string{"base", "overlay"}, MergeOptions{Legacy: LegacyPrefixSource})
	require.NoError(t, err)

	var remapped *Link
	for i := range res.Graph.Links {
		if res.Graph.Links[i].ID == "l1" {
			remapped = &res.Graph.Links[i]
		}
	}
	require.NotNil(t, remapped)
	assert.Equal(t, "overlay_core", remapped.From.Node)
	assert.Equal(t, "edge", remapped.To.Node)
}

func TestMergeGraphsEmptySources(t *testing.T) {
	res, err := MergeGraphs(nil, nil, MergeOptions{})
	require.NoError(t, err)
	assert.NotNil(t, res.Graph)
	assert.Empty(t, res.Graph.Nodes)
}

func TestScenarioF_MergeByName(t *testing.T) {
	base := &Graph{Nodes: []Node{{ID: "fw-a", Label: NewLabel("Firewall A")}}}
	overlay := &Graph{Nodes: []Node{{ID: "fw_primary", Label: NewLabel("Firewall A"), Metadata: map[string]string{"vendor": "cisco"}}}}

	res, err := MergeGraphs([]*Graph{base, overlay}, []string{"base", "overlay"}, MergeOptions{
		Match:   MatchName,
		OnMatch: OnMatchMergeProperties,
	})
	require.NoError(t, err)

	require.Len(t, res.Graph.Nodes, 1)
	merged := res.Graph.Nodes[0]
	assert.Equal(t, "fw-a", merged.ID)
	assert.Equal(t, "Firewall A", merged.Label.String())
	assert.Equal(t, "cisco", merged.Metadata["vendor"])
	assert.Equal(t, "fw-a", res.AppliedIDMappings["fw_primary"])
}

func TestMergeGraphsMatchedOverlayLinksRemap(t *testing.T) {
	base := &Graph{Nodes: []Node{{ID: "fw-a", Label: NewLabel("Firewall A")}}}
	overlay := &Graph{
		Nodes: []Node{
			{ID: "fw_primary", Label: NewLabel("Firewall A")},
			{ID: "edge", Label: NewLabel("Edge")},
		},
		Links: []Link{{ID: "l1", From: LinkEndpoint{Node: "fw_primary"}, To: LinkEndpoint{Node: "edge"}}},
	}

	res, err := MergeGraphs([]*Graph{base, overlay}, []string{"base", "overlay"}, MergeOptions{
		Match:   MatchName,
		OnMatch: OnMatchKeepBase,
	})
	require.NoError(t, err)

	require.Len(t, res.Graph.Links, 1)
	assert.Equal(t, "fw-a", res.Graph.Links[0].From.Node)
	assert.Equal(t, "edge", res.Graph.Links[0].To.Node)
	assert.Empty(t, res.SkippedLinks)
}
