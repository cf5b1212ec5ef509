package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lspecian/netviz/internal/graph"
	"github.com/lspecian/netviz/internal/layout"
)

// A subgraph with two leaves uplinked to a root-level core yields a root
// sheet plus a child sheet where both crossing links collapse onto one
// stadium export connector labeled after the counterpart, and no child-sheet
// link points outside the child's node set.
func TestScenarioC_HierarchicalExport(t *testing.T) {
	g := &graph.Graph{
		ID: "dc",
		Subgraphs: []graph.Subgraph{
			{ID: "dc1", Label: graph.NewLabel("DC 1")},
		},
		Nodes: []graph.Node{
			{ID: "leaf1", Label: graph.NewLabel("leaf1"), Parent: "dc1"},
			{ID: "leaf2", Label: graph.NewLabel("leaf2"), Parent: "dc1"},
			{ID: "core", Label: graph.NewLabel("core")},
		},
		Links: []graph.Link{
			{ID: "u1", From: graph.LinkEndpoint{Node: "leaf1"}, To: graph.LinkEndpoint{Node: "core"}},
			{ID: "u2", From: graph.LinkEndpoint{Node: "leaf2"}, To: graph.LinkEndpoint{Node: "core"}},
		},
	}

	ctx := context.Background()
	engine := layout.NewEngine(layout.DefaultOptions())
	root, err := engine.Layout(ctx, g)
	require.NoError(t, err)

	sheetMap, err := BuildHierarchicalSheets(ctx, g, root, engine)
	require.NoError(t, err)
	require.Contains(t, sheetMap, "root")
	require.Contains(t, sheetMap, "dc1")

	child := sheetMap["dc1"].Graph

	var connectors []graph.Node
	nodeSet := make(map[string]bool)
	for _, n := range child.Nodes {
		nodeSet[n.ID] = true
		if IsExportID(n.ID) {
			connectors = append(connectors, n)
		}
	}
	require.Len(t, connectors, 1, "both crossings share one (direction, counterpart) group")
	assert.Equal(t, graph.ShapeStadium, connectors[0].Shape)
	assert.Equal(t, "core", connectors[0].Label.String())

	var exportLinks int
	for _, l := range child.Links {
		// No child-sheet link may reference a node outside the sheet.
		assert.True(t, nodeSet[l.From.Node], "link %s from %s escapes the sheet", l.ID, l.From.Node)
		assert.True(t, nodeSet[l.To.Node], "link %s to %s escapes the sheet", l.ID, l.To.Node)
		if IsExportID(l.ID) {
			exportLinks++
			assert.Equal(t, graph.LinkDashed, l.Type)
			assert.Equal(t, graph.ArrowForward, l.Arrow)
			assert.Equal(t, connectors[0].ID, l.To.Node)
		}
	}
	assert.Equal(t, 2, exportLinks, "one virtual link per crossing link")
}
