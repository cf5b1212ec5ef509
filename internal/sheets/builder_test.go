package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lspecian/netviz/internal/graph"
	"github.com/lspecian/netviz/internal/layout"
)

// twoSiteGraph builds a two-subgraph topology with one cross-site link:
// siteA/core -> siteB/core.
func twoSiteGraph() *graph.Graph {
	return &graph.Graph{
		ID: "two-site",
		Subgraphs: []graph.Subgraph{
			{ID: "siteA", Label: graph.NewLabel("Site A")},
			{ID: "siteB", Label: graph.NewLabel("Site B")},
		},
		Nodes: []graph.Node{
			{ID: "siteA/core", Label: graph.NewLabel("core-a"), Parent: "siteA"},
			{ID: "siteA/edge", Label: graph.NewLabel("edge-a"), Parent: "siteA"},
			{ID: "siteB/core", Label: graph.NewLabel("core-b"), Parent: "siteB"},
		},
		Links: []graph.Link{
			{ID: "intra", From: graph.LinkEndpoint{Node: "siteA/core"}, To: graph.LinkEndpoint{Node: "siteA/edge"}},
			{ID: "inter", From: graph.LinkEndpoint{Node: "siteA/core"}, To: graph.LinkEndpoint{Node: "siteB/core"}},
		},
	}
}

func TestBuildHierarchicalSheetsRootAndChildren(t *testing.T) {
	g := twoSiteGraph()
	engine := layout.NewEngine(layout.DefaultOptions())
	ctx := context.Background()

	root, err := engine.Layout(ctx, g)
	require.NoError(t, err)

	sheetMap, err := BuildHierarchicalSheets(ctx, g, root, engine)
	require.NoError(t, err)

	require.Contains(t, sheetMap, "root")
	assert.Same(t, g, sheetMap["root"].Graph)
	assert.Same(t, root, sheetMap["root"].Layout)

	require.Contains(t, sheetMap, "siteA")
	require.Contains(t, sheetMap, "siteB")
}

func TestBuildChildGraphStripsParentPrefix(t *testing.T) {
	g := twoSiteGraph()
	h := graph.BuildHierarchy(g)
	sg := g.Subgraphs[0]

	child := buildChildGraph(g, h, sg)

	var core, edge *graph.Node
	for i := range child.Nodes {
		switch child.Nodes[i].ID {
		case "core":
			core = &child.Nodes[i]
		case "edge":
			edge = &child.Nodes[i]
		}
	}
	require.NotNil(t, core)
	require.NotNil(t, edge)
	assert.Empty(t, core.Parent)
	assert.Empty(t, edge.Parent)
}

func TestBuildChildGraphSynthesizesExportConnector(t *testing.T) {
	g := twoSiteGraph()
	h := graph.BuildHierarchy(g)
	sg := g.Subgraphs[0]

	child := buildChildGraph(g, h, sg)

	var found bool
	for _, n := range child.Nodes {
		if IsExportID(n.ID) {
			found = true
			assert.Equal(t, graph.ShapeStadium, n.Shape)
			assert.Contains(t, n.Metadata, "export_counterpart_subgraph")
			assert.Equal(t, "siteB", n.Metadata["export_counterpart_subgraph"])
		}
	}
	assert.True(t, found, "expected a synthesized export connector node")

	var linkFound bool
	for _, l := range child.Links {
		if IsExportID(l.ID) {
			linkFound = true
			assert.Equal(t, graph.LinkDashed, l.Type)
			assert.Equal(t, graph.ArrowForward, l.Arrow)
		}
	}
	assert.True(t, linkFound, "expected a synthesized export connector link")

	for _, l := range child.Links {
		if l.ID == "intra" {
			assert.Equal(t, "core", l.From.Node)
			assert.Equal(t, "edge", l.To.Node)
		}
	}
}

func TestTopLevelSubgraphsOnlyUnparented(t *testing.T) {
	g := &graph.Graph{
		Subgraphs: []graph.Subgraph{
			{ID: "parent"},
			{ID: "parent/child", Parent: "parent"},
		},
	}
	h := graph.BuildHierarchy(g)
	top := topLevelSubgraphs(g, h)
	require.Len(t, top, 1)
	assert.Equal(t, "parent", top[0].ID)
}

func TestSanitizeKeyMapsEmptyToRoot(t *testing.T) {
	assert.Equal(t, "root", sanitizeKey(""))
	assert.Equal(t, "a_b", sanitizeKey("a/b"))
}
