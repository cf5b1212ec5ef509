package netviz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lspecian/netviz/internal/graph"
	"github.com/lspecian/netviz/internal/layout"
)

func TestRenderArtifactFlatGraph(t *testing.T) {
	g := &graph.Graph{
		ID:   "flat",
		Name: "Flat",
		Nodes: []graph.Node{
			{ID: "a", Label: graph.NewLabel("a")},
			{ID: "b", Label: graph.NewLabel("b")},
		},
		Links: []graph.Link{
			{ID: "l1", From: graph.LinkEndpoint{Node: "a"}, To: graph.LinkEndpoint{Node: "b"}},
		},
	}

	artifact, err := RenderArtifact(context.Background(), g, RenderArtifactOptions{})
	require.NoError(t, err)

	assert.False(t, artifact.Hierarchical)
	assert.Equal(t, 2, artifact.NodeCount)
	assert.Equal(t, 1, artifact.EdgeCount)
	require.Contains(t, artifact.Sheets, "root")
	root := artifact.Sheets["root"]
	assert.Nil(t, root.ParentID)
	assert.NotEmpty(t, root.ViewBox)
	assert.True(t, strings.HasPrefix(root.SVG, "<svg"))
	assert.Len(t, artifact.Sheets, 1)
}

func TestRenderArtifactHierarchicalSheets(t *testing.T) {
	g := &graph.Graph{
		ID: "dc",
		Subgraphs: []graph.Subgraph{
			{ID: "dc1", Label: graph.NewLabel("DC 1")},
		},
		Nodes: []graph.Node{
			{ID: "leaf", Label: graph.NewLabel("leaf"), Parent: "dc1"},
			{ID: "core", Label: graph.NewLabel("core")},
		},
		Links: []graph.Link{
			{ID: "u1", From: graph.LinkEndpoint{Node: "leaf"}, To: graph.LinkEndpoint{Node: "core"}},
		},
	}

	artifact, err := RenderArtifact(context.Background(), g, RenderArtifactOptions{})
	require.NoError(t, err)

	assert.True(t, artifact.Hierarchical)
	assert.Equal(t, "root", artifact.RootSheetID)
	require.Contains(t, artifact.Sheets, "dc1")
	child := artifact.Sheets["dc1"]
	require.NotNil(t, child.ParentID)
	assert.Equal(t, "root", *child.ParentID)
	assert.Equal(t, "DC 1", child.Label)
	assert.True(t, strings.HasPrefix(child.SVG, "<svg"))
}

func TestLayoutNilGraphRejected(t *testing.T) {
	_, err := Layout(context.Background(), nil, layout.Options{})
	assert.Error(t, err)
}
