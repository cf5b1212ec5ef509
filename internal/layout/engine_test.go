package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lspecian/netviz/internal/graph"
)

func chainGraph() *graph.Graph {
	return &graph.Graph{
		ID:   "chain",
		Name: "three node chain",
		Nodes: []graph.Node{
			{ID: "core", Label: graph.NewLabel("core")},
			{ID: "dist", Label: graph.NewLabel("dist")},
			{ID: "edge", Label: graph.NewLabel("edge")},
		},
		Links: []graph.Link{
			{ID: "l1", From: graph.LinkEndpoint{Node: "core"}, To: graph.LinkEndpoint{Node: "dist"}},
			{ID: "l2", From: graph.LinkEndpoint{Node: "dist"}, To: graph.LinkEndpoint{Node: "edge"}},
		},
	}
}

func TestEngineLayoutChain(t *testing.T) {
	e := NewEngine(Options{})
	result, err := e.Layout(context.Background(), chainGraph())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "layered", result.Metadata.Algorithm)
	assert.Len(t, result.Nodes, 3)
	assert.Len(t, result.Links, 2)
	assert.Empty(t, result.Diagnostics)

	core, dist, edge := result.Nodes["core"], result.Nodes["dist"], result.Nodes["edge"]
	require.NotNil(t, core)
	require.NotNil(t, dist)
	require.NotNil(t, edge)

	// TB layout: each child sits in a later rank than its source, so the
	// chain's Y coordinate strictly increases core -> dist -> edge.
	assert.Less(t, core.Position.Y, dist.Position.Y)
	assert.Less(t, dist.Position.Y, edge.Position.Y)

	for _, l := range result.Links {
		assert.GreaterOrEqual(t, len(l.Points), 2)
	}
}

func TestEngineLayoutDeterministic(t *testing.T) {
	e := NewEngine(Options{})
	g := chainGraph()

	r1, err := e.Layout(context.Background(), g)
	require.NoError(t, err)
	r2, err := e.Layout(context.Background(), g)
	require.NoError(t, err)

	for id, n1 := range r1.Nodes {
		n2 := r2.Nodes[id]
		require.NotNil(t, n2)
		assert.Equal(t, n1.Position, n2.Position)
	}
}

func TestEngineLayoutEmptyGraph(t *testing.T) {
	e := NewEngine(Options{})
	result, err := e.Layout(context.Background(), &graph.Graph{ID: "empty"})
	require.NoError(t, err)
	assert.Empty(t, result.Nodes)
	assert.Empty(t, result.Links)
	assert.Equal(t, Bounds{W: 400, H: 300}, result.Bounds)
}

func TestEngineLayoutNilGraph(t *testing.T) {
	e := NewEngine(Options{})
	_, err := e.Layout(context.Background(), nil)
	assert.Error(t, err)
}

func TestEngineLayoutHAPairUnwrapped(t *testing.T) {
	g := &graph.Graph{
		ID: "ha",
		Nodes: []graph.Node{
			{ID: "fw1", Label: graph.NewLabel("fw1")},
			{ID: "fw2", Label: graph.NewLabel("fw2")},
			{ID: "core", Label: graph.NewLabel("core")},
		},
		Links: []graph.Link{
			{ID: "ha-link", From: graph.LinkEndpoint{Node: "fw1"}, To: graph.LinkEndpoint{Node: "fw2"}, Redundancy: graph.RedundancyHA},
			{ID: "uplink", From: graph.LinkEndpoint{Node: "fw1"}, To: graph.LinkEndpoint{Node: "core"}},
		},
	}

	e := NewEngine(Options{})
	result, err := e.Layout(context.Background(), g)
	require.NoError(t, err)

	assert.Len(t, result.Nodes, 3)
	assert.Empty(t, result.Subgraphs)
	for id := range result.Subgraphs {
		assert.NotContains(t, id, "__ha_")
	}

	fw1, fw2 := result.Nodes["fw1"], result.Nodes["fw2"]
	require.NotNil(t, fw1)
	require.NotNil(t, fw2)
	assert.Less(t, fw1.Position.X, fw2.Position.X)
}

func TestEngineLayoutSubgraphBounds(t *testing.T) {
	g := &graph.Graph{
		ID: "nested",
		Subgraphs: []graph.Subgraph{
			{ID: "rack1", Label: graph.NewLabel("rack1")},
		},
		Nodes: []graph.Node{
			{ID: "sw1", Label: graph.NewLabel("sw1"), Parent: "rack1"},
			{ID: "sw2", Label: graph.NewLabel("sw2"), Parent: "rack1"},
		},
		Links: []graph.Link{
			{ID: "l1", From: graph.LinkEndpoint{Node: "sw1"}, To: graph.LinkEndpoint{Node: "sw2"}},
		},
	}

	e := NewEngine(Options{})
	result, err := e.Layout(context.Background(), g)
	require.NoError(t, err)

	rack, ok := result.Subgraphs["rack1"]
	require.True(t, ok)
	assert.Greater(t, rack.Bounds.W, 0.0)
	assert.Greater(t, rack.Bounds.H, 0.0)

	sw1, sw2 := result.Nodes["sw1"], result.Nodes["sw2"]
	require.NotNil(t, sw1)
	require.NotNil(t, sw2)
	// Both member nodes must fall within the subgraph's bounds.
	for _, n := range []*LayoutNode{sw1, sw2} {
		assert.GreaterOrEqual(t, n.Position.X-n.Size.W/2, rack.Bounds.X-1)
		assert.LessOrEqual(t, n.Position.X+n.Size.W/2, rack.Bounds.X+rack.Bounds.W+1)
	}
}

func TestEngineLayoutDanglingLinkDiagnostic(t *testing.T) {
	g := &graph.Graph{
		ID: "dangling",
		Nodes: []graph.Node{
			{ID: "only", Label: graph.NewLabel("only")},
		},
		Links: []graph.Link{
			{ID: "bad", From: graph.LinkEndpoint{Node: "only"}, To: graph.LinkEndpoint{Node: "missing"}},
		},
	}

	e := NewEngine(Options{})
	result, err := e.Layout(context.Background(), g)
	require.NoError(t, err)
	assert.Len(t, result.Nodes, 1)
	assert.Empty(t, result.Links)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, graph.DiagDanglingEndpoint, result.Diagnostics[0].Kind)
}

func TestEngineLayoutQuickReturnsImmediateGridResult(t *testing.T) {
	e := NewEngine(Options{})
	done := make(chan *Result, 1)
	quick, err := e.LayoutQuick(context.Background(), chainGraph(), func(r *Result, err error) {
		done <- r
	})
	require.NoError(t, err)
	assert.Equal(t, "fallback-grid", quick.Metadata.Algorithm)
	assert.Len(t, quick.Nodes, 3)

	final := <-done
	require.NotNil(t, final)
	assert.Equal(t, "layered", final.Metadata.Algorithm)
}

func TestEngineLayoutAsyncDeliversResult(t *testing.T) {
	e := NewEngine(Options{})
	ch, cancel := e.LayoutAsync(context.Background(), chainGraph())
	defer cancel()

	res := <-ch
	require.NoError(t, res.Err)
	require.NotNil(t, res.Result)
	assert.Len(t, res.Result.Nodes, 3)
}
