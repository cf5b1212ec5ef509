package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaf(id string, w, h float64) *Node {
	return &Node{ID: id, Width: w, Height: h}
}

func TestLayeredSolverRanksChainVertically(t *testing.T) {
	root := &Node{
		ID:       "",
		Children: []*Node{leaf("a", 80, 50), leaf("b", 80, 50), leaf("c", 80, 50)},
		Edges: []Edge{
			{ID: "e1", Source: PortRef{NodeID: "a"}, Target: PortRef{NodeID: "b"}},
			{ID: "e2", Source: PortRef{NodeID: "b"}, Target: PortRef{NodeID: "c"}},
		},
		Options: Options{Direction: "TB", NodeNodeSpacing: 40, RankRankSpacing: 80, ContainerPadding: 24},
	}

	resp, err := LayeredSolver{}.Solve(context.Background(), Request{Root: root})
	require.NoError(t, err)

	var a, b, c *Node
	for _, n := range resp.Root.Children {
		switch n.ID {
		case "a":
			a = n
		case "b":
			b = n
		case "c":
			c = n
		}
	}
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.NotNil(t, c)
	assert.Less(t, a.AbsY, b.AbsY)
	assert.Less(t, b.AbsY, c.AbsY)
}

func TestLayeredSolverHorizontalDirection(t *testing.T) {
	root := &Node{
		Children: []*Node{leaf("a", 80, 50), leaf("b", 80, 50)},
		Edges:    []Edge{{ID: "e1", Source: PortRef{NodeID: "a"}, Target: PortRef{NodeID: "b"}}},
		Options:  Options{Direction: "LR", NodeNodeSpacing: 40, RankRankSpacing: 80},
	}

	resp, err := LayeredSolver{}.Solve(context.Background(), Request{Root: root})
	require.NoError(t, err)

	a, b := resp.Root.Children[0], resp.Root.Children[1]
	assert.Less(t, a.AbsX, b.AbsX)
	assert.Equal(t, a.AbsY, b.AbsY)
}

func TestLayeredSolverPartitionHintForcesSharedLayer(t *testing.T) {
	r0, r1 := 0, 0
	n1, n2 := leaf("a", 80, 50), leaf("b", 80, 50)
	n1.Rank, n2.Rank = &r0, &r1
	root := &Node{
		Children: []*Node{n1, n2},
		// The DAG alone would put b one layer below a; the shared rank
		// value overrides it.
		Edges:   []Edge{{ID: "e1", Source: PortRef{NodeID: "a"}, Target: PortRef{NodeID: "b"}}},
		Options: Options{Direction: "TB", PartitionBy: "rank", NodeNodeSpacing: 40, RankRankSpacing: 80},
	}

	resp, err := LayeredSolver{}.Solve(context.Background(), Request{Root: root})
	require.NoError(t, err)

	a, b := resp.Root.Children[0], resp.Root.Children[1]
	assert.Equal(t, a.AbsY, b.AbsY, "nodes sharing a rank value share a layer")
}

func TestLayeredSolverCycleFallsBackToDeclarationOrder(t *testing.T) {
	root := &Node{
		Children: []*Node{leaf("a", 80, 50), leaf("b", 80, 50)},
		Edges: []Edge{
			{ID: "e1", Source: PortRef{NodeID: "a"}, Target: PortRef{NodeID: "b"}},
			{ID: "e2", Source: PortRef{NodeID: "b"}, Target: PortRef{NodeID: "a"}},
		},
		Options: Options{Direction: "TB"},
	}

	resp, err := LayeredSolver{}.Solve(context.Background(), Request{Root: root})
	require.NoError(t, err)
	// All rank 0: side by side in declaration order.
	assert.Equal(t, resp.Root.Children[0].AbsY, resp.Root.Children[1].AbsY)
	assert.Less(t, resp.Root.Children[0].AbsX, resp.Root.Children[1].AbsX)
}

func TestLayeredSolverRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LayeredSolver{}.Solve(ctx, Request{Root: leaf("a", 80, 50)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLayeredSolverResolvesPortEdgeSections(t *testing.T) {
	a := leaf("a", 80, 50)
	a.Ports = []Port{{ID: "p1", Width: 10, Height: 10, Side: SideBottom, X: 40, Y: 55}}
	b := leaf("b", 80, 50)
	b.Ports = []Port{{ID: "p2", Width: 10, Height: 10, Side: SideTop, X: 40, Y: -5}}
	root := &Node{
		Children: []*Node{a, b},
		Edges: []Edge{{
			ID:     "e1",
			Source: PortRef{NodeID: "a", PortID: "p1"},
			Target: PortRef{NodeID: "b", PortID: "p2"},
		}},
		Options: Options{Direction: "TB"},
	}

	resp, err := LayeredSolver{}.Solve(context.Background(), Request{Root: root})
	require.NoError(t, err)

	require.Len(t, resp.Root.Edges, 1)
	sections := resp.Root.Edges[0].Sections
	require.Len(t, sections, 1)
	assert.Equal(t, a.AbsX+40, sections[0].StartX)
	assert.Equal(t, a.AbsY+55, sections[0].StartY)
	assert.Equal(t, b.AbsX+40, sections[0].EndX)
	assert.Equal(t, b.AbsY-5, sections[0].EndY)
}

func TestGridSolverPlacesInRows(t *testing.T) {
	root := &Node{Children: []*Node{
		leaf("a", 80, 50), leaf("b", 80, 50), leaf("c", 80, 50),
		leaf("d", 80, 50), leaf("e", 80, 50),
	}}

	resp, err := GridSolver{Columns: 4}.Solve(context.Background(), Request{Root: root})
	require.NoError(t, err)

	first, fifth := resp.Root.Children[0], resp.Root.Children[4]
	assert.Equal(t, first.AbsX, fifth.AbsX, "fifth node wraps to a new row under the first")
	assert.Greater(t, fifth.AbsY, first.AbsY)
}

func TestGridSolverSizesContainersFromChildren(t *testing.T) {
	inner := &Node{ID: "group", Children: []*Node{leaf("a", 80, 50), leaf("b", 80, 50)}}
	root := &Node{Children: []*Node{inner, leaf("c", 80, 50)}}

	resp, err := GridSolver{}.Solve(context.Background(), Request{Root: root})
	require.NoError(t, err)

	group := resp.Root.Children[0]
	assert.Greater(t, group.Width, 80.0, "container spans both grid-placed children")
	assert.Equal(t, 50.0, group.Height)

	c := resp.Root.Children[1]
	assert.GreaterOrEqual(t, c.AbsX, group.AbsX+group.Width, "sibling placed clear of the sized container")
}

func TestGridSolverNilRoot(t *testing.T) {
	resp, err := GridSolver{}.Solve(context.Background(), Request{})
	require.NoError(t, err)
	assert.Nil(t, resp.Root)
}
