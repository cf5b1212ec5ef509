package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lspecian/netviz/internal/graph"
)

// Two switches stacked top-to-bottom with one link between them: the link
// route collapses to a straight two-point vertical segment on the shared
// center x, and the rank gap equals the configured rank spacing.
func TestScenarioA_TwoSwitchTB(t *testing.T) {
	g := &graph.Graph{
		ID: "two-switch",
		Nodes: []graph.Node{
			{ID: "A", Label: graph.NewLabel("A")},
			{ID: "B", Label: graph.NewLabel("B")},
		},
		Links: []graph.Link{
			{ID: "l1", From: graph.LinkEndpoint{Node: "A"}, To: graph.LinkEndpoint{Node: "B"}},
		},
	}

	e := NewEngine(Options{})
	result, err := e.Layout(context.Background(), g)
	require.NoError(t, err)

	a, b := result.Nodes["A"], result.Nodes["B"]
	require.NotNil(t, a)
	require.NotNil(t, b)

	assert.Less(t, a.Position.Y, b.Position.Y)
	assert.InDelta(t, a.Position.X, b.Position.X, 0.01)
	assert.InDelta(t, a.Size.H+DefaultOptions().RankRankSpacing, b.Position.Y-a.Position.Y, 0.01)

	link := result.Links["l1"]
	require.NotNil(t, link)
	require.Len(t, link.Points, 2)
	assert.InDelta(t, a.Position.X, link.Points[0].X, 0.01)
	assert.InDelta(t, link.Points[0].X, link.Points[1].X, 0.01)
	assert.Greater(t, link.Points[0].Y, a.Position.Y)
	assert.Less(t, link.Points[1].Y, b.Position.Y)
}

// An HA pair shares its y coordinate under TB flow, the redundancy link
// defaults to the double rendering type, and the partners' facing ports sit
// on the right (left partner) and left (right partner) sides.
func TestScenarioB_HAPair(t *testing.T) {
	g := &graph.Graph{
		ID: "ha-pair",
		Nodes: []graph.Node{
			{ID: "fw-a", Label: graph.NewLabel("fw-a")},
			{ID: "fw-b", Label: graph.NewLabel("fw-b")},
			{ID: "core", Label: graph.NewLabel("core")},
		},
		Links: []graph.Link{
			{ID: "ha", From: graph.LinkEndpoint{Node: "fw-a"}, To: graph.LinkEndpoint{Node: "fw-b"}, Redundancy: graph.RedundancyHA},
			{ID: "up-a", From: graph.LinkEndpoint{Node: "fw-a"}, To: graph.LinkEndpoint{Node: "core"}},
			{ID: "up-b", From: graph.LinkEndpoint{Node: "fw-b"}, To: graph.LinkEndpoint{Node: "core"}},
		},
	}

	e := NewEngine(Options{})
	result, err := e.Layout(context.Background(), g)
	require.NoError(t, err)

	fwA, fwB := result.Nodes["fw-a"], result.Nodes["fw-b"]
	require.NotNil(t, fwA)
	require.NotNil(t, fwB)
	assert.InDelta(t, fwA.Position.Y, fwB.Position.Y, 0.01)
	assert.Less(t, fwA.Position.X, fwB.Position.X)

	haLink := result.Links["ha"]
	require.NotNil(t, haLink)
	assert.Equal(t, graph.LinkDouble, haLink.Source.EffectiveType())

	var rightPort, leftPort bool
	for _, p := range fwA.Ports {
		if p.Side == graph.SideRight {
			rightPort = true
		}
	}
	for _, p := range fwB.Ports {
		if p.Side == graph.SideLeft {
			leftPort = true
		}
	}
	assert.True(t, rightPort, "left partner should hold a right-side port")
	assert.True(t, leftPort, "right partner should hold a left-side port")
}

// Port slots distribute equally along a side, each port centered in its
// slot.
func TestPortSlotsEquallySpaced(t *testing.T) {
	plan := &portPlan{bySide: map[graph.Side][]portSlot{
		graph.SideBottom: {
			{portID: "p1"}, {portID: "p2"}, {portID: "p3"},
		},
	}}
	size := Size{W: 120, H: 60}
	m := DefaultMetrics()

	ports, order := BuildLayoutPorts(plan, size, m)
	require.Len(t, order, 3)

	xs := []float64{ports["p1"].Position.X, ports["p2"].Position.X, ports["p3"].Position.X}
	assert.InDelta(t, -40, xs[0], 0.01)
	assert.InDelta(t, 0, xs[1], 0.01)
	assert.InDelta(t, 40, xs[2], 0.01)
	for _, id := range order {
		assert.InDelta(t, size.H/2+m.PortExtent/2, ports[id].Position.Y, 0.01)
		assert.Equal(t, graph.SideBottom, ports[id].Side)
	}
}

// A long port label enlarges port spacing, which in turn grows the node
// width beyond what a short-labeled twin needs.
func TestPortSpacingGrowsWithLongPortLabels(t *testing.T) {
	build := func(portName string) *graph.Graph {
		return &graph.Graph{
			Nodes: []graph.Node{
				{ID: "sw", Label: graph.NewLabel("sw")},
				{ID: "p1", Label: graph.NewLabel("p1")},
				{ID: "p2", Label: graph.NewLabel("p2")},
			},
			Links: []graph.Link{
				{ID: "l1", From: graph.LinkEndpoint{Node: "sw", Port: portName + "1"}, To: graph.LinkEndpoint{Node: "p1"}},
				{ID: "l2", From: graph.LinkEndpoint{Node: "sw", Port: portName + "2"}, To: graph.LinkEndpoint{Node: "p2"}},
			},
		}
	}

	e := NewEngine(Options{})
	short, err := e.Layout(context.Background(), build("e"))
	require.NoError(t, err)
	long, err := e.Layout(context.Background(), build("TenGigabitEthernet1/0/"))
	require.NoError(t, err)

	assert.Greater(t, long.Nodes["sw"].Size.W, short.Nodes["sw"].Size.W)
}
