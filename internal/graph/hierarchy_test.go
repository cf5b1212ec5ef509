package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func threeLevelGraph() *Graph {
	return &Graph{
		Subgraphs: []Subgraph{
			{ID: "dc1"},
			{ID: "dc1/pod1", Parent: "dc1"},
			{ID: "dc1/pod2", Parent: "dc1"},
			{ID: "dc2"},
		},
	}
}

func TestBuildHierarchyParentFromDeclaredField(t *testing.T) {
	h := BuildHierarchy(threeLevelGraph())
	assert.Equal(t, "dc1", h.ParentOf("dc1/pod1"))
	assert.Equal(t, "", h.ParentOf("dc1"))
}

func TestBuildHierarchyParentFromSlashPrefix(t *testing.T) {
	g := &Graph{Subgraphs: []Subgraph{{ID: "dc1"}, {ID: "dc1/pod1"}}}
	h := BuildHierarchy(g)
	assert.Equal(t, "dc1", h.ParentOf("dc1/pod1"))
}

func TestHierarchyChildrenOrder(t *testing.T) {
	h := BuildHierarchy(threeLevelGraph())
	assert.Equal(t, []string{"dc1/pod1", "dc1/pod2"}, h.Children("dc1"))
}

func TestHierarchyIsDescendant(t *testing.T) {
	h := BuildHierarchy(threeLevelGraph())
	assert.True(t, h.IsDescendant("dc1/pod1", "dc1"))
	assert.True(t, h.IsDescendant("dc1/pod1", ""))
	assert.False(t, h.IsDescendant("dc1/pod1", "dc2"))
}

func TestHierarchyLCA(t *testing.T) {
	h := BuildHierarchy(threeLevelGraph())
	assert.Equal(t, "dc1", h.LCA("dc1/pod1", "dc1/pod2"))
	assert.Equal(t, "", h.LCA("dc1/pod1", "dc2"))
	assert.Equal(t, "dc1", h.LCA("dc1/pod1", "dc1"))
}

func TestHierarchyNodeParentResolvesExactMatch(t *testing.T) {
	h := BuildHierarchy(threeLevelGraph())
	parent, ok := h.NodeParent(Node{ID: "leaf", Parent: "dc1/pod1"})
	assert.True(t, ok)
	assert.Equal(t, "dc1/pod1", parent)
}

func TestHierarchyNodeParentResolvesTopLevelPrefix(t *testing.T) {
	h := BuildHierarchy(threeLevelGraph())
	parent, ok := h.NodeParent(Node{ID: "leaf", Parent: "dc1/pod1/rack1"})
	assert.True(t, ok)
	assert.Equal(t, "dc1", parent)
}

func TestHierarchyNodeParentUnresolvable(t *testing.T) {
	h := BuildHierarchy(threeLevelGraph())
	_, ok := h.NodeParent(Node{ID: "leaf", Parent: "ghost"})
	assert.False(t, ok)
}

func TestHierarchyNodeParentEmpty(t *testing.T) {
	h := BuildHierarchy(threeLevelGraph())
	parent, ok := h.NodeParent(Node{ID: "leaf"})
	assert.True(t, ok)
	assert.Equal(t, "", parent)
}

func TestTopLevel(t *testing.T) {
	assert.Equal(t, "dc1", TopLevel("dc1/pod1/rack1"))
	assert.Equal(t, "dc1", TopLevel("dc1"))
}
