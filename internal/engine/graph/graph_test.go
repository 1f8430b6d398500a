package graph

import (
	"reflect"
	"testing"
)

func TestGraph_AddVertexIsIdempotent(t *testing.T) {
	g := New(0)

	a := g.AddVertex("a")
	b := g.AddVertex("b")
	again := g.AddVertex("a")

	if a != again {
		t.Errorf("Expected same index for repeated vertex, got %d and %d", a, again)
	}
	if a == b {
		t.Error("Expected distinct indices for distinct vertices")
	}
	if g.VertexCount() != 2 {
		t.Errorf("Expected 2 vertices, got %d", g.VertexCount())
	}
}

func TestGraph_AddEdgeCreatesImplicitVertices(t *testing.T) {
	g := New(2)
	g.AddVertex("a")

	if !g.AddEdge("a", "ghost") {
		t.Fatal("Expected first edge to be new")
	}
	if !g.HasVertex("ghost") {
		t.Error("Expected edge endpoint to become a vertex")
	}
	if g.VertexCount() != 2 {
		t.Errorf("Expected 2 vertices, got %d", g.VertexCount())
	}
	if !g.HasEdge("a", "ghost") {
		t.Error("Expected edge a -> ghost")
	}
	if g.HasEdge("ghost", "a") {
		t.Error("Edges must be directed")
	}
}

func TestGraph_ParallelEdgesCollapse(t *testing.T) {
	g := New(0)

	if !g.AddEdge("a", "b") {
		t.Fatal("Expected first edge to be new")
	}
	if g.AddEdge("a", "b") {
		t.Error("Expected parallel edge to be reported as duplicate")
	}
	if g.EdgeCount() != 1 {
		t.Errorf("Expected 1 edge, got %d", g.EdgeCount())
	}
	if got := g.Successors("a"); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Unexpected successors: %v", got)
	}
}

func TestGraph_InsertionOrder(t *testing.T) {
	g := New(0)
	g.AddEdge("c", "a")
	g.AddEdge("c", "b")
	g.AddVertex("d")

	if got := g.Vertices(); !reflect.DeepEqual(got, []string{"c", "a", "b", "d"}) {
		t.Errorf("Unexpected vertex order: %v", got)
	}
	if got := g.Successors("c"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Unexpected successor order: %v", got)
	}
	if got := g.Successors("missing"); got != nil {
		t.Errorf("Expected nil successors for unknown vertex, got %v", got)
	}
}

func TestGraph_NegativeSizeHint(t *testing.T) {
	g := New(-5)
	g.AddEdge("x", "y")
	if g.VertexCount() != 2 {
		t.Errorf("Expected 2 vertices, got %d", g.VertexCount())
	}
}
