// Package graph holds the minimal directed graph used to check pipeline
// submissions for cycles. A Graph is built fresh for every check and thrown
// away afterwards, so it carries no locking.
package graph

// edgeKey identifies a directed edge by vertex indices.
type edgeKey struct {
	from int
	to   int
}

// Graph is an adjacency structure keyed by vertex identifier. Vertices and
// successor lists keep insertion order so traversals are deterministic.
type Graph struct {
	index map[string]int // vertex id -> position in ids
	ids   []string
	succ  [][]int // successor indices per vertex
	edges map[edgeKey]struct{}
}

func New(sizeHint int) *Graph {
	if sizeHint < 0 {
		sizeHint = 0
	}
	return &Graph{
		index: make(map[string]int, sizeHint),
		ids:   make([]string, 0, sizeHint),
		succ:  make([][]int, 0, sizeHint),
		edges: make(map[edgeKey]struct{}, sizeHint),
	}
}

// AddVertex registers id and returns its index. Adding an existing id is a
// no-op that returns the original index.
func (g *Graph) AddVertex(id string) int {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := len(g.ids)
	g.index[id] = idx
	g.ids = append(g.ids, id)
	g.succ = append(g.succ, nil)
	return idx
}

// AddEdge adds a directed edge from -> to, creating either endpoint if it is
// not yet a vertex. It reports whether the edge was new; parallel edges
// collapse into one.
func (g *Graph) AddEdge(from, to string) bool {
	src := g.AddVertex(from)
	dst := g.AddVertex(to)

	key := edgeKey{from: src, to: dst}
	if _, ok := g.edges[key]; ok {
		return false
	}
	g.edges[key] = struct{}{}
	g.succ[src] = append(g.succ[src], dst)
	return true
}

func (g *Graph) HasVertex(id string) bool {
	_, ok := g.index[id]
	return ok
}

func (g *Graph) HasEdge(from, to string) bool {
	src, ok := g.index[from]
	if !ok {
		return false
	}
	dst, ok := g.index[to]
	if !ok {
		return false
	}
	_, ok = g.edges[edgeKey{from: src, to: dst}]
	return ok
}

// VertexCount returns the number of unique vertices, including endpoints that
// were only ever seen on an edge.
func (g *Graph) VertexCount() int {
	return len(g.ids)
}

// EdgeCount returns the number of unique directed edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Vertices returns vertex identifiers in insertion order.
func (g *Graph) Vertices() []string {
	out := make([]string, len(g.ids))
	copy(out, g.ids)
	return out
}

// Successors returns the direct successors of id in insertion order.
func (g *Graph) Successors(id string) []string {
	idx, ok := g.index[id]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(g.succ[idx]))
	for _, next := range g.succ[idx] {
		out = append(out, g.ids[next])
	}
	return out
}
