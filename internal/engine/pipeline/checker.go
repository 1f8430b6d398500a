package pipeline

import (
	"fmt"
	"log/slog"

	"pipecheck/internal/engine/graph"
)

// Checker answers whether a pipeline forms a directed acyclic graph. It holds
// no per-request state and is safe for concurrent use.
type Checker struct {
	logger *slog.Logger
	// acyclic is swappable so tests can drive the fail-safe path.
	acyclic func(*graph.Graph) bool
}

func NewChecker(logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		logger:  logger,
		acyclic: acyclicWithWitness(logger),
	}
}

// Check counts the submitted nodes and edges and reports acyclicity. Counts
// are raw input lengths, duplicates included.
func (c *Checker) Check(p Pipeline) Result {
	res, _ := c.Evaluate(p)
	return res
}

// Evaluate is Check that also returns the failure swallowed by the fail-safe
// path. The Result is valid either way.
func (c *Checker) Evaluate(p Pipeline) (Result, error) {
	res := Result{
		NumNodes: len(p.Nodes),
		NumEdges: len(p.Edges),
	}
	var err error
	res.IsDAG, err = c.IsDAG(p.Nodes, p.Edges)
	return res, err
}

// IsDAG builds a graph from nodes and edges and checks it for cycles. Edge
// endpoints missing from nodes become implicit vertices. Any failure while
// building or walking the graph yields false; the returned error carries the
// swallowed failure for callers that want to count it.
func (c *Checker) IsDAG(nodes []Node, edges []Edge) (ok bool, failure error) {
	defer func() {
		if r := recover(); r != nil {
			failure = fmt.Errorf("cycle check aborted: %v", r)
			c.logger.Error("cycle check failed, reporting not a DAG",
				"error", failure, "nodes", len(nodes), "edges", len(edges))
			ok = false
		}
	}()

	return c.acyclic(buildGraph(nodes, edges)), nil
}

func buildGraph(nodes []Node, edges []Edge) *graph.Graph {
	g := graph.New(len(nodes))
	for _, n := range nodes {
		g.AddVertex(n.ID)
	}
	for _, e := range edges {
		g.AddEdge(e.Source, e.Target)
	}
	return g
}

func acyclicWithWitness(logger *slog.Logger) func(*graph.Graph) bool {
	return func(g *graph.Graph) bool {
		cycle := g.FindCycle()
		if cycle == nil {
			return true
		}
		logger.Debug("pipeline contains a cycle", "cycle", cycle, "vertices", g.VertexCount())
		return false
	}
}

// Cycle returns one directed cycle in p as an ordered list of node ids, or
// nil when p is acyclic.
func (c *Checker) Cycle(p Pipeline) []string {
	return buildGraph(p.Nodes, p.Edges).FindCycle()
}
