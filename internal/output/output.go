// Package output renders a checked pipeline as DOT, Mermaid or TSV, with the
// edges of a detected cycle highlighted.
package output

import (
	"fmt"

	"pipecheck/internal/engine/pipeline"
)

const (
	FormatText    = "text"
	FormatDOT     = "dot"
	FormatMermaid = "mermaid"
	FormatTSV     = "tsv"
)

// Generator renders a pipeline together with an optional cycle witness.
type Generator interface {
	Generate(p pipeline.Pipeline, cycle []string) (string, error)
}

// ForFormat returns the generator for a graph format. "text" has no generator.
func ForFormat(format string) (Generator, error) {
	switch format {
	case FormatDOT:
		return NewDOTGenerator(), nil
	case FormatMermaid:
		return NewMermaidGenerator(), nil
	case FormatTSV:
		return NewTSVGenerator(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// vertex is a node id as drawn, in first-seen order.
type vertex struct {
	id       string
	kind     string
	implicit bool // only referenced by an edge
}

func collectVertices(p pipeline.Pipeline) []vertex {
	seen := make(map[string]bool, len(p.Nodes))
	out := make([]vertex, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, vertex{id: n.ID, kind: n.Type})
	}
	for _, e := range p.Edges {
		for _, id := range []string{e.Source, e.Target} {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, vertex{id: id, implicit: true})
		}
	}
	return out
}

// edgeKey identifies a directed edge by its endpoint ids.
type edgeKey struct {
	from string
	to   string
}

func keyOf(e pipeline.Edge) edgeKey {
	return edgeKey{from: e.Source, to: e.Target}
}

func cycleEdgeSet(cycle []string) map[edgeKey]bool {
	out := make(map[edgeKey]bool, len(cycle))
	for i := range cycle {
		out[edgeKey{from: cycle[i], to: cycle[(i+1)%len(cycle)]}] = true
	}
	return out
}

func cycleVertexSet(cycle []string) map[string]bool {
	out := make(map[string]bool, len(cycle))
	for _, id := range cycle {
		out[id] = true
	}
	return out
}
