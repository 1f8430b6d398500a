package output

import (
	"fmt"
	"strings"

	"pipecheck/internal/engine/pipeline"
)

type DOTGenerator struct{}

func NewDOTGenerator() *DOTGenerator {
	return &DOTGenerator{}
}

func (d *DOTGenerator) Generate(p pipeline.Pipeline, cycle []string) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph pipeline {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n\n")

	inCycle := cycleVertexSet(cycle)
	cycleEdges := cycleEdgeSet(cycle)

	for _, v := range collectVertices(p) {
		label := dotEscape(v.id)
		if v.kind != "" {
			label += "\\n(" + dotEscape(v.kind) + ")"
		}
		switch {
		case inCycle[v.id]:
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", fillcolor=\"mistyrose\", color=\"red\", style=\"rounded,filled\", penwidth=2.0];\n", dotEscape(v.id), label))
		case v.implicit:
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", color=\"grey\", style=\"rounded,dashed\"];\n", dotEscape(v.id), label))
		default:
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", color=\"darkslategrey\"];\n", dotEscape(v.id), label))
		}
	}
	buf.WriteString("\n")

	drawn := make(map[edgeKey]bool, len(p.Edges))
	for _, e := range p.Edges {
		key := keyOf(e)
		if drawn[key] {
			continue
		}
		drawn[key] = true
		if cycleEdges[key] {
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", dotEscape(e.Source), dotEscape(e.Target)))
		} else {
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"forestgreen\"];\n", dotEscape(e.Source), dotEscape(e.Target)))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// dotEscape makes s safe inside a double-quoted DOT id or label.
func dotEscape(s string) string {
	return dotEscaper.Replace(s)
}
