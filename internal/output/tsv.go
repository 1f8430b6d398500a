package output

import (
	"fmt"
	"strings"

	"pipecheck/internal/engine/pipeline"
)

type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

// Generate lists every submitted edge, duplicates included.
func (t *TSVGenerator) Generate(p pipeline.Pipeline, cycle []string) (string, error) {
	var buf strings.Builder

	buf.WriteString("ID\tSource\tTarget\tSourceHandle\tTargetHandle\tInCycle\n")

	cycleEdges := cycleEdgeSet(cycle)
	for _, e := range p.Edges {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%t\n",
			tsvEscape(e.ID), tsvEscape(e.Source), tsvEscape(e.Target),
			tsvEscape(e.SourceHandle), tsvEscape(e.TargetHandle),
			cycleEdges[keyOf(e)]))
	}

	return buf.String(), nil
}

var tsvEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

// tsvEscape keeps one field per column and one edge per line.
func tsvEscape(s string) string {
	return tsvEscaper.Replace(s)
}
