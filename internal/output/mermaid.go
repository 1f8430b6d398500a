package output

import (
	"fmt"
	"strings"
	"unicode"

	"pipecheck/internal/engine/pipeline"
)

type MermaidGenerator struct{}

func NewMermaidGenerator() *MermaidGenerator {
	return &MermaidGenerator{}
}

func (m *MermaidGenerator) Generate(p pipeline.Pipeline, cycle []string) (string, error) {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	vertices := collectVertices(p)
	names := make([]string, 0, len(vertices))
	for _, v := range vertices {
		names = append(names, v.id)
	}
	ids := makeMermaidIDs(names)
	inCycle := cycleVertexSet(cycle)
	cycleEdges := cycleEdgeSet(cycle)

	for _, v := range vertices {
		label := escapeMermaidLabel(v.id)
		if v.kind != "" {
			label += "<br/>" + escapeMermaidLabel(v.kind)
		}
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[v.id], label))
	}

	drawn := make(map[edgeKey]bool, len(p.Edges))
	linkIndex := 0
	cycleLinks := make([]string, 0, len(cycle))
	for _, e := range p.Edges {
		key := keyOf(e)
		if drawn[key] {
			continue
		}
		drawn[key] = true
		b.WriteString(fmt.Sprintf("  %s --> %s\n", ids[e.Source], ids[e.Target]))
		if cycleEdges[key] {
			cycleLinks = append(cycleLinks, fmt.Sprintf("%d", linkIndex))
		}
		linkIndex++
	}

	if len(inCycle) > 0 {
		b.WriteString("  classDef cycle fill:#ffe4e1,stroke:#dc2626,stroke-width:2px\n")
		cycleIDs := make([]string, 0, len(cycle))
		for _, name := range names {
			if inCycle[name] {
				cycleIDs = append(cycleIDs, ids[name])
			}
		}
		b.WriteString(fmt.Sprintf("  class %s cycle\n", strings.Join(cycleIDs, ",")))
	}
	if len(cycleLinks) > 0 {
		b.WriteString(fmt.Sprintf("  linkStyle %s stroke:#dc2626,stroke-width:3px\n", strings.Join(cycleLinks, ",")))
	}
	return b.String(), nil
}

func sanitizeMermaidID(name string) string {
	if name == "" {
		return "n"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		return "n_" + out
	}
	return out
}

func makeMermaidIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeMermaidID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeMermaidLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
