package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pipecheck/internal/api/openapi"
	"pipecheck/internal/engine/pipeline"
	"pipecheck/internal/output"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Width(8)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)
)

func runCheck(path, format string, stdout, stderr io.Writer, logger *slog.Logger) int {
	p, err := readPipeline(path)
	if err != nil {
		fmt.Fprintf(stderr, "invalid pipeline %s: %v\n", path, err)
		return exitFailure
	}

	checker := pipeline.NewChecker(logger)
	res, failure := checker.Evaluate(p)
	var cycle []string
	if !res.IsDAG && failure == nil {
		cycle = checker.Cycle(p)
	}
	if format == "" || format == output.FormatText {
		fmt.Fprint(stdout, renderCheck(path, res, cycle, failure))
	} else {
		gen, err := output.ForFormat(format)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return exitFailure
		}
		rendered, err := gen.Generate(p, cycle)
		if err != nil {
			fmt.Fprintf(stderr, "render %s: %v\n", format, err)
			return exitFailure
		}
		fmt.Fprint(stdout, rendered)
	}

	if res.IsDAG {
		return exitOK
	}
	return exitCyclic
}

func readPipeline(path string) (pipeline.Pipeline, error) {
	var p pipeline.Pipeline

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return p, err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return p, fmt.Errorf("JSON decode error: %w", err)
	}
	doc, err := openapi.Default()
	if err != nil {
		return p, err
	}
	if err := doc.ValidateBody(openapi.PipelineRequestSchema, raw); err != nil {
		return p, err
	}
	canonical, err := doc.CanonicalBody(openapi.PipelineRequestSchema, raw)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(canonical, &p); err != nil {
		return p, err
	}
	return p, nil
}

func renderCheck(path string, res pipeline.Result, cycle []string, failure error) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Pipeline check: "+path) + "\n")
	b.WriteString(labelStyle.Render("nodes") + fmt.Sprintf("%d\n", res.NumNodes))
	b.WriteString(labelStyle.Render("edges") + fmt.Sprintf("%d\n", res.NumEdges))

	switch {
	case res.IsDAG:
		b.WriteString(successStyle.Render("is a DAG") + "\n")
	case failure != nil:
		b.WriteString(cycleStyle.Render("not a DAG (check failed: "+failure.Error()+")") + "\n")
	case len(cycle) > 0:
		b.WriteString(cycleStyle.Render("not a DAG, cycle: "+strings.Join(append(cycle, cycle[0]), " -> ")) + "\n")
	default:
		b.WriteString(cycleStyle.Render("not a DAG") + "\n")
	}
	return b.String()
}
