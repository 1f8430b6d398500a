package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pipecheck/internal/core/config"
	"pipecheck/internal/core/ports"
	"pipecheck/internal/data/audit"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)

// runAuditTail prints the newest audit records. A missing log is reported,
// not created.
func runAuditTail(cfg *config.Config, limit int, stdout, stderr io.Writer) int {
	if _, err := os.Stat(cfg.Audit.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(stdout, "no audit log at %s\n", cfg.Audit.Path)
			return exitOK
		}
		fmt.Fprintf(stderr, "open audit log: %v\n", err)
		return exitFailure
	}

	store, err := audit.Open(cfg.Audit.Path)
	if err != nil {
		fmt.Fprintf(stderr, "open audit log: %v\n", err)
		return exitFailure
	}
	defer store.Close()

	records, err := store.Recent(limit)
	if err != nil {
		fmt.Fprintf(stderr, "read audit log: %v\n", err)
		return exitFailure
	}
	fmt.Fprint(stdout, renderAudit(records))
	return exitOK
}

func renderAudit(records []ports.AuditRecord) string {
	if len(records) == 0 {
		return "no audit records\n"
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-30s %-36s %6s %6s %-8s %10s", "TIME", "REQUEST ID", "NODES", "EDGES", "VERDICT", "DURATION")) + "\n")
	for _, rec := range records {
		verdict := "cyclic"
		switch {
		case rec.FailSafe:
			verdict = "failsafe"
		case rec.IsDAG:
			verdict = "dag"
		}
		requestID := rec.RequestID
		if requestID == "" {
			requestID = "-"
		}
		b.WriteString(fmt.Sprintf("%-30s %-36s %6d %6d %-8s %10s\n",
			rec.Timestamp.UTC().Format(time.RFC3339Nano),
			requestID,
			rec.NumNodes,
			rec.NumEdges,
			verdict,
			rec.Duration.Round(time.Microsecond),
		))
	}
	return b.String()
}
