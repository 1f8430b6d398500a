package main

import (
	"flag"
	"fmt"
	"io"

	"pipecheck/internal/core/config"
	"pipecheck/internal/output"
)

const versionString = "1.0.0"

const (
	exitOK      = 0
	exitFailure = 1
	exitCyclic  = 2
)

type cliOptions struct {
	configPath string
	checkPath  string
	format     string
	auditTail  int
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("pipecheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", config.DefaultPath, "Path to config file")
	fs.StringVar(&opts.checkPath, "check", "", "Check a pipeline JSON file (\"-\" for stdin) and exit: 0 DAG, 2 cyclic")
	fs.StringVar(&opts.format, "format", output.FormatText, "Check output format: text, dot, mermaid, tsv")
	fs.IntVar(&opts.auditTail, "audit-tail", 0, "Print the N most recent audit records and exit")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}
	opts.args = fs.Args()

	if len(opts.args) > 1 {
		return cliOptions{}, fmt.Errorf("at most one pipeline file may be given, got %d", len(opts.args))
	}
	if len(opts.args) == 1 {
		if opts.checkPath != "" {
			return cliOptions{}, fmt.Errorf("-check and a positional pipeline file cannot be used together")
		}
		opts.checkPath = opts.args[0]
	}
	switch opts.format {
	case output.FormatText, output.FormatDOT, output.FormatMermaid, output.FormatTSV:
	default:
		return cliOptions{}, fmt.Errorf("unsupported -format %q", opts.format)
	}
	if opts.auditTail < 0 {
		return cliOptions{}, fmt.Errorf("-audit-tail must be >= 0")
	}
	if opts.auditTail > 0 && opts.checkPath != "" {
		return cliOptions{}, fmt.Errorf("-audit-tail and -check cannot be used together")
	}
	return opts, nil
}
