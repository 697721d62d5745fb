// Package main is the entry point for the deckard input-deck linter.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dshills/deckard"
	"github.com/dshills/deckard/internal/report"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	schemaPath    string
	secondaryPath string
	tabWidth      int
	withFormat    bool
	asJSON        bool
	logLevel      string
}

func run() int {
	opts, files := parseFlags()
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		flag.Usage()
		return 2
	}

	logger := report.NewLogger(report.LoggerConfig{
		Level:  report.ParseLogLevel(opts.logLevel),
		Output: os.Stderr,
		Prefix: "deckard",
	})

	eng, err := deckard.New(deckard.Config{
		SchemaPath:          opts.schemaPath,
		SecondarySchemaPath: opts.secondaryPath,
		TabWidth:            opts.tabWidth,
		Logger:              logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 2
	}

	ctx := context.Background()
	if opts.schemaPath != "" && !eng.SchemaReady(ctx) {
		logger.Warn("schema unavailable, structural checks only")
	}

	failed := false
	for _, path := range files {
		diags, err := lintFile(ctx, eng, path, opts.withFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		if len(diags) > 0 {
			failed = true
		}
		if err := printDiagnostics(path, diags, opts.asJSON); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
	}

	if failed {
		return 1
	}
	return 0
}

// lintFile runs the outline pass, plus the formatting pass when asked,
// and returns the combined diagnostics.
func lintFile(ctx context.Context, eng *deckard.Engine, path string, withFormat bool) ([]deckard.Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc := deckard.NewStringDocument(path, string(data))

	out, err := eng.Outline(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", path, err)
	}

	diags := out.Diagnostics
	if withFormat {
		diags = append(diags, eng.Format(doc)...)
	}
	return diags, nil
}

func printDiagnostics(path string, diags []deckard.Diagnostic, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			File        string               `json:"file"`
			Diagnostics []deckard.Diagnostic `json:"diagnostics"`
		}{File: path, Diagnostics: diags})
	}

	for _, d := range diags {
		fmt.Printf("%s:%d:%d: [%s] %s\n", path, d.Range.Start.Row+1, d.Range.Start.Col+1, d.Kind, d.Msg)
	}
	return nil
}

func parseFlags() (options, []string) {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.schemaPath, "schema", "", "Path to the application syntax dump")
	flag.StringVar(&opts.schemaPath, "s", "", "Path to the application syntax dump (shorthand)")
	flag.StringVar(&opts.secondaryPath, "schema-extra", "", "Path to the secondary syntax metadata")
	flag.IntVar(&opts.tabWidth, "tab", 2, "Indentation unit for the formatting pass")
	flag.BoolVar(&opts.withFormat, "format", false, "Include formatting diagnostics")
	flag.BoolVar(&opts.asJSON, "json", false, "Emit diagnostics as JSON")
	flag.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] file.i [file.i ...]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("deckard %s (commit %s, built %s)\n", version, commit, date)
		os.Exit(0)
	}

	return opts, flag.Args()
}
