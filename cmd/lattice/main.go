// Package main provides the entry point for the lattice CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/latticeci/lattice/internal/cli"
	"github.com/latticeci/lattice/internal/signal"
)

// Build information set via ldflags.
var (
	version = "" //nolint:gochecknoglobals // Set at build time
	commit  = "" //nolint:gochecknoglobals // Set at build time
	date    = "" //nolint:gochecknoglobals // Set at build time
)

func main() {
	// SIGINT/SIGTERM cancel the run context, which cancels every
	// in-flight matrix cell at its next step boundary.
	h := signal.NewHandler(context.Background())
	defer h.Stop()

	info := cli.BuildInfo{Version: version, Commit: commit, Date: date}
	err := cli.Execute(h.Context(), info)

	if h.WasInterrupted() {
		fmt.Fprintln(os.Stderr, "interrupted, run canceled")
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCodeForError(err))
	}
}
