// ABOUTME: CLI entry point for ruyi-tui
// ABOUTME: Parses flags, loads config, builds the core services, dispatches to TUI or subcommand

package main

import (
	"fmt"
	"os"

	"github.com/ruyisdk/ruyi-tui/internal/config"
	rlog "github.com/ruyisdk/ruyi-tui/internal/log"
	"github.com/ruyisdk/ruyi-tui/internal/ruyi"
	"github.com/ruyisdk/ruyi-tui/internal/ui"
	"github.com/ruyisdk/ruyi-tui/internal/venv"
	"github.com/ruyisdk/ruyi-tui/internal/workspace"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	// Intercept scripting subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "scan", "news", "packages", "venv":
			if err := runCLI(os.Args[1], os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}
			os.Exit(0)
		}
	}

	args := parseFlags()

	if args.version {
		fmt.Printf("ruyi-tui %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run performs the full initialization sequence and starts the TUI.
func run(args cliArgs) error {
	if args.verbose {
		rlog.SetLevel(rlog.LevelDebug)
	}

	root, err := workspace.Resolve(args.dir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if args.shell != "" {
		cfg.Shell = args.shell
	}
	if args.ruyiBin != "" {
		cfg.Ruyi = args.ruyiBin
	}
	if cfg.Verbose {
		rlog.SetLevel(rlog.LevelDebug)
	}

	deps := ui.Deps{
		Root:     root,
		Settings: cfg,
		Store:    venv.NewStateStore(root),
		Scanner:  &venv.Scanner{ProbeLimit: cfg.ProbeLimit},
		Runner:   ruyi.NewRunner(cfg.Ruyi, root),
	}
	return ui.Run(deps)
}
