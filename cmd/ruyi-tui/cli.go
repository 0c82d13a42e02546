// ABOUTME: Non-interactive subcommands for scripting: scan, news, packages, venv create
// ABOUTME: Tabwriter output on stdout; shares the core services with the TUI

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ruyisdk/ruyi-tui/internal/config"
	"github.com/ruyisdk/ruyi-tui/internal/ruyi"
	"github.com/ruyisdk/ruyi-tui/internal/venv"
	"github.com/ruyisdk/ruyi-tui/internal/workspace"
)

// runCLI dispatches the scripting subcommands. Output goes to stdout in a
// stable, grep-friendly layout; the TUI is never started.
func runCLI(subcmd string, rest []string) error {
	root, err := workspace.Resolve("")
	if err != nil {
		return err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	switch subcmd {
	case "scan":
		return runScan(ctx, cfg, root)
	case "news":
		return runNews(ctx, cfg, root)
	case "packages":
		return runPackages(ctx, cfg, root)
	case "venv":
		return runVenvCreate(ctx, cfg, root, rest)
	default:
		return fmt.Errorf("unknown subcommand %q", subcmd)
	}
}

func runScan(ctx context.Context, cfg *config.Settings, root string) error {
	scanner := &venv.Scanner{ProbeLimit: cfg.ProbeLimit}
	infos, err := scanner.Scan(ctx, root)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPATH")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\n", info.Name, info.Path)
	}
	return w.Flush()
}

func runNews(ctx context.Context, cfg *config.Settings, root string) error {
	runner := ruyi.NewRunner(cfg.Ruyi, root)
	items, err := runner.NewsList(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREAD\tTITLE")
	for _, item := range items {
		read := "no"
		if item.Read {
			read = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", item.ID, read, item.Title)
	}
	return w.Flush()
}

func runPackages(ctx context.Context, cfg *config.Settings, root string) error {
	runner := ruyi.NewRunner(cfg.Ruyi, root)
	pkgs, err := runner.ListPackages(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PACKAGE\tVERSION\tINSTALLED")
	for _, p := range pkgs {
		for _, v := range p.Versions {
			installed := ""
			if v.Installed {
				installed = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.FullName(), v.Semver, installed)
		}
	}
	return w.Flush()
}

func runVenvCreate(ctx context.Context, cfg *config.Settings, root string, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: ruyi-tui venv <profile> <dir>")
	}
	runner := ruyi.NewRunner(cfg.Ruyi, root)
	if err := runner.VenvCreate(ctx, args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("created venv at %s\n", args[1])
	return nil
}
