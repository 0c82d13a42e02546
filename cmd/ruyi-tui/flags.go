// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports -C (workspace dir), --shell, --ruyi, --verbose, --version

package main

import "flag"

type cliArgs struct {
	dir     string
	shell   string
	ruyiBin string
	verbose bool
	version bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.StringVar(&args.dir, "C", "", "Workspace directory (default: current directory)")
	flag.StringVar(&args.shell, "shell", "", "POSIX shell for the venv session (default: /bin/sh)")
	flag.StringVar(&args.ruyiBin, "ruyi", "", "Path to the ruyi binary (default: ruyi on PATH)")
	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}
