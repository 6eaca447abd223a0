// Package main provides the CLI entrypoint for propaccess.
//
// propaccess loads Go packages statically and reports, for every property of
// the selected structs, whether the mapper reads and writes it through an
// accessor method or through the field:
//
//	propaccess check -pkg ./store -type Account
//	propaccess check -pkg ./store -config mapping.yaml -output json
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

const (
	ExitSuccess    = 0
	ExitFailure    = 1
	ExitUsageError = 2
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return ExitUsageError
	}

	switch args[0] {
	case "check":
		return runCheck(args[1:], stdout, stderr)
	case "version", "-version", "--version":
		printVersion(stdout)
		return ExitSuccess
	case "help", "-h", "-help", "--help":
		usage(stdout)
		return ExitSuccess
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return ExitUsageError
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "propaccess - report how mapped struct properties are accessed")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  propaccess check -pkg <pattern> [-type <Name>] [-config <file>] [-mode fields|accessors|both]")
	fmt.Fprintln(w, "  propaccess version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'propaccess check -h' for the flags of check.")
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "propaccess version %s\n", version)
	fmt.Fprintf(w, "commit: %s\n", commit)
	fmt.Fprintf(w, "built: %s\n", buildDate)
	fmt.Fprintf(w, "go version: %s\n", runtime.Version())
}
