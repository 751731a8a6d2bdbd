// Command af is the appforge CLI: artifact-id allocation against a shared
// catalog plus per-agent identity, completion, and session bookkeeping.
package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Println("af", version)
		return
	}

	a, err := newApp()
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	switch os.Args[1] {
	// Allocation
	case "allocate":
		os.Exit(a.cmdAllocate(os.Args[2:]))
	case "next":
		os.Exit(a.cmdNext(os.Args[2:]))
	case "suffix":
		os.Exit(a.cmdSuffix(os.Args[2:]))

	// Identity and ledger
	case "identity":
		os.Exit(a.cmdIdentity(os.Args[2:]))
	case "complete":
		os.Exit(a.cmdComplete(os.Args[2:]))
	case "check":
		os.Exit(a.cmdCheck(os.Args[2:]))

	// Sessions
	case "session":
		os.Exit(a.cmdSession(os.Args[2:]))
	case "stats":
		os.Exit(a.cmdStats(os.Args[2:]))
	case "history":
		os.Exit(a.cmdHistory(os.Args[2:]))

	default:
		fmt.Fprintf(os.Stderr, "af: unknown command %q\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Run 'af --help' for usage.")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`af: artifact-id allocation and agent session bookkeeping

Sequence numbers come from the latest catalog manifest snapshot; suffixes
are random with local collision checks. Identity, completions, and session
history persist per machine.

Usage:
  af <command> [flags]

Allocation:
  allocate [--catalog URL]      Fetch the manifest, allocate the next full id
  next [--catalog URL]          Next sequence number only (zero-padded)
  suffix generate               Generate one random suffix
  suffix batch <n>              Generate n mutually unique suffixes
  suffix validate <s>           Check a suffix against the alphabet

Identity:
  identity get                  Print the agent identity (created if needed)
  identity info                 Identity, host/user, completed artifacts

Completions:
  complete <appId> [title]      Record an artifact as completed
  check <appId>                 Print completed|not-completed

Sessions:
  session start                 Start a work session, print its id
  session complete <id> <appId> [title] [status]
  session log <id> <message> [level]
  session latest                Print the resumable/latest session id
  stats                         Aggregate session statistics
  history [n]                   Recent sessions, newest first

Environment:
  AF_CONFIG_DIR    Config/state directory (default ~/.appforge)
  AF_CATALOG_URL   Catalog repository URL (overrides config.yaml)
  AF_STORAGE       State backend: json (default) or sqlite
  AF_LOG_LEVEL     Log level (default warn)

All commands support --json for machine-readable output.

Exit codes:
  0  success
  1  error
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "af: "+format+"\n", args...)
	os.Exit(1)
}
