package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/appforge/appforge/pkg/model"
)

func (a *app) cmdSession(args []string) int {
	flags := flag.NewFlagSet("session", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: af session start|complete|log|latest")
		return 1
	}

	tracker := a.tracker()
	switch flags.Arg(0) {
	case "start":
		identity, err := a.identityManager().GetOrCreate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "af: session start: %v\n", err)
			return 1
		}
		sessionID, err := tracker.StartSession(identity)
		if err != nil {
			fmt.Fprintf(os.Stderr, "af: session start: %v\n", err)
			return 1
		}
		if *jsonOut {
			printJSON(map[string]string{"sessionId": sessionID, "agentId": identity})
		} else {
			fmt.Println(sessionID)
		}
		return 0

	case "complete":
		if flags.NArg() < 3 {
			fmt.Fprintln(os.Stderr, "usage: af session complete <sessionId> <appId> [title] [status]")
			return 1
		}
		sessionID, appID := flags.Arg(1), flags.Arg(2)
		title := "Unknown App"
		if flags.NArg() > 3 {
			title = flags.Arg(3)
		}
		status := model.SessionSuccess
		if flags.NArg() > 4 {
			status = model.SessionStatus(flags.Arg(4))
			if !status.Terminal() {
				fmt.Fprintf(os.Stderr, "af: session complete: status must be success, error, or cancelled\n")
				return 1
			}
		}
		if err := tracker.CompleteSession(sessionID, appID, title, status); err != nil {
			fmt.Fprintf(os.Stderr, "af: session complete: %v\n", err)
			return 1
		}
		if *jsonOut {
			printJSON(map[string]string{"sessionId": sessionID, "status": string(status)})
		} else {
			fmt.Printf("session %s %s\n", sessionID, status)
		}
		return 0

	case "log":
		if flags.NArg() < 3 {
			fmt.Fprintln(os.Stderr, "usage: af session log <sessionId> <message> [level]")
			return 1
		}
		sessionID, message := flags.Arg(1), flags.Arg(2)
		level := "info"
		if flags.NArg() > 3 {
			level = flags.Arg(3)
		}
		if err := tracker.AddLog(sessionID, message, level); err != nil {
			fmt.Fprintf(os.Stderr, "af: session log: %v\n", err)
			return 1
		}
		if *jsonOut {
			printJSON(map[string]string{"sessionId": sessionID, "level": level})
		} else {
			fmt.Printf("logged to %s\n", sessionID)
		}
		return 0

	case "latest":
		latest := tracker.LatestSessionID()
		if *jsonOut {
			printJSON(map[string]string{"sessionId": latest})
		} else {
			fmt.Println(latest)
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "af: session: unknown subcommand %q\n", flags.Arg(0))
		return 1
	}
}
