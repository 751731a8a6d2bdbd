package main

import (
	"flag"
	"fmt"
	"os"
)

func (a *app) cmdComplete(args []string) int {
	flags := flag.NewFlagSet("complete", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: af complete <appId> [title]")
		return 1
	}

	appID := flags.Arg(0)
	title := "Unknown App"
	if flags.NArg() > 1 {
		title = flags.Arg(1)
	}

	if err := a.ledger().MarkCompleted(appID, title); err != nil {
		fmt.Fprintf(os.Stderr, "af: complete: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]string{"appId": appID, "appTitle": title, "status": "completed"})
	} else {
		fmt.Printf("completed %s (%s)\n", appID, title)
	}
	return 0
}

func (a *app) cmdCheck(args []string) int {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: af check <appId>")
		return 1
	}

	appID := flags.Arg(0)
	completed, err := a.ledger().IsCompleted(appID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "af: check: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{"appId": appID, "completed": completed})
	} else if completed {
		fmt.Println("completed")
	} else {
		fmt.Println("not-completed")
	}
	return 0
}
