package main

import (
	"flag"
	"fmt"
	"os"
)

func (a *app) cmdIdentity(args []string) int {
	flags := flag.NewFlagSet("identity", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	sub := "get"
	if flags.NArg() > 0 {
		sub = flags.Arg(0)
	}

	switch sub {
	case "get":
		identity, err := a.identityManager().GetOrCreate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "af: identity: %v\n", err)
			return 1
		}
		if *jsonOut {
			printJSON(map[string]string{"identity": identity})
		} else {
			fmt.Println(identity)
		}
		return 0

	case "info":
		rec, err := a.identityManager().Info()
		if err != nil {
			fmt.Fprintf(os.Stderr, "af: identity: %v\n", err)
			return 1
		}
		completed, err := a.ledger().CompletedIDs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "af: identity: %v\n", err)
			return 1
		}

		if *jsonOut {
			printJSON(map[string]interface{}{
				"identity":  rec,
				"completed": completed,
			})
			return 0
		}
		fmt.Printf("identity:  %s\n", rec.Identity)
		fmt.Printf("hostname:  %s\n", rec.Hostname)
		fmt.Printf("username:  %s\n", rec.Username)
		fmt.Printf("platform:  %s\n", rec.Platform)
		fmt.Printf("created:   %s\n", rec.Created.Format("2006-01-02 15:04:05"))
		fmt.Printf("completed: %d\n", len(completed))
		for i, id := range completed {
			fmt.Printf("  %d. %s\n", i+1, id)
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "af: identity: unknown subcommand %q\n", sub)
		return 1
	}
}
