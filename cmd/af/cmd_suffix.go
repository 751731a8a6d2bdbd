package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/appforge/appforge/pkg/ident"
)

func (a *app) cmdSuffix(args []string) int {
	flags := flag.NewFlagSet("suffix", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: af suffix generate|batch <n>|validate <suffix>")
		return 1
	}

	gen := a.generator()
	switch flags.Arg(0) {
	case "generate":
		s := gen.Generate()
		if *jsonOut {
			printJSON(map[string]string{"suffix": s})
		} else {
			fmt.Println(s)
		}
		return 0

	case "batch":
		count := 10
		if flags.NArg() > 1 {
			n, err := strconv.Atoi(flags.Arg(1))
			if err != nil || n < 1 {
				fmt.Fprintf(os.Stderr, "af: suffix batch: invalid count %q\n", flags.Arg(1))
				return 1
			}
			count = n
		}
		batch := gen.Batch(count)
		if *jsonOut {
			printJSON(map[string]interface{}{"suffixes": batch})
		} else {
			for _, s := range batch {
				fmt.Println(s)
			}
		}
		return 0

	case "validate":
		if flags.NArg() < 2 {
			fmt.Fprintln(os.Stderr, "usage: af suffix validate <suffix>")
			return 1
		}
		candidate := flags.Arg(1)
		valid := ident.Validate(candidate)
		if *jsonOut {
			printJSON(map[string]interface{}{"suffix": candidate, "valid": valid})
		} else if valid {
			fmt.Println("valid")
		} else {
			fmt.Println("invalid")
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "af: suffix: unknown subcommand %q\n", flags.Arg(0))
		return 1
	}
}
