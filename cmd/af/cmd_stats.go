package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/appforge/appforge/pkg/model"
)

func (a *app) cmdStats(args []string) int {
	flags := flag.NewFlagSet("stats", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	stats := a.tracker().Statistics()
	if *jsonOut {
		printJSON(stats)
		return 0
	}
	fmt.Printf("sessions:       %d\n", stats.TotalSessions)
	fmt.Printf("completed:      %d\n", stats.TotalCompleted)
	fmt.Printf("total time:     %dm\n", stats.TotalWorkTimeSeconds/60)
	fmt.Printf("average time:   %dm\n", stats.AverageWorkTimeSeconds/60)
	fmt.Printf("success rate:   %d%%\n", stats.SuccessRate())
	return 0
}

func (a *app) cmdHistory(args []string) int {
	flags := flag.NewFlagSet("history", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	count := 5
	if flags.NArg() > 0 {
		n, err := strconv.Atoi(flags.Arg(0))
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "af: history: invalid count %q\n", flags.Arg(0))
			return 1
		}
		count = n
	}

	sessions := a.tracker().Recent(count)
	if *jsonOut {
		printJSON(sessions)
		return 0
	}
	for i, sess := range sessions {
		fmt.Printf("%d. %s %s (%s)\n", i+1, statusGlyph(sess.Status), sessionTitle(sess), sessionDuration(sess))
		fmt.Printf("   %s\n", sess.StartTimeReadable)
	}
	return 0
}

func statusGlyph(status model.SessionStatus) string {
	switch status {
	case model.SessionSuccess:
		return "ok"
	case model.SessionError:
		return "err"
	case model.SessionCancelled:
		return "cancelled"
	default:
		return "running"
	}
}

func sessionTitle(sess model.Session) string {
	if sess.AppTitle != "" {
		return sess.AppTitle
	}
	return "Unknown"
}

func sessionDuration(sess model.Session) string {
	if sess.Duration == nil {
		return "in progress"
	}
	return fmt.Sprintf("%dm", *sess.Duration/60)
}
