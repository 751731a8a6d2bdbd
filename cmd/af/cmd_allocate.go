package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/appforge/appforge/pkg/catalog"
	"github.com/appforge/appforge/pkg/ident"
)

func (a *app) cmdAllocate(args []string) int {
	flags := flag.NewFlagSet("allocate", flag.ContinueOnError)
	catalogURL := flags.String("catalog", "", "catalog repository URL")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	url, err := a.resolveCatalog(*catalogURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "af: allocate: %v\n", err)
		return 1
	}

	manifest := a.snap.Fetch(url)
	extractor := catalog.NewExtractor(a.cfg.Prefix)
	sequence := catalog.NextSequence(extractor.SequenceNumbers(manifest))
	suffixes := extractor.Suffixes(manifest)

	allocator := ident.NewAllocator(a.cfg.Prefix, a.cfg.BaseURL, a.generator())
	alloc := allocator.Allocate(sequence, suffixes)

	if *jsonOut {
		printJSON(alloc)
	} else {
		fmt.Println(alloc.ID)
	}
	return 0
}

func (a *app) cmdNext(args []string) int {
	flags := flag.NewFlagSet("next", flag.ContinueOnError)
	catalogURL := flags.String("catalog", "", "catalog repository URL")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	url, err := a.resolveCatalog(*catalogURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "af: next: %v\n", err)
		return 1
	}

	manifest := a.snap.Fetch(url)
	extractor := catalog.NewExtractor(a.cfg.Prefix)
	sequence := catalog.NextSequence(extractor.SequenceNumbers(manifest))

	if *jsonOut {
		printJSON(map[string]interface{}{
			"sequence": sequence,
			"number":   ident.FormatNumber(sequence),
		})
	} else {
		fmt.Println(ident.FormatNumber(sequence))
	}
	return 0
}
