package ident

import (
	"fmt"
	"strings"

	"github.com/appforge/appforge/pkg/model"
)

// FormatNumber renders a sequence number zero-padded to width 3. Numbers
// past 999 widen the string rather than truncating or erroring.
func FormatNumber(n int) string {
	return fmt.Sprintf("%03d", n)
}

// Allocator composes a sequence number and a fresh unique suffix into a full
// artifact identifier plus its derived metadata. Pure string templating over
// the generator's output; no I/O.
type Allocator struct {
	Prefix  string
	BaseURL string

	gen *Generator
}

// NewAllocator builds an allocator for the given id prefix and public base
// URL. An empty baseURL yields allocations with an empty URL field.
func NewAllocator(prefix, baseURL string, gen *Generator) *Allocator {
	if prefix == "" {
		prefix = model.DefaultPrefix
	}
	return &Allocator{Prefix: prefix, BaseURL: baseURL, gen: gen}
}

// Allocate returns the full allocation for sequence, with a suffix that does
// not collide with existingSuffixes (subject to the generator's fallback).
func (a *Allocator) Allocate(sequence int, existingSuffixes []string) model.Allocation {
	number := FormatNumber(sequence)
	suffix := a.gen.GenerateUnique(existingSuffixes, DefaultMaxAttempts)
	id := fmt.Sprintf("%s-%s-%s", a.Prefix, number, suffix)

	alloc := model.Allocation{
		Sequence:   sequence,
		Number:     number,
		Suffix:     suffix,
		ID:         id,
		FolderName: id,
	}
	if a.BaseURL != "" {
		alloc.URL = strings.TrimRight(a.BaseURL, "/") + "/" + id + "/"
	}
	return alloc
}
