package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Extractor scans manifest text for artifact-id tokens of the canonical
// shape "<prefix>-DDD-ssssss" (3 digits, 6 lowercase alphanumerics).
// Surrounding content and ordering are irrelevant; matching is
// case-insensitive and results are de-duplicated.
type Extractor struct {
	prefix  string
	pattern *regexp.Regexp
}

// NewExtractor builds an extractor for the given artifact-id prefix.
func NewExtractor(prefix string) *Extractor {
	return &Extractor{
		prefix:  prefix,
		pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(prefix) + `-(\d{3})-([a-z0-9]{6})`),
	}
}

// SequenceNumbers returns the sorted, de-duplicated sequence numbers found
// in text. An empty or unmatched manifest yields an empty slice, never an
// error.
func (e *Extractor) SequenceNumbers(text string) []int {
	seen := map[int]bool{}
	var numbers []int
	for _, m := range e.pattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// Suffixes returns the de-duplicated suffixes found in text, lowercased.
func (e *Extractor) Suffixes(text string) []string {
	seen := map[string]bool{}
	var suffixes []string
	for _, m := range e.pattern.FindAllStringSubmatch(text, -1) {
		s := strings.ToLower(m[2])
		if seen[s] {
			continue
		}
		seen[s] = true
		suffixes = append(suffixes, s)
	}
	return suffixes
}
