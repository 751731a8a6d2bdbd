// Package ident generates artifact identifiers: cryptographically random
// fixed-length suffixes with local collision avoidance, composed with a
// catalog-derived sequence number into the full artifact id.
package ident

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Alphabet is the suffix character set. Visually ambiguous characters
// (0, 1, l, o) are excluded.
const Alphabet = "abcdefghijkmnpqrstuvwxyz23456789"

// SuffixLength is the fixed suffix length.
const SuffixLength = 6

// DefaultMaxAttempts bounds the uniqueness search in GenerateUnique.
const DefaultMaxAttempts = 100

// RandInt returns a uniform random value in [0, n). The production source is
// crypto/rand; tests inject deterministic sequences.
type RandInt func(n int) int

// CryptoRandInt is the production RandInt backed by crypto/rand.
func CryptoRandInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failing means the platform's entropy source is broken;
		// there is no weaker source this generator is allowed to fall back to.
		panic("ident: crypto/rand unavailable: " + err.Error())
	}
	return int(v.Int64())
}

// Generator produces suffixes from Alphabet. The zero value is not usable;
// construct with NewGenerator or NewGeneratorWith.
type Generator struct {
	randInt RandInt
	now     func() time.Time
}

// NewGenerator returns a Generator backed by crypto/rand and the wall clock.
func NewGenerator() *Generator {
	return NewGeneratorWith(CryptoRandInt, time.Now)
}

// NewGeneratorWith injects the randomness source and clock, so tests can
// force collisions and pin the timestamp fallback.
func NewGeneratorWith(randInt RandInt, now func() time.Time) *Generator {
	return &Generator{randInt: randInt, now: now}
}

// Generate draws one suffix, each character uniform over Alphabet.
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(SuffixLength)
	for i := 0; i < SuffixLength; i++ {
		b.WriteByte(Alphabet[g.randInt(len(Alphabet))])
	}
	return b.String()
}

// GenerateUnique draws candidates until one is absent from existing, up to
// maxAttempts (DefaultMaxAttempts when <= 0). On exhaustion it falls back to
// the last 6 characters of the base-36 current Unix-millisecond timestamp.
// The fallback is not alphabet-restricted and can itself collide in extreme
// adversarial cases; that is accepted, not eliminated.
func (g *Generator) GenerateUnique(existing []string, maxAttempts int) string {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[strings.ToLower(s)] = true
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate := g.Generate()
		if !taken[candidate] {
			logrus.Debugf("ident: suffix %s generated in %d attempt(s)", candidate, attempt)
			return candidate
		}
	}

	fallback := timestampSuffix(g.now())
	logrus.Warnf("ident: %d suffix attempts exhausted, using timestamp fallback %s",
		maxAttempts, fallback)
	return fallback
}

// Batch generates count suffixes that are unique among themselves.
func (g *Generator) Batch(count int) []string {
	batch := make([]string, 0, count)
	for i := 0; i < count; i++ {
		batch = append(batch, g.GenerateUnique(batch, DefaultMaxAttempts))
	}
	return batch
}

// Validate reports whether candidate is exactly SuffixLength characters,
// all from Alphabet. Case-insensitive.
func Validate(candidate string) bool {
	if len(candidate) != SuffixLength {
		return false
	}
	for _, r := range strings.ToLower(candidate) {
		if !strings.ContainsRune(Alphabet, r) {
			return false
		}
	}
	return true
}

func timestampSuffix(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	if len(ts) > SuffixLength {
		ts = ts[len(ts)-SuffixLength:]
	}
	return ts
}
