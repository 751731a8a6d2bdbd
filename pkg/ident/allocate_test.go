package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appforge/appforge/pkg/catalog"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "001", FormatNumber(1))
	assert.Equal(t, "042", FormatNumber(42))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1000", FormatNumber(1000), "numbers past 999 widen, never truncate")
}

func TestAllocate_Composition(t *testing.T) {
	a := NewAllocator("app", "https://example.github.io/published-apps", NewGenerator())
	alloc := a.Allocate(3, []string{"ab12cd", "xy98zz"})

	assert.Equal(t, 3, alloc.Sequence)
	assert.Equal(t, "003", alloc.Number)
	assert.Regexp(t, suffixShape, alloc.Suffix)
	assert.Equal(t, "app-003-"+alloc.Suffix, alloc.ID)
	assert.Equal(t, alloc.ID, alloc.FolderName)
	assert.Equal(t, "https://example.github.io/published-apps/"+alloc.ID+"/", alloc.URL)
}

func TestAllocate_EmptyBaseURL(t *testing.T) {
	a := NewAllocator("app", "", NewGenerator())
	assert.Empty(t, a.Allocate(1, nil).URL)
}

func TestAllocate_EndToEnd(t *testing.T) {
	manifest := "app-001-ab12cd something in between app-002-xy98zz"

	e := catalog.NewExtractor("app")
	seq := catalog.NextSequence(e.SequenceNumbers(manifest))
	require.Equal(t, 3, seq)

	a := NewAllocator("app", "", NewGenerator())
	alloc := a.Allocate(seq, e.Suffixes(manifest))

	assert.Regexp(t, `^app-003-[a-z2-9]{6}$`, alloc.ID)
	assert.NotEqual(t, "ab12cd", alloc.Suffix)
	assert.NotEqual(t, "xy98zz", alloc.Suffix)
}
