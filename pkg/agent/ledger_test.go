package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appforge/appforge/pkg/state"
)

func newTestLedger(t *testing.T) (*Ledger, *state.Memory) {
	t.Helper()
	store := state.NewMemory()
	return NewLedger(store, NewManager(store)), store
}

func TestMarkCompleted_RoundTrip(t *testing.T) {
	l, _ := newTestLedger(t)

	require.NoError(t, l.MarkCompleted("app-001-ab12cd", "First App"))
	require.NoError(t, l.MarkCompleted("app-002-xy98zz", "Second App"))

	ids, err := l.CompletedIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"app-001-ab12cd", "app-002-xy98zz"}, ids)

	done, err := l.IsCompleted("app-001-ab12cd")
	require.NoError(t, err)
	assert.True(t, done)

	done, err = l.IsCompleted("app-099-zzzzzz")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestCompletedIDs_EmptyWithoutLedger(t *testing.T) {
	l, _ := newTestLedger(t)
	ids, err := l.CompletedIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCompletedIDs_ScopedByIdentity(t *testing.T) {
	l, store := newTestLedger(t)
	require.NoError(t, l.MarkCompleted("app-001-ab12cd", "First App"))

	// Re-stamp the stored ledger under a different agent identity, as if the
	// files were copied from another machine. No migration happens.
	store.Ledger.Identity = "otherhost-bob-zz9999-aabbcc"

	ids, err := l.CompletedIDs()
	require.NoError(t, err)
	assert.Empty(t, ids, "foreign-identity records must be invisible")

	done, err := l.IsCompleted("app-001-ab12cd")
	require.NoError(t, err)
	assert.False(t, done)
}

func TestMarkCompleted_ReclaimsForeignLedger(t *testing.T) {
	l, store := newTestLedger(t)
	require.NoError(t, l.MarkCompleted("app-001-ab12cd", "First App"))
	store.Ledger.Identity = "otherhost-bob-zz9999-aabbcc"

	// Writing re-stamps the document under the current identity; prior
	// records are carried forward, not dropped.
	require.NoError(t, l.MarkCompleted("app-002-xy98zz", "Second App"))

	ids, err := l.CompletedIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"app-001-ab12cd", "app-002-xy98zz"}, ids)
}

func TestCompletedIDs_CorruptLedgerReadsEmpty(t *testing.T) {
	l, store := newTestLedger(t)
	require.NoError(t, l.MarkCompleted("app-001-ab12cd", "First App"))
	store.CorruptLedger = true

	ids, err := l.CompletedIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}
