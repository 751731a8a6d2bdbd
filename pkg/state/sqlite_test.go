package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appforge/appforge/pkg/model"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "appforge.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteConformance(t *testing.T) {
	conformance(t, func(t *testing.T) Store { return newTestSQLite(t) })
}

func TestSQLite_ReopenKeepsDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appforge.db")

	s, err := NewSQLite(path)
	require.NoError(t, err)
	rec := model.IdentityRecord{
		Identity:      "host-user-abc123-d4e5f6",
		Created:       time.Now().UTC(),
		Hostname:      "host",
		Username:      "user",
		Platform:      "linux",
		SchemaVersion: model.SchemaVersion,
	}
	require.NoError(t, s.SaveIdentity(rec))
	require.NoError(t, s.Close())

	s2, err := NewSQLite(path)
	require.NoError(t, err)
	defer s2.Close()

	got, st := s2.LoadIdentity()
	require.Equal(t, Present, st)
	assert.Equal(t, rec.Identity, got.Identity)
}

func TestSQLite_SessionOrderPreserved(t *testing.T) {
	s := newTestSQLite(t)

	doc := model.NewHistoryDocument(time.Now())
	for _, id := range []string{"session-1-aa", "session-2-bb", "session-3-cc"} {
		doc.Sessions = append(doc.Sessions, model.Session{
			SessionID: id,
			Status:    model.SessionInProgress,
			StartTime: time.Now().UTC(),
			Logs:      []model.LogEntry{},
			Errors:    []model.LogEntry{},
		})
	}
	require.NoError(t, s.SaveHistory(doc))

	got, st := s.LoadHistory()
	require.Equal(t, Present, st)
	require.Len(t, got.Sessions, 3)
	assert.Equal(t, "session-1-aa", got.Sessions[0].SessionID)
	assert.Equal(t, "session-3-cc", got.Sessions[2].SessionID)
}

func TestIsTransientSQLiteErr(t *testing.T) {
	assert.False(t, isTransientSQLiteErr(nil))
	assert.True(t, isTransientSQLiteErr(errFrom("database is locked (5) (SQLITE_BUSY)")))
	assert.False(t, isTransientSQLiteErr(errFrom("UNIQUE constraint failed")))
}

type errFrom string

func (e errFrom) Error() string { return string(e) }
