// Package state persists the three per-agent documents: identity record,
// completion ledger, and session history.
//
// Each document is loaded and saved as a whole (read-modify-write, no
// partial update). Loads report an explicit tri-state result so callers can
// distinguish a missing document from a corrupt one and apply their own
// degradation (corrupt == warn and regenerate) without recursion.
//
// Backends: Memory for tests, File (JSON documents, the interchange format)
// for production, and SQLite as an alternative durable backend.
package state

import "github.com/appforge/appforge/pkg/model"

// LoadState classifies the outcome of loading a persisted document.
type LoadState int

const (
	// Absent means no document has ever been stored.
	Absent LoadState = iota
	// Present means the document loaded cleanly.
	Present
	// Corrupt means a document exists but could not be parsed.
	Corrupt
)

// IdentityStore persists the agent identity record.
type IdentityStore interface {
	LoadIdentity() (model.IdentityRecord, LoadState)
	SaveIdentity(model.IdentityRecord) error
}

// LedgerStore persists the completion ledger document.
type LedgerStore interface {
	LoadLedger() (model.LedgerDocument, LoadState)
	SaveLedger(model.LedgerDocument) error
}

// HistoryStore persists the session history document.
type HistoryStore interface {
	LoadHistory() (model.HistoryDocument, LoadState)
	SaveHistory(model.HistoryDocument) error
}

// Store is the full persistence surface used by the CLI driver.
type Store interface {
	IdentityStore
	LedgerStore
	HistoryStore

	// Close releases any underlying resources.
	Close() error
}
