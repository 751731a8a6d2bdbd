package agent

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/appforge/appforge/pkg/model"
	"github.com/appforge/appforge/pkg/state"
)

// Ledger is the per-agent completion record. Reads are scoped to the current
// identity: a ledger stored under a different identity is treated as empty.
// Writes carry existing records forward and re-stamp the document under the
// current identity.
type Ledger struct {
	store    state.LedgerStore
	identity *Manager
	now      func() time.Time
}

// NewLedger returns a Ledger over store, scoped by identity.
func NewLedger(store state.LedgerStore, identity *Manager) *Ledger {
	return NewLedgerWith(store, identity, time.Now)
}

// NewLedgerWith injects the clock for tests.
func NewLedgerWith(store state.LedgerStore, identity *Manager, now func() time.Time) *Ledger {
	return &Ledger{store: store, identity: identity, now: now}
}

// MarkCompleted appends a completion record for appID under the current
// identity and rewrites the ledger document in full.
func (l *Ledger) MarkCompleted(appID, title string) error {
	identity, err := l.identity.GetOrCreate()
	if err != nil {
		return err
	}

	doc, st := l.store.LoadLedger()
	if st == state.Corrupt {
		logrus.Warn("agent: completion ledger unreadable, starting empty")
		doc = model.LedgerDocument{}
	}

	now := l.now().UTC()
	doc.Identity = identity
	doc.Completed = append(doc.Completed, model.CompletionRecord{
		AppID:       appID,
		AppTitle:    title,
		Identity:    identity,
		CompletedAt: now,
	})
	doc.LastUpdated = now
	return l.store.SaveLedger(doc)
}

// CompletedIDs returns the artifact IDs completed by the current agent.
// A ledger stored under a different identity, or an unreadable ledger,
// yields an empty list.
func (l *Ledger) CompletedIDs() ([]string, error) {
	identity, err := l.identity.GetOrCreate()
	if err != nil {
		return nil, err
	}

	doc, st := l.store.LoadLedger()
	switch st {
	case state.Absent:
		return nil, nil
	case state.Corrupt:
		logrus.Warn("agent: completion ledger unreadable, reporting no completions")
		return nil, nil
	}
	if doc.Identity != identity {
		// Records from a different agent identity are invisible, not merged.
		return nil, nil
	}

	ids := make([]string, 0, len(doc.Completed))
	for _, rec := range doc.Completed {
		ids = append(ids, rec.AppID)
	}
	return ids, nil
}

// IsCompleted reports whether appID was completed by the current agent.
func (l *Ledger) IsCompleted(appID string) (bool, error) {
	ids, err := l.CompletedIDs()
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == appID {
			return true, nil
		}
	}
	return false, nil
}
