package state

import "github.com/appforge/appforge/pkg/model"

// Memory is an in-memory Store for tests. The Corrupt* flags make a
// subsequent load of that document report Corrupt, simulating an unparsable
// file without touching the filesystem.
type Memory struct {
	Identity *model.IdentityRecord
	Ledger   *model.LedgerDocument
	History  *model.HistoryDocument

	CorruptIdentity bool
	CorruptLedger   bool
	CorruptHistory  bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) LoadIdentity() (model.IdentityRecord, LoadState) {
	if m.CorruptIdentity {
		return model.IdentityRecord{}, Corrupt
	}
	if m.Identity == nil {
		return model.IdentityRecord{}, Absent
	}
	return *m.Identity, Present
}

func (m *Memory) SaveIdentity(rec model.IdentityRecord) error {
	m.Identity = &rec
	m.CorruptIdentity = false
	return nil
}

func (m *Memory) LoadLedger() (model.LedgerDocument, LoadState) {
	if m.CorruptLedger {
		return model.LedgerDocument{}, Corrupt
	}
	if m.Ledger == nil {
		return model.LedgerDocument{}, Absent
	}
	return *m.Ledger, Present
}

func (m *Memory) SaveLedger(doc model.LedgerDocument) error {
	m.Ledger = &doc
	m.CorruptLedger = false
	return nil
}

func (m *Memory) LoadHistory() (model.HistoryDocument, LoadState) {
	if m.CorruptHistory {
		return model.HistoryDocument{}, Corrupt
	}
	if m.History == nil {
		return model.HistoryDocument{}, Absent
	}
	return *m.History, Present
}

func (m *Memory) SaveHistory(doc model.HistoryDocument) error {
	m.History = &doc
	m.CorruptHistory = false
	return nil
}

func (m *Memory) Close() error { return nil }
