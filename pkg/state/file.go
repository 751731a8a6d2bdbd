package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/appforge/appforge/pkg/model"
)

// Document file names inside the agent's config directory. One set per
// machine; concurrent agents use physically separate directories, so these
// files need no cross-process locking.
const (
	identityFile = "agent-id.json"
	ledgerFile   = "completed-apps.json"
	historyFile  = "work-history.json"
)

// File is the production Store: one pretty-printed JSON document per file
// under a config directory (default ~/.appforge). Every save rewrites the
// whole document.
type File struct {
	dir string
}

var _ Store = (*File)(nil)

// NewFile returns a file-backed store rooted at dir, creating dir if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("state: create config dir %s: %w", dir, err)
	}
	return &File{dir: dir}, nil
}

// Dir returns the config directory this store writes to.
func (f *File) Dir() string { return f.dir }

func (f *File) LoadIdentity() (model.IdentityRecord, LoadState) {
	var rec model.IdentityRecord
	return rec, loadJSON(filepath.Join(f.dir, identityFile), &rec)
}

func (f *File) SaveIdentity(rec model.IdentityRecord) error {
	return saveJSON(filepath.Join(f.dir, identityFile), rec)
}

func (f *File) LoadLedger() (model.LedgerDocument, LoadState) {
	var doc model.LedgerDocument
	return doc, loadJSON(filepath.Join(f.dir, ledgerFile), &doc)
}

func (f *File) SaveLedger(doc model.LedgerDocument) error {
	return saveJSON(filepath.Join(f.dir, ledgerFile), doc)
}

func (f *File) LoadHistory() (model.HistoryDocument, LoadState) {
	var doc model.HistoryDocument
	return doc, loadJSON(filepath.Join(f.dir, historyFile), &doc)
}

func (f *File) SaveHistory(doc model.HistoryDocument) error {
	return saveJSON(filepath.Join(f.dir, historyFile), doc)
}

func (f *File) Close() error { return nil }

func loadJSON(path string, v interface{}) LoadState {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Absent
	}
	if err != nil {
		return Corrupt
	}
	if err := json.Unmarshal(data, v); err != nil {
		return Corrupt
	}
	return Present
}

func saveJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("state: encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("state: write %s: %w", filepath.Base(path), err)
	}
	return nil
}
