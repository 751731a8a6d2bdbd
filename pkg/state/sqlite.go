package state

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/appforge/appforge/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLite is an alternative durable Store keeping all three documents in one
// WAL-mode database. Each document still loads and saves as a whole, so the
// port semantics match the JSON file backend exactly; sessions are stored
// one row per session with the session body as JSON.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// NewSQLite opens (or creates) the database at path and initializes the
// schema.
func NewSQLite(path string) (*SQLite, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("state: open db: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("state: migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS identity (
		id             INTEGER PRIMARY KEY CHECK (id = 1),
		identity       TEXT NOT NULL,
		created        TEXT NOT NULL,
		hostname       TEXT NOT NULL,
		username       TEXT NOT NULL,
		platform       TEXT NOT NULL,
		schema_version TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ledger (
		id           INTEGER PRIMARY KEY CHECK (id = 1),
		identity     TEXT NOT NULL,
		last_updated TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS completions (
		seq          INTEGER PRIMARY KEY AUTOINCREMENT,
		app_id       TEXT NOT NULL,
		app_title    TEXT NOT NULL,
		identity     TEXT NOT NULL,
		completed_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS history (
		id                   INTEGER PRIMARY KEY CHECK (id = 1),
		schema_version       TEXT NOT NULL,
		created              TEXT NOT NULL,
		total_sessions       INTEGER NOT NULL,
		total_completed      INTEGER NOT NULL,
		total_work_seconds   INTEGER NOT NULL,
		average_work_seconds INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL UNIQUE,
		body       TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// --- Identity ---

func (s *SQLite) LoadIdentity() (model.IdentityRecord, LoadState) {
	var rec model.IdentityRecord
	var created string
	err := s.db.QueryRow(
		`SELECT identity, created, hostname, username, platform, schema_version
		 FROM identity WHERE id = 1`,
	).Scan(&rec.Identity, &created, &rec.Hostname, &rec.Username, &rec.Platform, &rec.SchemaVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return model.IdentityRecord{}, Absent
	}
	if err != nil {
		return model.IdentityRecord{}, Corrupt
	}
	if rec.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return model.IdentityRecord{}, Corrupt
	}
	return rec, Present
}

func (s *SQLite) SaveIdentity(rec model.IdentityRecord) error {
	return retrySQLite(func() error {
		_, err := s.db.Exec(
			`INSERT OR REPLACE INTO identity
			   (id, identity, created, hostname, username, platform, schema_version)
			 VALUES (1, ?, ?, ?, ?, ?, ?)`,
			rec.Identity, rec.Created.UTC().Format(time.RFC3339Nano),
			rec.Hostname, rec.Username, rec.Platform, rec.SchemaVersion,
		)
		return err
	})
}

// --- Ledger ---

func (s *SQLite) LoadLedger() (model.LedgerDocument, LoadState) {
	var doc model.LedgerDocument
	var updated string
	err := s.db.QueryRow(
		`SELECT identity, last_updated FROM ledger WHERE id = 1`,
	).Scan(&doc.Identity, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LedgerDocument{}, Absent
	}
	if err != nil {
		return model.LedgerDocument{}, Corrupt
	}
	if doc.LastUpdated, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return model.LedgerDocument{}, Corrupt
	}

	rows, err := s.db.Query(
		`SELECT app_id, app_title, identity, completed_at FROM completions ORDER BY seq`,
	)
	if err != nil {
		return model.LedgerDocument{}, Corrupt
	}
	defer rows.Close()
	for rows.Next() {
		var rec model.CompletionRecord
		var completed string
		if err := rows.Scan(&rec.AppID, &rec.AppTitle, &rec.Identity, &completed); err != nil {
			return model.LedgerDocument{}, Corrupt
		}
		if rec.CompletedAt, err = time.Parse(time.RFC3339Nano, completed); err != nil {
			return model.LedgerDocument{}, Corrupt
		}
		doc.Completed = append(doc.Completed, rec)
	}
	if rows.Err() != nil {
		return model.LedgerDocument{}, Corrupt
	}
	return doc, Present
}

func (s *SQLite) SaveLedger(doc model.LedgerDocument) error {
	return retrySQLite(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO ledger (id, identity, last_updated) VALUES (1, ?, ?)`,
			doc.Identity, doc.LastUpdated.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM completions`); err != nil {
			return err
		}
		for _, rec := range doc.Completed {
			if _, err := tx.Exec(
				`INSERT INTO completions (app_id, app_title, identity, completed_at)
				 VALUES (?, ?, ?, ?)`,
				rec.AppID, rec.AppTitle, rec.Identity,
				rec.CompletedAt.UTC().Format(time.RFC3339Nano),
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// --- History ---

func (s *SQLite) LoadHistory() (model.HistoryDocument, LoadState) {
	var doc model.HistoryDocument
	var created string
	err := s.db.QueryRow(
		`SELECT schema_version, created, total_sessions, total_completed,
		        total_work_seconds, average_work_seconds
		 FROM history WHERE id = 1`,
	).Scan(&doc.SchemaVersion, &created,
		&doc.Statistics.TotalSessions, &doc.Statistics.TotalCompleted,
		&doc.Statistics.TotalWorkTimeSeconds, &doc.Statistics.AverageWorkTimeSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return model.HistoryDocument{}, Absent
	}
	if err != nil {
		return model.HistoryDocument{}, Corrupt
	}
	if doc.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return model.HistoryDocument{}, Corrupt
	}

	rows, err := s.db.Query(`SELECT body FROM sessions ORDER BY seq`)
	if err != nil {
		return model.HistoryDocument{}, Corrupt
	}
	defer rows.Close()
	doc.Sessions = []model.Session{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return model.HistoryDocument{}, Corrupt
		}
		var sess model.Session
		if err := json.Unmarshal([]byte(body), &sess); err != nil {
			return model.HistoryDocument{}, Corrupt
		}
		doc.Sessions = append(doc.Sessions, sess)
	}
	if rows.Err() != nil {
		return model.HistoryDocument{}, Corrupt
	}
	return doc, Present
}

func (s *SQLite) SaveHistory(doc model.HistoryDocument) error {
	return retrySQLite(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO history
			   (id, schema_version, created, total_sessions, total_completed,
			    total_work_seconds, average_work_seconds)
			 VALUES (1, ?, ?, ?, ?, ?, ?)`,
			doc.SchemaVersion, doc.Created.UTC().Format(time.RFC3339Nano),
			doc.Statistics.TotalSessions, doc.Statistics.TotalCompleted,
			doc.Statistics.TotalWorkTimeSeconds, doc.Statistics.AverageWorkTimeSeconds,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
			return err
		}
		for _, sess := range doc.Sessions {
			body, err := json.Marshal(sess)
			if err != nil {
				return fmt.Errorf("encode session %s: %w", sess.SessionID, err)
			}
			if _, err := tx.Exec(
				`INSERT INTO sessions (session_id, body) VALUES (?, ?)`,
				sess.SessionID, string(body),
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}
