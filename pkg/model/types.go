// Package model defines the core domain types for appforge.
//
// Appforge coordinates independent, non-communicating agent processes that
// each publish uniquely-identified artifacts ("apps") to a shared append-only
// catalog. Two ideas shape the model:
//
//   - Identifiers are allocated against an eventually-observed snapshot of
//     the catalog: a monotonically increasing sequence number derived from
//     the latest manifest, plus a random suffix checked for local collisions.
//     Duplicate allocation across agents is an accepted race, detected at
//     publish time, not prevented here.
//
//   - All durable bookkeeping (identity, completion ledger, session history)
//     is scoped to a single agent identity. Records written under a different
//     identity are invisible, never merged.
package model

import "time"

// DefaultPrefix is the artifact-id prefix used when no configuration
// overrides it. Full identifiers have the shape "app-001-ab12cd".
const DefaultPrefix = "app"

// SchemaVersion is stamped into every persisted document.
const SchemaVersion = "1.0.0"

// Allocation is the result of allocating a full artifact identifier.
// Immutable once returned; the catalog is the durable record of issued IDs.
type Allocation struct {
	Sequence   int    `json:"sequence"`
	Number     string `json:"number"` // zero-padded to width 3, widens past 999
	Suffix     string `json:"suffix"`
	ID         string `json:"appId"` // "<prefix>-<number>-<suffix>"
	FolderName string `json:"folderName"`
	URL        string `json:"url"`
}

// IdentityRecord is the persisted per-machine identity document.
type IdentityRecord struct {
	Identity      string    `json:"identity"`
	Created       time.Time `json:"created"`
	Hostname      string    `json:"hostname"`
	Username      string    `json:"username"`
	Platform      string    `json:"platform"`
	SchemaVersion string    `json:"schemaVersion"`
}

// CompletionRecord marks one artifact as completed by one agent.
type CompletionRecord struct {
	AppID       string    `json:"appId"`
	AppTitle    string    `json:"appTitle"`
	Identity    string    `json:"identity"`
	CompletedAt time.Time `json:"completedAt"`
}

// LedgerDocument is the persisted completion ledger. The Identity field is
// the scoping key: a ledger stored under a different identity reads as empty.
type LedgerDocument struct {
	Identity    string             `json:"identity"`
	Completed   []CompletionRecord `json:"completed"`
	LastUpdated time.Time          `json:"lastUpdated"`
}

// SessionStatus enumerates the session state machine. InProgress is the only
// non-terminal state; completion transitions to exactly one terminal state.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionSuccess    SessionStatus = "success"
	SessionError      SessionStatus = "error"
	SessionCancelled  SessionStatus = "cancelled"
)

// Terminal reports whether s is a terminal session status.
func (s SessionStatus) Terminal() bool {
	return s == SessionSuccess || s == SessionError || s == SessionCancelled
}

// LogEntry is one timestamped message attached to a session.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Readable  string    `json:"timestampReadable"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// SessionMetadata records where a session ran.
type SessionMetadata struct {
	Hostname string `json:"hostname"`
	Platform string `json:"platform"`
	Username string `json:"username"`
}

// Session is one bounded unit of work. Created in_progress, mutated exactly
// once on completion, appended-to freely for logs before that. Never deleted.
type Session struct {
	SessionID         string          `json:"sessionId"`
	AgentID           string          `json:"agentId"`
	StartTime         time.Time       `json:"startTime"`
	StartTimeReadable string          `json:"startTimeReadable"`
	EndTime           *time.Time      `json:"endTime"`
	EndTimeReadable   string          `json:"endTimeReadable,omitempty"`
	Duration          *int64          `json:"duration"` // whole seconds, nil while in progress
	Status            SessionStatus   `json:"status"`
	AppGenerated      bool            `json:"appGenerated"`
	AppID             string          `json:"appId,omitempty"`
	AppTitle          string          `json:"appTitle,omitempty"`
	Logs              []LogEntry      `json:"logs"`
	Errors            []LogEntry      `json:"errors"`
	Metadata          SessionMetadata `json:"metadata"`
}

// Statistics is the running aggregate over all sessions of one agent.
// TotalCompleted counts successful sessions only.
type Statistics struct {
	TotalSessions          int   `json:"totalSessions"`
	TotalCompleted         int   `json:"totalCompleted"`
	TotalWorkTimeSeconds   int64 `json:"totalWorkTimeSeconds"`
	AverageWorkTimeSeconds int64 `json:"averageWorkTimeSeconds"`
}

// SuccessRate returns completed/total as a percentage, 0 when no sessions.
func (s Statistics) SuccessRate() int {
	if s.TotalSessions == 0 {
		return 0
	}
	return int(float64(s.TotalCompleted)/float64(s.TotalSessions)*100 + 0.5)
}

// HistoryDocument is the persisted session history for one agent.
type HistoryDocument struct {
	SchemaVersion string     `json:"schemaVersion"`
	Created       time.Time  `json:"created"`
	Sessions      []Session  `json:"sessions"`
	Statistics    Statistics `json:"statistics"`
}

// NewHistoryDocument returns an empty history created at now.
func NewHistoryDocument(now time.Time) HistoryDocument {
	return HistoryDocument{
		SchemaVersion: SchemaVersion,
		Created:       now.UTC(),
		Sessions:      []Session{},
	}
}

// FindSession returns a pointer into doc.Sessions for sessionID, or nil.
func (d *HistoryDocument) FindSession(sessionID string) *Session {
	for i := range d.Sessions {
		if d.Sessions[i].SessionID == sessionID {
			return &d.Sessions[i]
		}
	}
	return nil
}
