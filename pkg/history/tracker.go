// Package history tracks work sessions and their aggregate statistics for
// one agent.
//
// Sessions follow a small state machine: in_progress is the only initial
// state, and completion moves a session to exactly one of success, error, or
// cancelled. Terminal sessions are never mutated again. History accumulates;
// sessions are never deleted.
//
// Every mutating call is a full read-modify-write of the persisted history
// document. There is no batching and no cross-store transaction: a crash
// between completing a session and marking the ledger leaves a gap that is
// reconciled by re-running, not prevented here.
package history

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/appforge/appforge/pkg/model"
	"github.com/appforge/appforge/pkg/state"
)

// NoSession is the sentinel returned by LatestSessionID for empty history.
const NoSession = "no-session"

// readableLayout renders local-time timestamps for humans next to the ISO
// ones used programmatically.
const readableLayout = "2006-01-02 15:04:05"

// Tracker records sessions into a HistoryStore.
type Tracker struct {
	store state.HistoryStore
	now   func() time.Time
	token func() string
}

// NewTracker returns a Tracker using the wall clock and random session
// tokens.
func NewTracker(store state.HistoryStore) *Tracker {
	return NewTrackerWith(store, time.Now, randomToken)
}

// NewTrackerWith injects the clock and session-token source for tests.
func NewTrackerWith(store state.HistoryStore, now func() time.Time, token func() string) *Tracker {
	return &Tracker{store: store, now: now, token: token}
}

func randomToken() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// load resolves the persisted history into a usable document. Corrupt
// documents are logged and replaced by a fresh one; there is no re-read.
func (t *Tracker) load() model.HistoryDocument {
	doc, st := t.store.LoadHistory()
	switch st {
	case state.Present:
		return doc
	case state.Corrupt:
		logrus.Warn("history: document unreadable, starting a fresh history")
	}
	return model.NewHistoryDocument(t.now())
}

// StartSession opens a new in_progress session for agentID, persists it, and
// returns the session ID.
func (t *Tracker) StartSession(agentID string) (string, error) {
	doc := t.load()
	now := t.now()
	sessionID := fmt.Sprintf("session-%d-%s", now.UnixMilli(), t.token())

	hostname, _ := os.Hostname()
	doc.Sessions = append(doc.Sessions, model.Session{
		SessionID:         sessionID,
		AgentID:           agentID,
		StartTime:         now.UTC(),
		StartTimeReadable: now.Format(readableLayout),
		Status:            model.SessionInProgress,
		Logs:              []model.LogEntry{},
		Errors:            []model.LogEntry{},
		Metadata: model.SessionMetadata{
			Hostname: hostname,
			Platform: runtime.GOOS,
			Username: currentUsername(),
		},
	})
	doc.Statistics.TotalSessions++

	if err := t.store.SaveHistory(doc); err != nil {
		return "", fmt.Errorf("history: persist session start: %w", err)
	}
	return sessionID, nil
}

// CompleteSession moves sessionID to a terminal status and updates the
// aggregate statistics. An unknown session ID or a non-terminal target
// status is a logged no-op, not a failure; a session already in a terminal
// state is never transitioned again.
func (t *Tracker) CompleteSession(sessionID, appID, appTitle string, status model.SessionStatus) error {
	if !status.Terminal() {
		logrus.Warnf("history: %q is not a terminal status, ignoring completion", status)
		return nil
	}

	doc := t.load()
	sess := doc.FindSession(sessionID)
	if sess == nil {
		logrus.Warnf("history: session %s not found, ignoring completion", sessionID)
		return nil
	}
	if sess.Status.Terminal() {
		logrus.Warnf("history: session %s already %s, ignoring completion", sessionID, sess.Status)
		return nil
	}

	now := t.now()
	end := now.UTC()
	duration := int64(now.Sub(sess.StartTime).Seconds() + 0.5)

	sess.EndTime = &end
	sess.EndTimeReadable = now.Format(readableLayout)
	sess.Duration = &duration
	sess.Status = status
	sess.AppGenerated = status == model.SessionSuccess
	sess.AppID = appID
	sess.AppTitle = appTitle

	doc.Statistics.TotalWorkTimeSeconds += duration
	if status == model.SessionSuccess {
		doc.Statistics.TotalCompleted++
	}
	doc.Statistics.AverageWorkTimeSeconds = averageDuration(doc.Sessions)

	if err := t.store.SaveHistory(doc); err != nil {
		return fmt.Errorf("history: persist session completion: %w", err)
	}
	return nil
}

// AddLog appends a timestamped entry to the session's log list, or to its
// error list when level is "error". Unknown sessions are a logged no-op.
// Each call persists immediately.
func (t *Tracker) AddLog(sessionID, message, level string) error {
	if level == "" {
		level = "info"
	}

	doc := t.load()
	sess := doc.FindSession(sessionID)
	if sess == nil {
		logrus.Warnf("history: session %s not found, dropping log entry", sessionID)
		return nil
	}

	now := t.now()
	entry := model.LogEntry{
		Timestamp: now.UTC(),
		Readable:  now.Format(readableLayout),
		Level:     level,
		Message:   message,
	}
	if level == "error" {
		sess.Errors = append(sess.Errors, entry)
	} else {
		sess.Logs = append(sess.Logs, entry)
	}

	if err := t.store.SaveHistory(doc); err != nil {
		return fmt.Errorf("history: persist log entry: %w", err)
	}
	return nil
}

// LatestSessionID returns an in_progress session if one exists (so a
// restarted agent can resume it), else the most recently started session,
// else NoSession.
func (t *Tracker) LatestSessionID() string {
	doc := t.load()
	if len(doc.Sessions) == 0 {
		return NoSession
	}
	for _, sess := range doc.Sessions {
		if sess.Status == model.SessionInProgress {
			return sess.SessionID
		}
	}
	return doc.Sessions[len(doc.Sessions)-1].SessionID
}

// Statistics returns the current aggregate statistics.
func (t *Tracker) Statistics() model.Statistics {
	return t.load().Statistics
}

// Recent returns up to n sessions, newest first.
func (t *Tracker) Recent(n int) []model.Session {
	doc := t.load()
	if n <= 0 || n > len(doc.Sessions) {
		n = len(doc.Sessions)
	}
	recent := make([]model.Session, 0, n)
	for i := len(doc.Sessions) - 1; i >= len(doc.Sessions)-n; i-- {
		recent = append(recent, doc.Sessions[i])
	}
	return recent
}

func averageDuration(sessions []model.Session) int64 {
	var total, count int64
	for _, s := range sessions {
		if s.Duration != nil {
			total += *s.Duration
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return int64(float64(total)/float64(count) + 0.5)
}

func currentUsername() string {
	if env := os.Getenv("USER"); env != "" {
		return env
	}
	return "unknown"
}
