package model

import (
	"testing"
	"time"
)

func TestSessionStatusTerminal(t *testing.T) {
	cases := []struct {
		status SessionStatus
		want   bool
	}{
		{SessionInProgress, false},
		{SessionSuccess, true},
		{SessionError, true},
		{SessionCancelled, true},
		{SessionStatus("exploded"), false},
		{SessionStatus(""), false},
	}
	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.want {
			t.Errorf("Terminal(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestSuccessRate(t *testing.T) {
	cases := []struct {
		name  string
		stats Statistics
		want  int
	}{
		{"no sessions", Statistics{}, 0},
		{"all completed", Statistics{TotalSessions: 4, TotalCompleted: 4}, 100},
		{"half", Statistics{TotalSessions: 4, TotalCompleted: 2}, 50},
		{"rounds up", Statistics{TotalSessions: 3, TotalCompleted: 2}, 67},
		{"rounds down", Statistics{TotalSessions: 3, TotalCompleted: 1}, 33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.stats.SuccessRate(); got != tc.want {
				t.Errorf("SuccessRate() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFindSession(t *testing.T) {
	doc := NewHistoryDocument(time.Now())
	doc.Sessions = append(doc.Sessions,
		Session{SessionID: "session-1-aaa"},
		Session{SessionID: "session-2-bbb"},
	)

	sess := doc.FindSession("session-2-bbb")
	if sess == nil || sess.SessionID != "session-2-bbb" {
		t.Fatalf("FindSession returned %+v", sess)
	}

	// Mutations through the returned pointer must land in the document.
	sess.Status = SessionSuccess
	if doc.Sessions[1].Status != SessionSuccess {
		t.Fatal("FindSession must return a pointer into the document")
	}

	if doc.FindSession("session-9-zzz") != nil {
		t.Fatal("unknown session must return nil")
	}
}

func TestNewHistoryDocument(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.FixedZone("X", 3600))
	doc := NewHistoryDocument(now)
	if doc.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %q", doc.SchemaVersion)
	}
	if !doc.Created.Equal(now) || doc.Created.Location() != time.UTC {
		t.Errorf("Created = %v, want %v in UTC", doc.Created, now)
	}
	if doc.Sessions == nil || len(doc.Sessions) != 0 {
		t.Errorf("Sessions = %#v, want empty non-nil slice", doc.Sessions)
	}
}
