package main

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/appforge/appforge/pkg/config"
	"github.com/appforge/appforge/pkg/model"
	"github.com/appforge/appforge/pkg/state"
)

// stubSnapshot returns a fixed manifest, standing in for the git fetch.
type stubSnapshot struct {
	manifest string
}

func (s stubSnapshot) Fetch(string) string { return s.manifest }

func newTestApp(t *testing.T, manifest string) *app {
	t.Helper()
	return &app{
		cfg: &config.Config{
			CatalogURL: "https://github.com/example/published-apps",
			Prefix:     "app",
			BaseURL:    "https://example.github.io/published-apps",
			Storage:    config.StorageJSON,
			ConfigDir:  t.TempDir(),
		},
		store: state.NewMemory(),
		snap:  stubSnapshot{manifest: manifest},
	}
}

// --- allocate / next ---

func TestCmdAllocate_EndToEnd(t *testing.T) {
	a := newTestApp(t, "app-001-ab12cd filler app-002-xy98zz")
	out := captureStdout(t, func() {
		if code := a.cmdAllocate(nil); code != 0 {
			t.Fatalf("cmdAllocate: exit %d", code)
		}
	})
	id := strings.TrimSpace(out)
	if !regexp.MustCompile(`^app-003-[a-z2-9]{6}$`).MatchString(id) {
		t.Fatalf("cmdAllocate printed %q", id)
	}
}

func TestCmdAllocate_EmptyCatalog(t *testing.T) {
	a := newTestApp(t, "")
	out := captureStdout(t, func() {
		if code := a.cmdAllocate(nil); code != 0 {
			t.Fatalf("cmdAllocate: exit %d", code)
		}
	})
	if !strings.HasPrefix(strings.TrimSpace(out), "app-001-") {
		t.Fatalf("empty catalog should allocate 001, got %q", out)
	}
}

func TestCmdAllocate_NoCatalogURL(t *testing.T) {
	a := newTestApp(t, "")
	a.cfg.CatalogURL = ""
	if code := a.cmdAllocate(nil); code != 1 {
		t.Fatalf("cmdAllocate without catalog URL: exit %d, want 1", code)
	}
}

func TestCmdNext_ZeroPadded(t *testing.T) {
	a := newTestApp(t, "app-041-ab12cd")
	out := captureStdout(t, func() {
		if code := a.cmdNext(nil); code != 0 {
			t.Fatalf("cmdNext: exit %d", code)
		}
	})
	if got := strings.TrimSpace(out); got != "042" {
		t.Fatalf("cmdNext = %q, want 042", got)
	}
}

// --- suffix ---

func TestCmdSuffix_Generate(t *testing.T) {
	a := newTestApp(t, "")
	out := captureStdout(t, func() {
		if code := a.cmdSuffix([]string{"generate"}); code != 0 {
			t.Fatalf("suffix generate: exit %d", code)
		}
	})
	if !regexp.MustCompile(`^[a-z2-9]{6}$`).MatchString(strings.TrimSpace(out)) {
		t.Fatalf("suffix generate printed %q", out)
	}
}

func TestCmdSuffix_Validate(t *testing.T) {
	a := newTestApp(t, "")
	out := captureStdout(t, func() {
		if code := a.cmdSuffix([]string{"validate", "ab2cde"}); code != 0 {
			t.Fatalf("suffix validate: exit %d", code)
		}
	})
	if strings.TrimSpace(out) != "valid" {
		t.Fatalf("validate ab2cde = %q", out)
	}

	out = captureStdout(t, func() { a.cmdSuffix([]string{"validate", "abc0de"}) })
	if strings.TrimSpace(out) != "invalid" {
		t.Fatalf("validate abc0de = %q", out)
	}
}

func TestCmdSuffix_BadSubcommand(t *testing.T) {
	a := newTestApp(t, "")
	if code := a.cmdSuffix([]string{"bogus"}); code != 1 {
		t.Fatalf("suffix bogus: exit %d, want 1", code)
	}
}

// --- identity / ledger ---

func TestCmdIdentity_GetStable(t *testing.T) {
	a := newTestApp(t, "")
	first := captureStdout(t, func() {
		if code := a.cmdIdentity([]string{"get"}); code != 0 {
			t.Fatalf("identity get: exit %d", code)
		}
	})
	second := captureStdout(t, func() { a.cmdIdentity([]string{"get"}) })
	if first != second || strings.TrimSpace(first) == "" {
		t.Fatalf("identity not stable: %q vs %q", first, second)
	}
}

func TestCmdCompleteAndCheck(t *testing.T) {
	a := newTestApp(t, "")

	captureStdout(t, func() {
		if code := a.cmdComplete([]string{"app-001-ab12cd", "First App"}); code != 0 {
			t.Fatal("complete failed")
		}
	})

	out := captureStdout(t, func() { a.cmdCheck([]string{"app-001-ab12cd"}) })
	if strings.TrimSpace(out) != "completed" {
		t.Fatalf("check completed = %q", out)
	}

	out = captureStdout(t, func() { a.cmdCheck([]string{"app-099-zzzzzz"}) })
	if strings.TrimSpace(out) != "not-completed" {
		t.Fatalf("check unknown = %q", out)
	}
}

// --- sessions ---

func TestCmdSession_Flow(t *testing.T) {
	a := newTestApp(t, "")

	out := captureStdout(t, func() {
		if code := a.cmdSession([]string{"start"}); code != 0 {
			t.Fatal("session start failed")
		}
	})
	sessionID := strings.TrimSpace(out)
	if !strings.HasPrefix(sessionID, "session-") {
		t.Fatalf("session start printed %q", sessionID)
	}

	out = captureStdout(t, func() { a.cmdSession([]string{"latest"}) })
	if strings.TrimSpace(out) != sessionID {
		t.Fatalf("session latest = %q, want %q", out, sessionID)
	}

	captureStdout(t, func() {
		if code := a.cmdSession([]string{"log", sessionID, "working"}); code != 0 {
			t.Fatal("session log failed")
		}
	})
	captureStdout(t, func() {
		if code := a.cmdSession([]string{"complete", sessionID, "app-001-ab12cd", "First App"}); code != 0 {
			t.Fatal("session complete failed")
		}
	})

	mem := a.store.(*state.Memory)
	sess := mem.History.Sessions[0]
	if sess.Status != model.SessionSuccess || len(sess.Logs) != 1 {
		t.Fatalf("session state after flow: status=%s logs=%d", sess.Status, len(sess.Logs))
	}
}

func TestCmdSession_InvalidStatus(t *testing.T) {
	a := newTestApp(t, "")
	if code := a.cmdSession([]string{"complete", "session-1-aa", "app-001-ab12cd", "T", "exploded"}); code != 1 {
		t.Fatalf("invalid status: exit %d, want 1", code)
	}
}

func TestCmdSession_LatestEmpty(t *testing.T) {
	a := newTestApp(t, "")
	out := captureStdout(t, func() { a.cmdSession([]string{"latest"}) })
	if strings.TrimSpace(out) != "no-session" {
		t.Fatalf("latest on empty history = %q", out)
	}
}

// --- display helpers ---

func TestStatusGlyph(t *testing.T) {
	if statusGlyph(model.SessionSuccess) != "ok" ||
		statusGlyph(model.SessionError) != "err" ||
		statusGlyph(model.SessionCancelled) != "cancelled" ||
		statusGlyph(model.SessionInProgress) != "running" {
		t.Fatal("statusGlyph mapping wrong")
	}
}

func TestSessionDuration(t *testing.T) {
	if got := sessionDuration(model.Session{}); got != "in progress" {
		t.Fatalf("sessionDuration(nil) = %q", got)
	}
	d := int64(150)
	if got := sessionDuration(model.Session{Duration: &d}); got != "2m" {
		t.Fatalf("sessionDuration(150s) = %q", got)
	}
}

// --- Helpers ---

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}
