// Package agent establishes the stable per-machine agent identity and the
// identity-scoped completion ledger.
//
// The identity survives process restarts; regenerating it (first run, or a
// corrupt stored record) produces a logically different agent, which orphans
// any ledger or history written under the old identity. That is intentional:
// records are never shared or merged across identities.
package agent

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/appforge/appforge/pkg/model"
	"github.com/appforge/appforge/pkg/state"
)

var identityPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// Validate is the identity format predicate: non-empty, longer than 10
// characters, restricted to lowercase alphanumerics and hyphens. It checks
// format only, not existence.
func Validate(identity string) bool {
	return len(identity) > 10 && identityPattern.MatchString(identity)
}

// Manager persists and returns the agent identity.
type Manager struct {
	store state.IdentityStore
	now   func() time.Time
}

// NewManager returns a Manager over store using the wall clock.
func NewManager(store state.IdentityStore) *Manager {
	return NewManagerWith(store, time.Now)
}

// NewManagerWith injects the clock for tests.
func NewManagerWith(store state.IdentityStore, now func() time.Time) *Manager {
	return &Manager{store: store, now: now}
}

// GetOrCreate returns the stored identity when it is present and valid.
// A corrupt record or one failing Validate is logged and treated as absent,
// regenerating the identity. The error is non-nil only when the new record
// cannot be persisted.
func (m *Manager) GetOrCreate() (string, error) {
	rec, st := m.store.LoadIdentity()
	switch st {
	case state.Present:
		if Validate(rec.Identity) {
			return rec.Identity, nil
		}
		logrus.Warnf("agent: stored identity %q fails validation, regenerating", rec.Identity)
	case state.Corrupt:
		logrus.Warn("agent: identity record unreadable, regenerating")
	}

	hostname, _ := os.Hostname()
	username := currentUsername()
	identity := m.generate(hostname, username)

	record := model.IdentityRecord{
		Identity:      identity,
		Created:       m.now().UTC(),
		Hostname:      hostname,
		Username:      username,
		Platform:      runtime.GOOS,
		SchemaVersion: model.SchemaVersion,
	}
	if err := m.store.SaveIdentity(record); err != nil {
		return "", fmt.Errorf("agent: persist identity: %w", err)
	}
	logrus.Infof("agent: new identity %s", identity)
	return identity, nil
}

// Info returns the full persisted identity record, creating it first if
// needed.
func (m *Manager) Info() (model.IdentityRecord, error) {
	if _, err := m.GetOrCreate(); err != nil {
		return model.IdentityRecord{}, err
	}
	rec, st := m.store.LoadIdentity()
	if st != state.Present {
		return model.IdentityRecord{}, fmt.Errorf("agent: identity record not readable after create")
	}
	return rec, nil
}

// generate composes hostname, username, a base-36 timestamp token, and a
// random token into a fresh identity.
func (m *Manager) generate(hostname, username string) string {
	ts := strconv.FormatInt(m.now().UnixMilli(), 36)
	random := make([]byte, 3)
	_, _ = rand.Read(random)
	return fmt.Sprintf("%s-%s-%s-%s",
		normalizeToken(hostname), normalizeToken(username), ts, hex.EncodeToString(random))
}

// normalizeToken lowercases s and strips everything outside [a-z0-9].
func normalizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}

func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		// On some platforms Username carries a domain prefix.
		name := u.Username
		if i := strings.LastIndexByte(name, '\\'); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	if env := os.Getenv("USER"); env != "" {
		return env
	}
	return "unknown"
}
