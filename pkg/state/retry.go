package state

import (
	"math/rand"
	"strings"
	"time"
)

// Transient-error retry for the SQLite backend. WAL-mode SQLite can surface
// SQLITE_BUSY/SQLITE_LOCKED (and IOERR_SHORT_READ under WAL contention) even
// with busy_timeout set; writes go through retrySQLite with exponential
// backoff plus jitter.

const (
	retryMaxAttempts = 3
	retryBaseDelay   = 50 * time.Millisecond
	retryMaxDelay    = 500 * time.Millisecond
)

func isTransientSQLiteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"IOERR_SHORT_READ",
		"database is locked",
		"database table is locked",
		"(5)",
		"(6)",
		"(522)",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func retrySQLite(fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= retryMaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !isTransientSQLiteErr(lastErr) {
			return lastErr
		}
		if attempt < retryMaxAttempts {
			delay := retryBaseDelay << uint(attempt)
			if delay > retryMaxDelay {
				delay = retryMaxDelay
			}
			time.Sleep(delay + time.Duration(rand.Int63n(int64(retryBaseDelay))))
		}
	}
	return lastErr
}
