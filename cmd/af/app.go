package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/appforge/appforge/pkg/agent"
	"github.com/appforge/appforge/pkg/catalog"
	"github.com/appforge/appforge/pkg/config"
	"github.com/appforge/appforge/pkg/history"
	"github.com/appforge/appforge/pkg/ident"
	"github.com/appforge/appforge/pkg/state"
)

// app holds shared state for all CLI subcommands.
type app struct {
	cfg   *config.Config
	store state.Store
	snap  catalog.Snapshotter
}

// newApp configures logging, loads the config, and opens the selected state
// backend.
func newApp() (*app, error) {
	initLogging()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var store state.Store
	switch cfg.Storage {
	case config.StorageSQLite:
		store, err = state.NewSQLite(cfg.StatePath("appforge.db"))
	default:
		store, err = state.NewFile(cfg.ConfigDir)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open state store: %w", err)
	}

	return &app{cfg: cfg, store: store, snap: catalog.GitSnapshot{}}, nil
}

// Close releases the state store.
func (a *app) Close() { a.store.Close() }

// initLogging sends warnings to stderr so single-line stdout contracts stay
// machine-parsable.
func initLogging() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	levelStr := os.Getenv("AF_LOG_LEVEL")
	if levelStr == "" {
		levelStr = "warn"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		logrus.Warnf("invalid AF_LOG_LEVEL %q, defaulting to warn", levelStr)
		level = logrus.WarnLevel
	}
	logrus.SetLevel(level)
}

// identityManager returns the identity manager over the open store.
func (a *app) identityManager() *agent.Manager {
	return agent.NewManager(a.store)
}

// ledger returns the completion ledger scoped by the current identity.
func (a *app) ledger() *agent.Ledger {
	return agent.NewLedger(a.store, a.identityManager())
}

// tracker returns the session tracker over the open store.
func (a *app) tracker() *history.Tracker {
	return history.NewTracker(a.store)
}

// generator returns the production suffix generator.
func (a *app) generator() *ident.Generator {
	return ident.NewGenerator()
}

// resolveCatalog returns the catalog URL from the flag, falling back to the
// configured value.
func (a *app) resolveCatalog(flagVal string) (string, error) {
	if flagVal != "" {
		return flagVal, nil
	}
	if a.cfg.CatalogURL != "" {
		return a.cfg.CatalogURL, nil
	}
	return "", fmt.Errorf("no catalog URL: pass --catalog or set AF_CATALOG_URL")
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
