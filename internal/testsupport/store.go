package testsupport

import (
	"context"
	"testing"

	"nfo2tags/internal/config"
	"nfo2tags/internal/history"
)

// MustOpenHistory opens the ledger for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(context.Background(), cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
