package testsupport

import (
	"testing"

	"fontsieve/internal/config"
	"fontsieve/internal/history"
)

// MustOpenHistory opens the history store configured for cfg and registers
// cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
