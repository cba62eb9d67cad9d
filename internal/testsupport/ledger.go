package testsupport

import (
	"testing"

	"socialmediagen/internal/config"
	"socialmediagen/internal/taskqueue"
)

// MustOpenLedger opens a task ledger for tests and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *taskqueue.Ledger {
	t.Helper()

	ledger, err := taskqueue.OpenLedger(cfg)
	if err != nil {
		t.Fatalf("taskqueue.OpenLedger: %v", err)
	}
	t.Cleanup(func() {
		ledger.Close()
	})
	return ledger
}
