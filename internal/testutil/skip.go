// Package testutil provides testing utilities.
package testutil

import (
	"os"
	"testing"
)

// SkipLiveTests skips the test if RUN_LIVE_TESTS is not set.
// Use this for tests that call real services (OpenRouter, GitHub, Google).
//
// Run live tests with: RUN_LIVE_TESTS=1 go test ./...
func SkipLiveTests(t *testing.T) {
	t.Helper()
	if os.Getenv("RUN_LIVE_TESTS") == "" {
		t.Skip("Skipping live test (set RUN_LIVE_TESTS=1 to run)")
	}
}
