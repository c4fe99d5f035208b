package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 3, CleanupInterval: time.Minute})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d unexpectedly blocked", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("fourth request should be blocked")
	}
}

func TestAllowTracksClientsIndependently(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1, CleanupInterval: time.Minute})
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Fatal("first client request blocked")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("first client second request should be blocked")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatal("second client should still be allowed")
	}
	if got := rl.ActiveClients(); got != 2 {
		t.Fatalf("ActiveClients = %d, want 2", got)
	}
}

func TestCleanupStaleEntries(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	rl.mu.Lock()
	rl.clients["10.0.0.1"].lastRequest = time.Now().Add(-11 * time.Minute)
	rl.mu.Unlock()

	rl.cleanupStaleEntries()
	if got := rl.ActiveClients(); got != 0 {
		t.Fatalf("ActiveClients = %d, want 0 after cleanup", got)
	}
}
