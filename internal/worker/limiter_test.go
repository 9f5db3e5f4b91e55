package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_BurstThenThrottle(t *testing.T) {
	l := NewLimiter(1.0, 2)

	// Burst allows the first two immediately
	if !l.Allow("openai") {
		t.Error("Expected first request to be allowed")
	}
	if !l.Allow("openai") {
		t.Error("Expected second request within burst to be allowed")
	}
	if l.Allow("openai") {
		t.Error("Expected third request to be throttled")
	}
}

func TestLimiter_ProvidersAreIndependent(t *testing.T) {
	l := NewLimiter(1.0, 1)

	if !l.Allow("openai") {
		t.Error("Expected openai request to be allowed")
	}
	if l.Allow("openai") {
		t.Error("Expected second openai request to be throttled")
	}
	// A different provider has its own bucket
	if !l.Allow("ollama") {
		t.Error("Expected ollama request to be allowed independently")
	}
}

func TestLimiter_SetProviderRate(t *testing.T) {
	l := NewLimiter(1.0, 1)
	l.SetProviderRate("openai", 1000, 10)

	for i := 0; i < 10; i++ {
		if !l.Allow("openai") {
			t.Fatalf("Expected request %d within custom burst to be allowed", i)
		}
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1) // effectively one request per ~17 minutes

	// Exhaust the burst
	if err := l.Wait(context.Background(), "anthropic"); err != nil {
		t.Fatalf("First wait failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "anthropic"); err == nil {
		t.Error("Expected wait to fail when the context deadline is too short")
	}
}

func TestLimiter_DefaultBurst(t *testing.T) {
	l := NewLimiter(1.0, 0) // invalid burst falls back to 5
	allowed := 0
	for i := 0; i < 10; i++ {
		if l.Allow("local") {
			allowed++
		}
	}
	if allowed != 5 {
		t.Errorf("Expected default burst of 5, got %d allowed", allowed)
	}
}
