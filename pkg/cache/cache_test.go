package cache

import (
	"context"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// RenderKey should include options in hash
	rk1 := k.RenderKey("hash123", RenderKeyOpts{Format: "svg", Style: "simple"})
	rk2 := k.RenderKey("hash123", RenderKeyOpts{Format: "png", Style: "simple"})
	if rk1 == rk2 {
		t.Error("Different RenderKeyOpts should produce different keys")
	}
	if rk1[:10] != "render:v1:" {
		t.Errorf("RenderKey missing version prefix: %s", rk1)
	}

	// RouteKey
	pk1 := k.RouteKey("hash123", RouteKeyOpts{Start: "a", End: "d"})
	pk2 := k.RouteKey("hash123", RouteKeyOpts{Start: "a", End: "d", Fallback: true})
	if pk1 == pk2 {
		t.Error("Different RouteKeyOpts should produce different keys")
	}
	if pk1[:9] != "route:v1:" {
		t.Errorf("RouteKey missing version prefix: %s", pk1)
	}

	// Same inputs are deterministic
	if again := k.RouteKey("hash123", RouteKeyOpts{Start: "a", End: "d"}); again != pk1 {
		t.Error("RouteKey should be deterministic")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "proj:123:")

	// All keys should be prefixed
	rk := scoped.RenderKey("hash123", RenderKeyOpts{Format: "svg"})
	if len(rk) < 15 || rk[:9] != "proj:123:" {
		t.Errorf("ScopedKeyer RenderKey should be prefixed: %s", rk)
	}

	pk := scoped.RouteKey("hash123", RouteKeyOpts{Start: "a", End: "b"})
	if len(pk) < 15 || pk[:9] != "proj:123:" {
		t.Errorf("ScopedKeyer RouteKey should be prefixed: %s", pk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.RenderKey("h", RenderKeyOpts{Format: "dot"})
	if key[:7] != "prefix:" {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestKeyType(t *testing.T) {
	k := NewDefaultKeyer()
	if got := keyType(k.RenderKey("h", RenderKeyOpts{})); got != "render" {
		t.Errorf("keyType = %s, want render", got)
	}
	if got := keyType(k.RouteKey("h", RouteKeyOpts{})); got != "route" {
		t.Errorf("keyType = %s, want route", got)
	}
	if got := keyType("no-separator"); got != "unknown" {
		t.Errorf("keyType = %s, want unknown", got)
	}

	// Scope prefixes must not hide the artifact kind from hook labels.
	scoped := NewScopedKeyer(k, "graph:overworld:")
	if got := keyType(scoped.RenderKey("h", RenderKeyOpts{})); got != "render" {
		t.Errorf("keyType on scoped key = %s, want render", got)
	}
	if got := keyType(scoped.RouteKey("h", RouteKeyOpts{})); got != "route" {
		t.Errorf("keyType on scoped key = %s, want route", got)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
