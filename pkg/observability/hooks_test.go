package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Nav hooks
	n := NoopNavHooks{}
	n.OnPathComputed("dock", "gate", 3, 8.5)
	n.OnMoveStart(1, "gate", false)
	n.OnMoveComplete(1, "gate")
	n.OnMoveRejected(2, "gate", "occupied")
	n.OnOccupancyChanged("gate", 1)

	// State hooks
	s := NoopStateHooks{}
	s.OnBeforeLoad()
	s.OnSave(4, 128)
	s.OnLoad(4, 1)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "route")
	c.OnCacheSet(ctx, "render", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/graph")
	h.OnResponse(ctx, "GET", "/graph", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Nav().(NoopNavHooks); !ok {
		t.Error("Nav() should return NoopNavHooks by default")
	}
	if _, ok := State().(NoopStateHooks); !ok {
		t.Error("State() should return NoopStateHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customNav := &testNavHooks{}
	SetNavHooks(customNav)
	if Nav() != customNav {
		t.Error("SetNavHooks should set custom hooks")
	}

	customState := &testStateHooks{}
	SetStateHooks(customState)
	if State() != customState {
		t.Error("SetStateHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Nav().(NoopNavHooks); !ok {
		t.Error("Reset() should restore NoopNavHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testNavHooks{}
	SetNavHooks(custom)

	// Setting nil should be ignored
	SetNavHooks(nil)

	if Nav() != custom {
		t.Error("SetNavHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testNavHooks struct{ NoopNavHooks }
type testStateHooks struct{ NoopStateHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
