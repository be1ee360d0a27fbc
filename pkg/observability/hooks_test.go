package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pack hooks
	p := NoopPackHooks{}
	p.OnRefitStart(ctx, 128, 3)
	p.OnRefitComplete(ctx, 128, 1, 0, time.Second, nil)
	p.OnAutosizeStep(ctx, 64, 3)
	p.OnPageSaved(ctx, 0, "output-atlas-0", 3, time.Second)

	// Decode hooks
	d := NoopDecodeHooks{}
	d.OnDecodeHit(ctx, "a.png")
	d.OnDecodeMiss(ctx, "b.png")
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pack().(NoopPackHooks); !ok {
		t.Error("Pack() should return NoopPackHooks by default")
	}
	if _, ok := Decode().(NoopDecodeHooks); !ok {
		t.Error("Decode() should return NoopDecodeHooks by default")
	}

	customPack := &testPackHooks{}
	SetPackHooks(customPack)
	if Pack() != customPack {
		t.Error("SetPackHooks should set custom hooks")
	}

	customDecode := &testDecodeHooks{}
	SetDecodeHooks(customDecode)
	if Decode() != customDecode {
		t.Error("SetDecodeHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pack().(NoopPackHooks); !ok {
		t.Error("Reset() should restore NoopPackHooks")
	}
	if _, ok := Decode().(NoopDecodeHooks); !ok {
		t.Error("Reset() should restore NoopDecodeHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPackHooks{}
	SetPackHooks(custom)

	// Setting nil should be ignored
	SetPackHooks(nil)
	SetDecodeHooks(nil)

	if Pack() != custom {
		t.Error("SetPackHooks(nil) should be ignored")
	}
	if _, ok := Decode().(NoopDecodeHooks); !ok {
		t.Error("SetDecodeHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPackHooks struct{ NoopPackHooks }
type testDecodeHooks struct{ NoopDecodeHooks }
