package ports

import (
	"context"
	"testing"
	"time"

	"github.com/procport/procport/testutil"
)

func TestProbe(t *testing.T) {
	listener, occupied := testutil.Listen(t)

	if got := Probe(occupied, 200*time.Millisecond); got != StatusOccupied {
		t.Errorf("Probe(%d) = %s, want OCCUPIED", occupied, got)
	}

	_ = listener.Close()
	// A freshly closed ephemeral port refuses immediately.
	if got := Probe(occupied, 200*time.Millisecond); got != StatusFree {
		t.Errorf("Probe(%d) after close = %s, want FREE", occupied, got)
	}
}

func TestScanRangeOrderAndStatus(t *testing.T) {
	_, occupied := testutil.Listen(t)

	start := occupied - 2
	end := occupied + 2
	bindings, err := ScanRange(context.Background(), start, end, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("ScanRange failed: %v", err)
	}
	if len(bindings) != end-start+1 {
		t.Fatalf("got %d bindings, want %d", len(bindings), end-start+1)
	}
	for i, b := range bindings {
		if b.Port != start+i {
			t.Errorf("bindings[%d].Port = %d, want %d", i, b.Port, start+i)
		}
		if b.Status != StatusFree && b.Status != StatusOccupied {
			t.Errorf("port %d has status %q", b.Port, b.Status)
		}
	}
	if bindings[occupied-start].Status != StatusOccupied {
		t.Errorf("listener port %d not reported OCCUPIED", occupied)
	}
}

func TestScanRangeInvalid(t *testing.T) {
	if _, err := ScanRange(context.Background(), 100, 50, 0); err == nil {
		t.Error("expected error for reversed range")
	}
}

func TestScanRangeCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ScanRange(ctx, 30000, 30100, 0); err == nil {
		t.Error("expected error from canceled context")
	}
}
