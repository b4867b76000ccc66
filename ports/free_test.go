package ports

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/procport/procport/procs"
	"github.com/procport/procport/testutil"
)

func TestMain(m *testing.M) {
	testutil.ListenerHelperMain()
	os.Exit(m.Run())
}

func TestFreeAlreadyFreePort(t *testing.T) {
	listener, port := testutil.Listen(t)
	_ = listener.Close()

	result, err := Free(context.Background(), port, time.Second, time.Second, nil)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			t.Skipf("socket table query needs elevation: %v", err)
		}
		t.Fatalf("Free failed: %v", err)
	}
	if !result.AlreadyFree || !result.Freed {
		t.Errorf("expected already-free result, got %+v", result)
	}
	if len(result.Owners) != 0 {
		t.Errorf("expected no owners, got %v", result.Owners)
	}
}

func TestFreeOwnedPort(t *testing.T) {
	pid, port := testutil.StartListenerProcess(t)

	if got := Probe(port, 200*time.Millisecond); got != StatusOccupied {
		t.Fatalf("listener child port %d probes as %s", port, got)
	}

	var reported []Owner
	result, err := Free(context.Background(), port, 5*time.Second, 3*time.Second,
		func(owner Owner, _ procs.TreeResult) {
			reported = append(reported, owner)
		})
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			t.Skipf("socket table query needs elevation: %v", err)
		}
		t.Fatalf("Free failed: %v", err)
	}
	if len(result.Owners) == 0 {
		// The query succeeded but attribution needs elevation here.
		t.Skipf("port %d not attributed to child %d", port, pid)
	}

	if !result.Freed {
		t.Errorf("port %d not freed: %+v", port, result)
	}
	if !result.Summary.Done() {
		t.Errorf("termination failures: %v", result.Summary.Failed)
	}
	found := false
	for _, o := range result.Owners {
		if o.PID == int32(pid) {
			found = true
		}
	}
	if !found {
		t.Errorf("child %d missing from owners %v", pid, result.Owners)
	}
	if len(reported) != len(result.Owners) {
		t.Errorf("reporter saw %d owners, result has %d", len(reported), len(result.Owners))
	}

	if got := Probe(port, 200*time.Millisecond); got != StatusFree {
		t.Errorf("port %d still probes as %s after Free", port, got)
	}
}

func TestFreeInvalidPort(t *testing.T) {
	if _, err := Free(context.Background(), 0, time.Second, time.Second, nil); err == nil {
		t.Error("expected error for port 0")
	}
}
