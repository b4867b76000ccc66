package ports

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/procport/procport/testutil"
)

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		wantErr bool
	}{
		{"single port", 80, 80, false},
		{"full range", MinPort, MaxPort, false},
		{"typical range", 8000, 8100, false},
		{"zero start", 0, 100, true},
		{"negative start", -1, 100, true},
		{"end above max", 1, 70000, true},
		{"reversed", 100, 50, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRange(%d, %d) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func TestOwnersInvalidPort(t *testing.T) {
	if _, err := Owners(context.Background(), 0); err == nil {
		t.Error("expected error for port 0")
	}
	if _, err := Owners(context.Background(), 70000); err == nil {
		t.Error("expected error for port above max")
	}
}

func TestOwnersFindsOwnListener(t *testing.T) {
	_, port := testutil.Listen(t)

	owners, err := Owners(context.Background(), port)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			t.Skipf("socket table query needs elevation: %v", err)
		}
		t.Fatalf("Owners failed: %v", err)
	}

	self := int32(os.Getpid())
	for _, o := range owners {
		if o.PID == self {
			if o.Name == "" {
				t.Error("own listener resolved with empty process name")
			}
			return
		}
	}
	// Socket-to-pid attribution can be unavailable without elevation even
	// when the query itself succeeds.
	t.Skipf("own pid %d not attributed to port %d (owners: %v)", self, port, owners)
}

func TestOwnersFreePort(t *testing.T) {
	// Open a listener only to learn a port the OS considers free, then
	// release it.
	listener, port := testutil.Listen(t)
	_ = listener.Close()

	owners, err := Owners(context.Background(), port)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) {
			t.Skipf("socket table query needs elevation: %v", err)
		}
		t.Fatalf("Owners failed: %v", err)
	}
	if len(owners) != 0 {
		t.Errorf("expected no owners on closed port %d, got %v", port, owners)
	}
}
