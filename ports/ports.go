// Package ports resolves network ports to owning processes, probes port
// ranges, and frees ports by terminating the owners' process trees. Like the
// rest of procport it reads live OS state on every call and caches nothing.
package ports

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	gopsnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/procport/procport/logutil"
)

// Port bounds. Port 0 is not a bindable probe target and is excluded.
const (
	MinPort = 1
	MaxPort = 65535
)

// Status of a port at scan time.
type Status string

const (
	StatusFree     Status = "FREE"
	StatusOccupied Status = "OCCUPIED"
)

// ErrPermissionDenied indicates the OS refused the socket-table query.
// Resolving foreign processes' sockets requires elevation on some platforms.
var ErrPermissionDenied = errors.New("permission denied querying connections")

// Binding is a port's observed state, with the owner when resolvable.
type Binding struct {
	Port   int    `json:"port"`
	Status Status `json:"status"`
	PID    int32  `json:"pid,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Owner identifies a process holding a socket on a port.
type Owner struct {
	PID  int32  `json:"pid"`
	Name string `json:"name"`
	User string `json:"user,omitempty"`
	Exe  string `json:"exe,omitempty"`
}

// ValidateRange rejects out-of-order or out-of-bounds port ranges.
func ValidateRange(start, end int) error {
	if start < MinPort || end > MaxPort || start > end {
		return fmt.Errorf("invalid port range %d..%d (want %d..%d, start <= end)", start, end, MinPort, MaxPort)
	}
	return nil
}

// Owners returns the processes currently bound to the port, deduplicated by
// pid. An empty slice means the port is free. Owner attributes beyond the
// pid are best-effort; a connection whose process vanished mid-lookup is
// skipped.
func Owners(ctx context.Context, port int) ([]Owner, error) {
	if port < MinPort || port > MaxPort {
		return nil, fmt.Errorf("invalid port %d", port)
	}

	conns, err := gopsnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		if isPermission(err) {
			return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}

	seen := make(map[int32]bool)
	var owners []Owner
	for _, conn := range conns {
		if conn.Laddr.Port != uint32(port) || conn.Pid == 0 || seen[conn.Pid] {
			continue
		}
		seen[conn.Pid] = true

		owner := Owner{PID: conn.Pid}
		p, err := process.NewProcessWithContext(ctx, conn.Pid)
		if err != nil {
			// Owner exited between the socket scan and the lookup.
			logutil.Debug("port owner vanished", "port", port, "pid", conn.Pid)
			continue
		}
		owner.Name, _ = p.NameWithContext(ctx)
		owner.User, _ = p.UsernameWithContext(ctx)
		owner.Exe, _ = p.ExeWithContext(ctx)
		owners = append(owners, owner)
	}
	return owners, nil
}

// isPermission reports whether err is an OS permission refusal.
func isPermission(err error) bool {
	return os.IsPermission(err) ||
		errors.Is(err, syscall.EPERM) ||
		errors.Is(err, syscall.EACCES)
}
