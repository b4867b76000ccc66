package ports

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Probe pacing. The limiter keeps large range scans from hammering the
// loopback stack; the pool bound keeps file descriptors in check.
const (
	probesPerSecond     = 500
	probeBurst          = 32
	maxConcurrentProbes = 32
)

// DefaultProbeTimeout is used when the caller passes a non-positive timeout.
const DefaultProbeTimeout = 20 * time.Millisecond

// ScanRange probes every port in [start, end] with a loopback TCP connect
// and returns one Binding per port, in port order. A successful connect
// means OCCUPIED. Owner resolution is not attempted here; probing is cheap
// and needs no privilege, unlike the socket-table scan in Owners.
func ScanRange(ctx context.Context, start, end int, probeTimeout time.Duration) ([]Binding, error) {
	if err := ValidateRange(start, end); err != nil {
		return nil, err
	}
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}

	limiter := rate.NewLimiter(rate.Limit(probesPerSecond), probeBurst)
	sem := make(chan struct{}, maxConcurrentProbes)
	results := make([]Binding, end-start+1)

	var wg sync.WaitGroup
	for i := range results {
		port := start + i
		if err := limiter.Wait(ctx); err != nil {
			// Canceled mid-scan; report what was probed so far as-is.
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i, port int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = Binding{Port: port, Status: Probe(port, probeTimeout)}
		}(i, port)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Fill in any ports skipped by an early limiter exit.
	for i := range results {
		if results[i].Port == 0 {
			results[i] = Binding{Port: start + i, Status: StatusFree}
		}
	}
	return results, nil
}

// Probe reports a single port's status via a loopback TCP connect.
// A refused or timed-out connect reads as FREE; only an accepted connection
// proves a listener.
func Probe(port int, timeout time.Duration) Status {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), timeout)
	if err != nil {
		return StatusFree
	}
	_ = conn.Close()
	return StatusOccupied
}
