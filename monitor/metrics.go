package monitor

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/procport/procport/logutil"
	"github.com/procport/procport/ports"
	"github.com/procport/procport/procs"
)

// metricsEnabled controls whether monitor iterations record Prometheus
// metrics. Off unless a metrics server is running.
var metricsEnabled atomic.Bool

var (
	processesByCategory = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "procport_processes",
			Help: "Number of processes observed in the last sample, by category",
		},
		[]string{"category"},
	)

	threadsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "procport_threads_total",
			Help: "Total thread count across sampled processes",
		},
	)

	portsOccupied = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "procport_ports_occupied",
			Help: "Occupied ports in the watched range",
		},
	)

	portsWatched = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "procport_ports_watched",
			Help: "Size of the watched port range",
		},
	)

	sampleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "procport_sample_duration_seconds",
			Help:    "Duration of monitor sampling passes in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)
)

// recordProcessSample updates process gauges from one snapshot.
func recordProcessSample(records []procs.Record, took time.Duration) {
	if !metricsEnabled.Load() {
		return
	}
	counts := make(map[procs.Category]int)
	var threads int64
	for _, r := range records {
		counts[r.Category]++
		threads += int64(r.ThreadCount)
	}
	processesByCategory.Reset()
	for cat, n := range counts {
		processesByCategory.WithLabelValues(string(cat)).Set(float64(n))
	}
	threadsTotal.Set(float64(threads))
	sampleDuration.WithLabelValues("processes").Observe(took.Seconds())
}

// recordPortSample updates port gauges from one range scan.
func recordPortSample(bindings []ports.Binding, took time.Duration) {
	if !metricsEnabled.Load() {
		return
	}
	occupied := 0
	for _, b := range bindings {
		if b.Status == ports.StatusOccupied {
			occupied++
		}
	}
	portsWatched.Set(float64(len(bindings)))
	portsOccupied.Set(float64(occupied))
	sampleDuration.WithLabelValues("ports").Observe(took.Seconds())
}

// ServeMetrics starts a Prometheus metrics endpoint on addr and returns the
// metrics URL. The server shuts down when ctx is canceled. Starting the
// server enables metric recording in the monitor loops.
func ServeMetrics(ctx context.Context, addr string) (string, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	metricsEnabled.Store(true)

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logutil.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		metricsEnabled.Store(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	return fmt.Sprintf("http://%s/metrics", listener.Addr().String()), nil
}
