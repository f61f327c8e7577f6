// Package metrics exposes load test progress as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"olist-benchmark/internal/database"
)

const namespace = "olist_loadtest"

// Collector implements runner.Recorder. Each Collector owns its registry so
// several can live in one process.
type Collector struct {
	registry *prometheus.Registry

	trials          *prometheus.CounterVec
	connectFailures *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	qps             *prometheus.GaugeVec
	p95             *prometheus.GaugeVec
	p99             *prometheus.GaugeVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		trials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "trials_total",
				Help:      "Query executions by outcome",
			},
			[]string{"query", "threads", "status"},
		),
		connectFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connection_failures_total",
				Help:      "Workers that could not open a connection",
			},
			[]string{"query", "threads"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Latency of successful query executions",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 18),
			},
			[]string{"query", "threads"},
		),
		qps: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "queries_per_second",
				Help:      "Throughput of the last completed run",
			},
			[]string{"query", "threads"},
		),
		p95: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "p95_latency_ms",
				Help:      "95th percentile latency of the last completed run",
			},
			[]string{"query", "threads"},
		),
		p99: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "p99_latency_ms",
				Help:      "99th percentile latency of the last completed run",
			},
			[]string{"query", "threads"},
		),
	}

	c.registry.MustRegister(c.trials, c.connectFailures, c.latency, c.qps, c.p95, c.p99)

	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) TrialCompleted(query string, threads int, durationMs float64, success bool) {
	t := strconv.Itoa(threads)
	if !success {
		c.trials.WithLabelValues(query, t, "failed").Inc()
		return
	}
	c.trials.WithLabelValues(query, t, "success").Inc()
	c.latency.WithLabelValues(query, t).Observe(durationMs / 1000)
}

func (c *Collector) ConnectionFailed(query string, threads int) {
	c.connectFailures.WithLabelValues(query, strconv.Itoa(threads)).Inc()
}

// RunCompleted publishes the run's throughput and tail latency. A run where
// everything failed reports zero throughput and leaves the latencies alone.
func (c *Collector) RunCompleted(query string, threads int, rep *database.AggregateReport) {
	t := strconv.Itoa(threads)
	if rep == nil {
		c.qps.WithLabelValues(query, t).Set(0)
		return
	}
	c.qps.WithLabelValues(query, t).Set(rep.QPS)
	c.p95.WithLabelValues(query, t).Set(rep.P95Ms)
	c.p99.WithLabelValues(query, t).Set(rep.P99Ms)
}

// Router serves /metrics from the collector's registry and a /healthz probe.
func (c *Collector) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
	}).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return router
}

// Serve runs the metrics endpoint on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	}
}
