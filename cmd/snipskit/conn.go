package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerrad567/snipskit-go/pkg/logging"
	"github.com/nerrad567/snipskit-go/pkg/metrics"
	"github.com/nerrad567/snipskit-go/pkg/mqtt"
)

const metricsShutdownTimeout = 5 * time.Second

// newMQTTClient creates the MQTT client for listen and intents. If
// --metrics-addr is set, a metrics server is started and the client reports
// to it; the returned func shuts the server down.
func newMQTTClient(ctx context.Context, c connFlags, log *logging.Logger) (*mqtt.Client, func(), error) {
	if c.qos > 2 {
		return nil, nil, fmt.Errorf("%w: %d", mqtt.ErrInvalidQoS, c.qos)
	}

	opts := []mqtt.Option{
		mqtt.WithLogger(log),
		mqtt.WithQoS(c.qos),
	}
	if c.clientID != "" {
		opts = append(opts, mqtt.WithClientID(c.clientID))
	}

	if c.metricsAddr == "" {
		return mqtt.New(opts...), func() {}, nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	dispatch, err := metrics.NewDispatch(reg)
	if err != nil {
		return nil, nil, err
	}

	client := mqtt.New(append(opts, mqtt.WithMetrics(dispatch))...)
	stop, err := serveMetrics(ctx, c.metricsAddr, newMetricsRouter(reg, client), log)
	if err != nil {
		return nil, nil, err
	}
	return client, stop, nil
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// newMetricsRouter serves /metrics from g and /health from the MQTT
// connection state.
func newMetricsRouter(g prometheus.Gatherer, hc healthChecker) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := hc.HealthCheck(req.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

// serveMetrics starts an HTTP server for h on addr. The returned func shuts
// it down.
func serveMetrics(ctx context.Context, addr string, h http.Handler, log *logging.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening for metrics: %w", err)
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err)
		}
	}()
	log.Info("serving metrics", "address", ln.Addr().String())

	return func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), metricsShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Warn("stopping metrics server", "error", err)
		}
	}, nil
}
