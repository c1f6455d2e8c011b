package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nerrad567/snipskit-go/pkg/logging"
	"github.com/nerrad567/snipskit-go/pkg/metrics"
	"github.com/nerrad567/snipskit-go/pkg/mqtt"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(context.Context) error { return f.err }

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, _ := io.ReadAll(rec.Result().Body)
	return rec.Code, string(body)
}

func TestMetricsRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	dispatch, err := metrics.NewDispatch(reg)
	if err != nil {
		t.Fatalf("NewDispatch() error = %v", err)
	}
	dispatch.MessageReceived("hermes/#")

	router := newMetricsRouter(reg, fakeHealth{})

	code, body := get(t, router, "/metrics")
	if code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", code)
	}
	if !strings.Contains(body, `snipskit_messages_received_total{subscription="hermes/#"} 1`) {
		t.Errorf("GET /metrics body missing counter:\n%s", body)
	}

	if code, body := get(t, router, "/health"); code != http.StatusOK || body != "ok\n" {
		t.Errorf("GET /health = %d %q", code, body)
	}
}

func TestMetricsRouter_Unhealthy(t *testing.T) {
	router := newMetricsRouter(prometheus.NewRegistry(), fakeHealth{err: mqtt.ErrNotConnected})

	code, body := get(t, router, "/health")
	if code != http.StatusServiceUnavailable {
		t.Errorf("GET /health status = %d, want 503", code)
	}
	if !strings.Contains(body, "not connected") {
		t.Errorf("GET /health body = %q", body)
	}
}

func TestServeMetrics(t *testing.T) {
	router := newMetricsRouter(prometheus.NewRegistry(), fakeHealth{})
	stop, err := serveMetrics(context.Background(), "127.0.0.1:0", router, logging.Discard())
	if err != nil {
		t.Fatalf("serveMetrics() error = %v", err)
	}
	stop()
}

func TestServeMetrics_BadAddress(t *testing.T) {
	_, err := serveMetrics(context.Background(), "not an address", http.NotFoundHandler(), logging.Discard())
	if err == nil {
		t.Error("serveMetrics() error = nil, want listen error")
	}
}

func TestNewMQTTClient(t *testing.T) {
	client, stop, err := newMQTTClient(context.Background(), connFlags{clientID: "snipskit-test"}, logging.Discard())
	if err != nil {
		t.Fatalf("newMQTTClient() error = %v", err)
	}
	defer stop()
	if client.ClientID() != "snipskit-test" {
		t.Errorf("ClientID() = %q", client.ClientID())
	}

	_, _, err = newMQTTClient(context.Background(), connFlags{qos: 3}, logging.Discard())
	if !errors.Is(err, mqtt.ErrInvalidQoS) {
		t.Errorf("qos 3 error = %v, want ErrInvalidQoS", err)
	}
}

func TestNewMQTTClient_Metrics(t *testing.T) {
	client, stop, err := newMQTTClient(context.Background(), connFlags{metricsAddr: "127.0.0.1:0"}, logging.Discard())
	if err != nil {
		t.Fatalf("newMQTTClient() error = %v", err)
	}
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() before Connect error = nil")
	}
}
