// Package metrics exposes Prometheus collectors for message dispatch.
//
// A nil *Dispatch is valid and records nothing, so transports can call it
// unconditionally.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "snipskit"

// Handler outcomes used as the "result" label.
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultPanic = "panic"
)

// Dispatch holds the collectors updated by the MQTT transport.
// Labels use the subscribed pattern, not the concrete topic, to keep
// cardinality bounded.
type Dispatch struct {
	received      *prometheus.CounterVec
	handled       *prometheus.CounterVec
	decodeErrors  *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	subscriptions prometheus.Gauge
}

// NewDispatch creates the dispatch collectors and registers them on reg.
// Collectors already registered on reg (e.g. by a second client) are reused.
func NewDispatch(reg prometheus.Registerer) (*Dispatch, error) {
	d := &Dispatch{
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Total MQTT messages received per subscription.",
		}, []string{"subscription"}),

		handled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "handler_calls_total",
			Help:      "Total handler invocations per subscription and result.",
		}, []string{"subscription", "result"}),

		decodeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payload_decode_errors_total",
			Help:      "Total payloads that could not be decoded for a handler.",
		}, []string{"subscription"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "handler_duration_seconds",
			Help:      "Handler execution time.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"subscription"}),

		subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscriptions",
			Help:      "Number of MQTT topic patterns currently subscribed.",
		}),
	}

	var err error
	if d.received, err = register(reg, d.received); err != nil {
		return nil, err
	}
	if d.handled, err = register(reg, d.handled); err != nil {
		return nil, err
	}
	if d.decodeErrors, err = register(reg, d.decodeErrors); err != nil {
		return nil, err
	}
	if d.duration, err = register(reg, d.duration); err != nil {
		return nil, err
	}
	if d.subscriptions, err = register(reg, d.subscriptions); err != nil {
		return nil, err
	}
	return d, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// MessageReceived counts one inbound message on subscription.
func (d *Dispatch) MessageReceived(subscription string) {
	if d == nil {
		return
	}
	d.received.WithLabelValues(subscription).Inc()
}

// HandlerDone records one handler invocation with its result and duration.
func (d *Dispatch) HandlerDone(subscription, result string, elapsed time.Duration) {
	if d == nil {
		return
	}
	d.handled.WithLabelValues(subscription, result).Inc()
	d.duration.WithLabelValues(subscription).Observe(elapsed.Seconds())
}

// DecodeError counts one payload that failed to decode.
func (d *Dispatch) DecodeError(subscription string) {
	if d == nil {
		return
	}
	d.decodeErrors.WithLabelValues(subscription).Inc()
}

// SetSubscriptions sets the subscribed pattern count.
func (d *Dispatch) SetSubscriptions(n int) {
	if d == nil {
		return
	}
	d.subscriptions.Set(float64(n))
}
