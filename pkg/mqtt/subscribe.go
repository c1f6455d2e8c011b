package mqtt

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/snipskit-go/pkg/handler"
	"github.com/nerrad567/snipskit-go/pkg/metrics"
)

// Subscribe attaches a handler to the specified topic pattern.
//
// Topics can include MQTT wildcards:
//   - + (single-level): "hermes/hotword/+/detected" matches any hotword
//   - # (multi-level): "hermes/#" matches all Hermes topics
//
// The first handler for a pattern subscribes it on the broker. Further
// handlers for the same pattern are added to it, and every one of them is
// invoked for each matching message, in the order they were added.
//
// Subscriptions are automatically restored if the connection is lost and
// reconnected (tracked internally).
//
// Parameters:
//   - topic: The topic pattern to subscribe to
//   - handler: Callback function invoked for each message
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Subscribe(topic string, h MessageHandler) error {
	if err := ValidateFilter(topic); err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.subMu.Lock()
	if r, ok := c.routes[topic]; ok {
		r.handlers = append(r.handlers, h)
		n := len(r.handlers)
		c.subMu.Unlock()

		// A subscription still waiting for the broker decides for every
		// handler attached to it in the meantime.
		<-r.ready
		if r.err != nil {
			return r.err
		}
		c.settings.logger.Debug("handler added to subscription", "topic", topic, "handlers", n)
		return nil
	}
	r := &route{
		topic:    topic,
		qos:      c.settings.qos,
		handlers: []MessageHandler{h},
		ready:    make(chan struct{}),
	}
	c.routes[topic] = r
	c.subMu.Unlock()

	r.err = c.brokerSubscribe(r)
	if r.err != nil {
		c.removeRoute(r)
	}
	close(r.ready)
	if r.err != nil {
		return r.err
	}

	c.settings.metrics.SetSubscriptions(c.SubscriptionCount())
	c.settings.logger.Debug("subscribed", "topic", topic, "qos", c.settings.qos)
	return nil
}

func (c *Client) brokerSubscribe(r *route) error {
	token := c.client.Subscribe(r.topic, r.qos, c.routeHandler(r.topic))
	if !token.WaitTimeout(c.settings.operationTimeout) {
		return fmt.Errorf("%w: %s: timeout after %v", ErrSubscribeFailed, r.topic, c.settings.operationTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, r.topic, err)
	}
	return nil
}

// SubscribeJSON attaches a handler that receives the payload decoded as a
// JSON object. Payloads that are not UTF-8 text holding a JSON object are
// not passed to fn; the invocation fails with ErrPayloadDecode and is logged.
func (c *Client) SubscribeJSON(topic string, fn handler.TopicFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: handler cannot be nil", ErrSubscribeFailed)
	}
	return c.Subscribe(topic, DecodeJSON(fn))
}

// DecodeJSON adapts a TopicFunc to a MessageHandler that decodes payloads.
func DecodeJSON(fn handler.TopicFunc) MessageHandler {
	return func(topic string, payload []byte) error {
		obj, err := DecodeObject(payload)
		if err != nil {
			return err
		}
		return fn(topic, obj)
	}
}

// DecodeObject decodes payload as UTF-8 JSON text holding an object.
//
// Returns:
//   - error: ErrPayloadDecode if the payload is not valid UTF-8, not valid
//     JSON, or not an object
func DecodeObject(payload []byte) (map[string]any, error) {
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", ErrPayloadDecode)
	}

	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPayloadDecode, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object", ErrPayloadDecode)
	}
	return obj, nil
}

// Subscriptions returns the dispatch table of this transport. The raw MQTT
// client supports topic handlers only.
func (c *Client) Subscriptions() handler.Table {
	return handler.Table{
		handler.KindTopic: c.subscribeDescriptor,
	}
}

func (c *Client) subscribeDescriptor(d handler.Descriptor) error {
	switch fn := d.Callback.(type) {
	case handler.TopicFunc:
		return c.SubscribeJSON(d.Key, fn)
	case handler.RawTopicFunc:
		return c.Subscribe(d.Key, MessageHandler(fn))
	default:
		return fmt.Errorf("%w: %s: unexpected callback type %T", ErrSubscribeFailed, d, d.Callback)
	}
}

// Unsubscribe removes a topic pattern and all its handlers.
//
// Parameters:
//   - topic: The exact topic pattern that was subscribed to
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Unsubscribe(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	c.dropRoute(topic)

	token := c.client.Unsubscribe(topic)
	if !token.WaitTimeout(c.settings.operationTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrUnsubscribeFailed, c.settings.operationTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnsubscribeFailed, err)
	}
	return nil
}

// removeRoute drops r unless the pattern has since been given a new route.
func (c *Client) removeRoute(r *route) {
	c.subMu.Lock()
	if c.routes[r.topic] == r {
		delete(c.routes, r.topic)
	}
	n := len(c.routes)
	c.subMu.Unlock()
	c.settings.metrics.SetSubscriptions(n)
}

func (c *Client) dropRoute(topic string) {
	c.subMu.Lock()
	delete(c.routes, topic)
	n := len(c.routes)
	c.subMu.Unlock()
	c.settings.metrics.SetSubscriptions(n)
}

// SubscriptionCount returns the number of subscribed topic patterns.
func (c *Client) SubscriptionCount() int {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return len(c.routes)
}

// HasSubscription checks if a subscription exists for the given topic pattern.
//
// Note: This checks only the exact pattern string, not pattern matching.
func (c *Client) HasSubscription(topic string) bool {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	_, exists := c.routes[topic]
	return exists
}

// HandlerCount returns the number of handlers attached to a topic pattern.
func (c *Client) HandlerCount(topic string) int {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	if r, ok := c.routes[topic]; ok {
		return len(r.handlers)
	}
	return 0
}

// routeHandler returns the paho callback for a subscribed pattern. It looks
// the handlers up on every message so handlers added later are included.
func (c *Client) routeHandler(pattern string) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		c.dispatch(pattern, msg.Topic(), msg.Payload())
	}
}

// dispatch invokes every handler of pattern once, in order.
func (c *Client) dispatch(pattern, topic string, payload []byte) {
	c.subMu.RLock()
	r, ok := c.routes[pattern]
	var handlers []MessageHandler
	if ok {
		handlers = make([]MessageHandler, len(r.handlers))
		copy(handlers, r.handlers)
	}
	c.subMu.RUnlock()

	c.settings.metrics.MessageReceived(pattern)
	for _, h := range handlers {
		c.invoke(pattern, topic, payload, h)
	}
}

// invoke runs one handler with panic recovery, logging and metrics.
func (c *Client) invoke(pattern, topic string, payload []byte, h MessageHandler) {
	start := time.Now()
	result := metrics.ResultOK

	defer func() {
		if r := recover(); r != nil {
			result = metrics.ResultPanic
			c.settings.logger.Error("MQTT handler panic recovered",
				"topic", topic,
				"subscription", pattern,
				"panic", r,
			)
		}
		c.settings.metrics.HandlerDone(pattern, result, time.Since(start))
	}()

	if err := h(topic, payload); err != nil {
		result = metrics.ResultError
		if errors.Is(err, ErrPayloadDecode) {
			c.settings.metrics.DecodeError(pattern)
		}
		c.settings.logger.Warn("MQTT handler returned error",
			"topic", topic,
			"subscription", pattern,
			"error", err,
		)
	}
}
