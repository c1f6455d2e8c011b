package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/snipskit-go/pkg/config"
)

// Client wraps paho.mqtt.golang for snipskit apps.
//
// It provides connection management from Snips settings, topic fan-out to
// multiple handlers, JSON decoding and publishing, and a blocking run loop.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
//   - Subscriptions are automatically restored on reconnection.
type Client struct {
	client   pahomqtt.Client
	settings settings
	broker   string

	// routes maps each subscribed topic pattern to its handlers.
	routes map[string]*route
	subMu  sync.RWMutex

	// connected tracks current connection state.
	connected bool
	connMu    sync.RWMutex

	done      chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
}

// route is one broker subscription and the handlers attached to it.
type route struct {
	topic    string
	qos      byte
	handlers []MessageHandler

	// ready is closed once the broker has answered the subscription.
	// err is its outcome and must only be read after ready is closed.
	ready chan struct{}
	err   error
}

// MessageHandler is the callback signature for received messages.
//
// Handlers run on the paho router goroutine, one message at a time.
// They should not block for extended periods.
//
// Parameters:
//   - topic: The topic the message was received on (wildcards expanded)
//   - payload: The raw message payload
//
// Returns:
//   - error: Logged; does not affect other handlers
type MessageHandler func(topic string, payload []byte) error

// New creates an unconnected client.
func New(opts ...Option) *Client {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	return &Client{
		settings: s,
		routes:   make(map[string]*route),
		done:     make(chan struct{}),
	}
}

// ClientID returns the MQTT client ID.
func (c *Client) ClientID() string {
	return c.settings.clientID
}

// Connect establishes a connection to the MQTT broker described by opts.
//
// It performs the following setup:
//  1. Builds connection options (broker URL, auth, TLS, bind address)
//  2. Sets up auto-reconnect with subscription restoration
//  3. Attempts the initial connection, bounded by ctx and the connect timeout
//
// Parameters:
//   - ctx: Cancels the initial connection attempt
//   - opts: MQTT settings, usually SnipsConfig.MQTT()
//
// Returns:
//   - error: ErrInvalidBrokerAddress / ErrInvalidTLSConfig for bad settings,
//     ErrConnectionFailed if the broker cannot be reached
func (c *Client) Connect(ctx context.Context, opts config.MQTTOptions) error {
	if c.IsConnected() {
		return ErrAlreadyConnected
	}

	po, err := buildClientOptions(opts, c.settings)
	if err != nil {
		return err
	}

	po.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	po.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleDisconnect(err)
	})
	po.SetReconnectingHandler(func(_ pahomqtt.Client, _ *pahomqtt.ClientOptions) {
		c.settings.logger.Info("reconnecting to MQTT broker", "broker", c.broker)
	})

	c.broker = po.Servers[0].String()
	c.client = c.settings.newClient(po)

	token := c.client.Connect()
	if err := c.wait(ctx, token, c.settings.connectTimeout); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConnectionFailed, c.broker, err)
	}

	// The OnConnectHandler runs asynchronously and may not have executed
	// yet, so mark the client connected here.
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	c.settings.logger.Info("connected to MQTT broker",
		"broker", c.broker,
		"client_id", c.settings.clientID,
		"tls", opts.TLSEnabled(),
		"auth", opts.AuthEnabled(),
	)
	return nil
}

// wait blocks until token completes, ctx is done or timeout elapses.
func (c *Client) wait(ctx context.Context, token pahomqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}
}

// handleConnect is called when the connection is established.
func (c *Client) handleConnect() {
	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	c.restoreSubscriptions()
}

// handleDisconnect is called when the connection is lost.
func (c *Client) handleDisconnect(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	c.settings.logger.Warn("MQTT connection lost", "broker", c.broker, "error", err)
}

// restoreSubscriptions re-subscribes to all tracked topics after reconnect.
func (c *Client) restoreSubscriptions() {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for _, r := range c.routes {
		// Errors during reconnection are ignored; paho retries the connection.
		c.client.Subscribe(r.topic, r.qos, c.routeHandler(r.topic))
	}
}

// Run blocks until ctx is done or Stop or Close is called, while paho
// delivers messages to the registered handlers.
//
// Returns:
//   - error: ErrNotConnected if Connect has not succeeded, nil otherwise
func (c *Client) Run(ctx context.Context) error {
	if c.client == nil {
		return ErrNotConnected
	}

	select {
	case <-ctx.Done():
		c.settings.logger.Debug("MQTT run loop stopped", "reason", ctx.Err())
	case <-c.done:
		c.settings.logger.Debug("MQTT run loop stopped", "reason", "stopped")
	}
	return nil
}

// Stop makes Run return without disconnecting. It is safe to call from a
// handler, where Close would wait on the router goroutine it is running on.
func (c *Client) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Close stops Run and disconnects from the MQTT broker.
// It can be called more than once.
//
// Returns:
//   - error: Always nil; an already closed connection is not an error
func (c *Client) Close() error {
	c.Stop()

	c.closeOnce.Do(func() {
		if c.client == nil {
			return
		}

		// Disconnect with quiesce period for pending operations
		c.client.Disconnect(defaultDisconnectQuiesce)

		c.connMu.Lock()
		c.connected = false
		c.connMu.Unlock()

		c.settings.logger.Info("disconnected from MQTT broker", "broker", c.broker)
	})
	return nil
}

// HealthCheck verifies the MQTT connection is alive.
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("mqtt health check: %w", ctx.Err())
	default:
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}
	return nil
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}
