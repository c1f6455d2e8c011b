package component

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/nerrad567/snipskit-go/pkg/config"
	"github.com/nerrad567/snipskit-go/pkg/handler"
)

// Transport is a connection to Snips that can run handlers.
// *mqtt.Client and *hermes.Client implement it.
type Transport interface {
	Connect(ctx context.Context, opts config.MQTTOptions) error
	Subscriptions() handler.Table
	Run(ctx context.Context) error
	Close() error
}

// Handlers is implemented by apps to bind their callbacks.
type Handlers interface {
	Handlers(reg *handler.Registry)
}

// Initializer is implemented by apps that need to run code after the
// transport connects and before handlers are registered.
type Initializer interface {
	Initialize(ctx context.Context) error
}

// Logger is the logging interface used by Component.
// Compatible with *logging.Logger and *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Component ties a Snips configuration to a transport and runs an app on it.
//
// Thread Safety:
//   - State may be called from any goroutine.
//   - Run may be called once.
type Component struct {
	transport Transport
	snips     *config.SnipsConfig
	logger    Logger

	mu       sync.Mutex
	state    State
	started  bool
	registry *handler.Registry
}

// New creates a component on transport. Unless WithSnipsConfig is given,
// snips.toml is loaded from the default search path.
//
// Returns:
//   - error: ErrNoTransport, or the config loading error
func New(transport Transport, opts ...Option) (*Component, error) {
	o := collect(opts)
	return newComponent(transport, o)
}

func newComponent(transport Transport, o options) (*Component, error) {
	if isNil(transport) {
		return nil, ErrNoTransport
	}

	snips := o.snips
	if snips == nil {
		var err error
		if snips, err = config.LoadSnipsConfig(o.snipsPath); err != nil {
			return nil, err
		}
	}

	return &Component{
		transport: transport,
		snips:     snips,
		logger:    o.logger,
		state:     StateCreated,
	}, nil
}

// isNil reports whether t is nil or holds a nil pointer.
func isNil(t Transport) bool {
	if t == nil {
		return true
	}
	v := reflect.ValueOf(t)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Snips returns the Snips configuration.
func (c *Component) Snips() *config.SnipsConfig {
	return c.snips
}

// Transport returns the transport the component runs on.
func (c *Component) Transport() Transport {
	return c.transport
}

// State returns the current lifecycle state.
func (c *Component) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Registry returns the handlers registered by Run, or nil before that.
func (c *Component) Registry() *handler.Registry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry
}

func (c *Component) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.logger.Debug("component state changed", "state", s.String())
}

// Run drives the lifecycle and blocks in the transport's event loop.
//
//  1. Connects the transport with the MQTT settings of snips.toml
//  2. Calls app.Initialize once, if app implements Initializer
//  3. Collects app.Handlers and registers them on the transport
//  4. Runs the transport until ctx is done or the transport is stopped
//
// The transport is closed when Run returns, whatever the outcome.
//
// Returns:
//   - error: ErrAlreadyStarted on a second call, ErrConnect, ErrInitialize,
//     a handler registration error, or the error of the event loop
func (c *Component) Run(ctx context.Context, app Handlers) error {
	if app == nil {
		return ErrNoApp
	}

	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.started = true
	c.mu.Unlock()

	defer func() {
		if err := c.transport.Close(); err != nil {
			c.logger.Warn("closing transport", "error", err)
		}
		c.setState(StateStopped)
	}()

	mqttOpts := c.snips.MQTT()
	if err := c.transport.Connect(ctx, mqttOpts); err != nil {
		return fmt.Errorf("%w: %w", ErrConnect, err)
	}
	c.setState(StateConnected)

	if init, ok := app.(Initializer); ok {
		if err := init.Initialize(ctx); err != nil {
			return fmt.Errorf("%w: %w", ErrInitialize, err)
		}
	}
	c.setState(StateInitialized)

	reg := handler.NewRegistry()
	app.Handlers(reg)
	if err := handler.Register(reg, c.transport.Subscriptions()); err != nil {
		return err
	}
	c.mu.Lock()
	c.registry = reg
	c.mu.Unlock()

	c.setState(StateRunning)
	c.logger.Info("app running",
		"broker", mqttOpts.BrokerAddress,
		"handlers", reg.Len(),
	)

	return c.transport.Run(ctx)
}
