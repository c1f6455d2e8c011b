package component

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/snipskit-go/pkg/config"
	"github.com/nerrad567/snipskit-go/pkg/handler"
	"github.com/nerrad567/snipskit-go/pkg/ontology"
)

// fakeTransport records lifecycle calls in order.
type fakeTransport struct {
	calls      []string
	connected  config.MQTTOptions
	connectErr error
	subscribed []handler.Descriptor
	subErr     error
	runFn      func(ctx context.Context) error
}

func (f *fakeTransport) Connect(_ context.Context, opts config.MQTTOptions) error {
	f.calls = append(f.calls, "connect")
	f.connected = opts
	return f.connectErr
}

func (f *fakeTransport) Subscriptions() handler.Table {
	subscribe := func(d handler.Descriptor) error {
		if f.subErr != nil {
			return f.subErr
		}
		f.calls = append(f.calls, "subscribe:"+d.String())
		f.subscribed = append(f.subscribed, d)
		return nil
	}
	return handler.Table{
		handler.KindIntent:       subscribe,
		handler.KindSessionEnded: subscribe,
	}
}

func (f *fakeTransport) Run(ctx context.Context) error {
	f.calls = append(f.calls, "run")
	if f.runFn != nil {
		return f.runFn(ctx)
	}
	return nil
}

func (f *fakeTransport) Close() error {
	f.calls = append(f.calls, "close")
	return nil
}

// testApp records its hooks.
type testApp struct {
	t         *testing.T
	c         *Component
	calls     *[]string
	initErr   error
	initCount int
}

func (a *testApp) Initialize(context.Context) error {
	a.initCount++
	*a.calls = append(*a.calls, "initialize")
	if a.c != nil && a.c.State() != StateConnected {
		a.t.Errorf("State() in Initialize = %s, want connected", a.c.State())
	}
	return a.initErr
}

func (a *testApp) Handlers(reg *handler.Registry) {
	*a.calls = append(*a.calls, "handlers")
	reg.Intent("koan:getWeather", a.onWeather)
	reg.SessionEnded(a.onSessionEnded)
}

func (a *testApp) onWeather(*ontology.IntentMessage) error             { return nil }
func (a *testApp) onSessionEnded(*ontology.SessionEndedMessage) error { return nil }

// handlersOnly has no Initialize.
type handlersOnly struct{}

func (handlersOnly) Handlers(reg *handler.Registry) {
	reg.Intent("a", func(*ontology.IntentMessage) error { return nil })
}

func testSnips() *config.SnipsConfig {
	return config.NewSnipsConfig(map[string]any{
		"snips-common": map[string]any{"mqtt": "mqtt.example.com:8883"},
	})
}

func TestNewNoTransport(t *testing.T) {
	_, err := New(nil, WithSnipsConfig(testSnips()))
	if !errors.Is(err, ErrNoTransport) {
		t.Errorf("New(nil) error = %v, want ErrNoTransport", err)
	}

	var typed *fakeTransport
	if _, err := New(typed, WithSnipsConfig(testSnips())); !errors.Is(err, ErrNoTransport) {
		t.Errorf("New((*fakeTransport)(nil)) error = %v, want ErrNoTransport", err)
	}
}

func TestNewLoadsSnipsConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snips.toml")
	if err := os.WriteFile(path, []byte("[snips-common]\nmqtt = \"broker:1884\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	c, err := New(&fakeTransport{}, WithSnipsConfigFile(path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := c.Snips().MQTT().BrokerAddress; got != "broker:1884" {
		t.Errorf("BrokerAddress = %q, want broker:1884", got)
	}
	if c.State() != StateCreated {
		t.Errorf("State() = %s, want created", c.State())
	}
}

func TestNewSnipsConfigNotFound(t *testing.T) {
	saved := config.SnipsSearchPath
	config.SnipsSearchPath = []string{filepath.Join(t.TempDir(), "missing.toml")}
	t.Cleanup(func() { config.SnipsSearchPath = saved })

	_, err := New(&fakeTransport{})
	if !errors.Is(err, config.ErrSnipsConfigNotFound) {
		t.Errorf("New() error = %v, want ErrSnipsConfigNotFound", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	transport := &fakeTransport{}
	c, err := New(transport, WithSnipsConfig(testSnips()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	app := &testApp{t: t, c: c, calls: &transport.calls}
	if err := c.Run(context.Background(), app); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []string{
		"connect",
		"initialize",
		"handlers",
		"subscribe:intent:koan:getWeather",
		"subscribe:session_ended",
		"run",
		"close",
	}
	if len(transport.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", transport.calls, want)
	}
	for i := range want {
		if transport.calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, transport.calls[i], want[i])
		}
	}

	if app.initCount != 1 {
		t.Errorf("Initialize called %d times, want 1", app.initCount)
	}
	if transport.connected.BrokerAddress != "mqtt.example.com:8883" {
		t.Errorf("connected with %+v", transport.connected)
	}
	if c.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", c.State())
	}
	if c.Registry() == nil || c.Registry().Len() != 2 {
		t.Errorf("Registry() = %v, want 2 descriptors", c.Registry())
	}
}

func TestRunStateWhileRunning(t *testing.T) {
	var c *Component
	var stateInLoop State
	transport := &fakeTransport{runFn: func(context.Context) error {
		stateInLoop = c.State()
		return nil
	}}

	var err error
	c, err = New(transport, WithSnipsConfig(testSnips()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Run(context.Background(), handlersOnly{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stateInLoop != StateRunning {
		t.Errorf("State() in loop = %s, want running", stateInLoop)
	}
}

func TestRunTwice(t *testing.T) {
	c, err := New(&fakeTransport{}, WithSnipsConfig(testSnips()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := c.Run(context.Background(), handlersOnly{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := c.Run(context.Background(), handlersOnly{}); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Run() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestRunNilApp(t *testing.T) {
	c, err := New(&fakeTransport{}, WithSnipsConfig(testSnips()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := c.Run(context.Background(), nil); !errors.Is(err, ErrNoApp) {
		t.Errorf("Run(nil) error = %v, want ErrNoApp", err)
	}
}

func TestRunFailures(t *testing.T) {
	rejected := errors.New("not authorized")

	tests := []struct {
		name      string
		transport *fakeTransport
		initErr   error
		wantErr   error
		wantCalls []string
	}{
		{
			name:      "connect fails",
			transport: &fakeTransport{connectErr: rejected},
			wantErr:   ErrConnect,
			wantCalls: []string{"connect", "close"},
		},
		{
			name:      "initialize fails",
			transport: &fakeTransport{},
			initErr:   rejected,
			wantErr:   ErrInitialize,
			wantCalls: []string{"connect", "initialize", "close"},
		},
		{
			name:      "registration fails",
			transport: &fakeTransport{subErr: rejected},
			wantErr:   handler.ErrRegistration,
			wantCalls: []string{"connect", "initialize", "handlers", "close"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.transport, WithSnipsConfig(testSnips()))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			app := &testApp{t: t, calls: &tc.transport.calls, initErr: tc.initErr}
			err = c.Run(context.Background(), app)
			if !errors.Is(err, tc.wantErr) || !errors.Is(err, rejected) {
				t.Fatalf("Run() error = %v, want %v wrapping the cause", err, tc.wantErr)
			}

			if len(tc.transport.calls) != len(tc.wantCalls) {
				t.Fatalf("calls = %v, want %v", tc.transport.calls, tc.wantCalls)
			}
			for i := range tc.wantCalls {
				if tc.transport.calls[i] != tc.wantCalls[i] {
					t.Errorf("calls[%d] = %q, want %q", i, tc.transport.calls[i], tc.wantCalls[i])
				}
			}
			if c.State() != StateStopped {
				t.Errorf("State() = %s, want stopped", c.State())
			}
		})
	}
}

func TestRunUnsupportedKind(t *testing.T) {
	c, err := New(&fakeTransport{}, WithSnipsConfig(testSnips()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = c.Run(context.Background(), topicApp{})
	if !errors.Is(err, handler.ErrUnsupportedKind) {
		t.Errorf("Run() error = %v, want ErrUnsupportedKind", err)
	}
}

type topicApp struct{}

func (topicApp) Handlers(reg *handler.Registry) {
	reg.Topic("sensors/#", func(string, map[string]any) error { return nil })
}

func TestRunUntilCancelled(t *testing.T) {
	transport := &fakeTransport{runFn: func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}}
	c, err := New(transport, WithSnipsConfig(testSnips()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := c.Run(ctx, handlersOnly{}); err != nil {
		t.Errorf("Run() error = %v", err)
	}
	if c.State() != StateStopped {
		t.Errorf("State() = %s, want stopped", c.State())
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateCreated:     "created",
		StateConnected:   "connected",
		StateInitialized: "initialized",
		StateRunning:     "running",
		StateStopped:     "stopped",
		State(99):        "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), got, want)
		}
	}
}
