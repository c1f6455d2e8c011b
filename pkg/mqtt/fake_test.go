package mqtt

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/snipskit-go/pkg/config"
)

// fakeToken is an already completed paho token.
type fakeToken struct {
	err  error
	done chan struct{}
}

func newToken(err error) *fakeToken {
	done := make(chan struct{})
	close(done)
	return &fakeToken{err: err, done: done}
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

// fakeMessage implements pahomqtt.Message.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 0 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type published struct {
	topic    string
	qos      byte
	retained bool
	payload  []byte
}

// fakePaho is an in-memory pahomqtt.Client. Delivered messages go to every
// subscription whose filter matches, like the paho router.
type fakePaho struct {
	mu sync.Mutex

	opts         *pahomqtt.ClientOptions
	connected    bool
	connectErr   error
	subscribeErr map[string]error

	// subscribeGate holds Subscribe for a topic until the channel is closed.
	subscribeGate map[string]chan struct{}

	subs           map[string]pahomqtt.MessageHandler
	subscribeCalls []string
	unsubscribed   []string
	published      []published
	disconnects    int
}

func newFakePaho() *fakePaho {
	return &fakePaho{
		subs:          make(map[string]pahomqtt.MessageHandler),
		subscribeErr:  make(map[string]error),
		subscribeGate: make(map[string]chan struct{}),
	}
}

func (f *fakePaho) factory(opts *pahomqtt.ClientOptions) pahomqtt.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opts = opts
	return f
}

func (f *fakePaho) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

func (f *fakePaho) IsConnectionOpen() bool { return f.IsConnected() }

func (f *fakePaho) Connect() pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return newToken(f.connectErr)
	}
	f.connected = true
	return newToken(nil)
}

func (f *fakePaho) Disconnect(uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.disconnects++
}

func (f *fakePaho) Publish(topic string, qos byte, retained bool, payload any) pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	var data []byte
	switch p := payload.(type) {
	case []byte:
		data = p
	case string:
		data = []byte(p)
	default:
		return newToken(fmt.Errorf("unsupported payload %T", payload))
	}
	f.published = append(f.published, published{topic, qos, retained, data})
	return newToken(nil)
}

func (f *fakePaho) Subscribe(topic string, _ byte, callback pahomqtt.MessageHandler) pahomqtt.Token {
	f.mu.Lock()
	f.subscribeCalls = append(f.subscribeCalls, topic)
	gate := f.subscribeGate[topic]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.subscribeErr[topic]; err != nil {
		return newToken(err)
	}
	f.subs[topic] = callback
	return newToken(nil)
}

func (f *fakePaho) SubscribeMultiple(filters map[string]byte, callback pahomqtt.MessageHandler) pahomqtt.Token {
	for topic, qos := range filters {
		if tok := f.Subscribe(topic, qos, callback); tok.Error() != nil {
			return tok
		}
	}
	return newToken(nil)
}

func (f *fakePaho) Unsubscribe(topics ...string) pahomqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range topics {
		delete(f.subs, t)
		f.unsubscribed = append(f.unsubscribed, t)
	}
	return newToken(nil)
}

func (f *fakePaho) AddRoute(topic string, callback pahomqtt.MessageHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[topic] = callback
}

func (f *fakePaho) OptionsReader() pahomqtt.ClientOptionsReader {
	return pahomqtt.NewOptionsReader(f.opts)
}

// deliver simulates an inbound message.
func (f *fakePaho) deliver(topic string, payload []byte) {
	f.mu.Lock()
	var callbacks []pahomqtt.MessageHandler
	for filter, cb := range f.subs {
		if MatchTopic(filter, topic) {
			callbacks = append(callbacks, cb)
		}
	}
	f.mu.Unlock()

	msg := fakeMessage{topic: topic, payload: payload}
	for _, cb := range callbacks {
		cb(f, msg)
	}
}

// recordingLogger captures log calls by level.
type recordingLogger struct {
	mu   sync.Mutex
	msgs map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{msgs: make(map[string][]string)}
}

func (l *recordingLogger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs[level] = append(l.msgs[level], msg)
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.log("debug", msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.log("info", msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.log("warn", msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.log("error", msg) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.msgs[level])
}

// newTestClient returns a client connected to a fake broker with default
// Snips settings.
// hold makes the next Subscribe calls for topic block until the returned
// func is called.
func (f *fakePaho) hold(topic string) (release func()) {
	gate := make(chan struct{})
	f.mu.Lock()
	f.subscribeGate[topic] = gate
	f.mu.Unlock()
	return func() { close(gate) }
}

func (f *fakePaho) subscribeCount(topic string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.subscribeCalls {
		if t == topic {
			n++
		}
	}
	return n
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakePaho) {
	t.Helper()

	fake := newFakePaho()
	opts = append([]Option{WithPahoFactory(fake.factory)}, opts...)
	client := New(opts...)

	if err := client.Connect(context.Background(), config.DefaultMQTTOptions()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, fake
}
