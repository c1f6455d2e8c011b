package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/nerrad567/snipskit-go/pkg/config"
	"github.com/nerrad567/snipskit-go/pkg/handler"
	"github.com/nerrad567/snipskit-go/pkg/mqtt"
	"github.com/nerrad567/snipskit-go/pkg/ontology"
)

// Conn is the MQTT connection a Client runs on. *mqtt.Client implements it.
type Conn interface {
	Connect(ctx context.Context, opts config.MQTTOptions) error
	Subscribe(topic string, h mqtt.MessageHandler) error
	Publish(topic string, payload any) error
	Run(ctx context.Context) error
	Stop()
	Close() error
}

// Client subscribes to Hermes events and publishes dialogue commands.
type Client struct {
	conn   Conn
	topics ontology.Topics
}

// New returns a Client running on conn.
func New(conn Conn) *Client {
	return &Client{conn: conn}
}

// Conn returns the underlying MQTT connection.
func (c *Client) Conn() Conn {
	return c.conn
}

// Connect connects the underlying MQTT connection.
func (c *Client) Connect(ctx context.Context, opts config.MQTTOptions) error {
	return c.conn.Connect(ctx, opts)
}

// Run blocks until ctx is done or Stop or Close is called.
func (c *Client) Run(ctx context.Context) error {
	return c.conn.Run(ctx)
}

// Stop makes Run return. It is safe to call from a handler.
func (c *Client) Stop() {
	c.conn.Stop()
}

// Close disconnects the underlying MQTT connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// SubscribeIntent calls fn for every recognised intent called name.
func (c *Client) SubscribeIntent(name string, fn handler.IntentFunc) error {
	if name == "" {
		return fmt.Errorf("%w: empty intent name", mqtt.ErrInvalidTopic)
	}
	return c.conn.Subscribe(c.topics.Intent(name), decode[ontology.IntentMessage](fn))
}

// SubscribeIntents calls fn for every recognised intent.
func (c *Client) SubscribeIntents(fn handler.IntentFunc) error {
	return c.conn.Subscribe(c.topics.AllIntents(), decode[ontology.IntentMessage](fn))
}

// SubscribeIntentNotRecognized calls fn when the dialogue manager reports an
// unrecognised input.
func (c *Client) SubscribeIntentNotRecognized(fn handler.IntentNotRecognizedFunc) error {
	return c.conn.Subscribe(ontology.TopicIntentNotRecognized, decode[ontology.IntentNotRecognizedMessage](fn))
}

// SubscribeSessionEnded calls fn when a dialogue session ends.
func (c *Client) SubscribeSessionEnded(fn handler.SessionEndedFunc) error {
	return c.conn.Subscribe(ontology.TopicSessionEnded, decode[ontology.SessionEndedMessage](fn))
}

// SubscribeSessionQueued calls fn when a dialogue session is queued.
func (c *Client) SubscribeSessionQueued(fn handler.SessionQueuedFunc) error {
	return c.conn.Subscribe(ontology.TopicSessionQueued, decode[ontology.SessionQueuedMessage](fn))
}

// SubscribeSessionStarted calls fn when a dialogue session starts.
func (c *Client) SubscribeSessionStarted(fn handler.SessionStartedFunc) error {
	return c.conn.Subscribe(ontology.TopicSessionStarted, decode[ontology.SessionStartedMessage](fn))
}

// decode adapts a typed Hermes handler to an MQTT message handler.
// A nil fn yields a nil handler, which the connection rejects.
func decode[T any](fn func(*T) error) mqtt.MessageHandler {
	if fn == nil {
		return nil
	}
	return func(topic string, payload []byte) error {
		if !utf8.Valid(payload) {
			return fmt.Errorf("%w: %s: payload is not valid UTF-8", mqtt.ErrPayloadDecode, topic)
		}
		var msg T
		if err := json.Unmarshal(payload, &msg); err != nil {
			return fmt.Errorf("%w: %s: %w", mqtt.ErrPayloadDecode, topic, err)
		}
		return fn(&msg)
	}
}

// Subscriptions returns the dispatch table of this transport: intents and
// dialogue session events. Raw topic handlers belong on the mqtt transport.
func (c *Client) Subscriptions() handler.Table {
	return handler.Table{
		handler.KindIntent: func(d handler.Descriptor) error {
			fn, err := callback[handler.IntentFunc](d)
			if err != nil {
				return err
			}
			return c.SubscribeIntent(d.Key, fn)
		},
		handler.KindIntents: func(d handler.Descriptor) error {
			fn, err := callback[handler.IntentFunc](d)
			if err != nil {
				return err
			}
			return c.SubscribeIntents(fn)
		},
		handler.KindIntentNotRecognized: func(d handler.Descriptor) error {
			fn, err := callback[handler.IntentNotRecognizedFunc](d)
			if err != nil {
				return err
			}
			return c.SubscribeIntentNotRecognized(fn)
		},
		handler.KindSessionEnded: func(d handler.Descriptor) error {
			fn, err := callback[handler.SessionEndedFunc](d)
			if err != nil {
				return err
			}
			return c.SubscribeSessionEnded(fn)
		},
		handler.KindSessionQueued: func(d handler.Descriptor) error {
			fn, err := callback[handler.SessionQueuedFunc](d)
			if err != nil {
				return err
			}
			return c.SubscribeSessionQueued(fn)
		},
		handler.KindSessionStarted: func(d handler.Descriptor) error {
			fn, err := callback[handler.SessionStartedFunc](d)
			if err != nil {
				return err
			}
			return c.SubscribeSessionStarted(fn)
		},
	}
}

func callback[F any](d handler.Descriptor) (F, error) {
	fn, ok := d.Callback.(F)
	if !ok {
		return fn, fmt.Errorf("%w: %s: unexpected callback type %T", mqtt.ErrSubscribeFailed, d, d.Callback)
	}
	return fn, nil
}
