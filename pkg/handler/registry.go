package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"runtime"
	"sync"
	"unsafe"

	"github.com/nerrad567/snipskit-go/pkg/ontology"
)

// Callback signatures, one per routing kind.
type (
	// TopicFunc receives a message payload decoded as a JSON object.
	TopicFunc func(topic string, payload map[string]any) error

	// RawTopicFunc receives the payload bytes as published.
	RawTopicFunc func(topic string, payload []byte) error

	// IntentFunc receives a recognised intent.
	IntentFunc func(msg *ontology.IntentMessage) error

	// IntentNotRecognizedFunc receives an intentNotRecognized event.
	IntentNotRecognizedFunc func(msg *ontology.IntentNotRecognizedMessage) error

	// SessionEndedFunc receives a sessionEnded event.
	SessionEndedFunc func(msg *ontology.SessionEndedMessage) error

	// SessionQueuedFunc receives a sessionQueued event.
	SessionQueuedFunc func(msg *ontology.SessionQueuedMessage) error

	// SessionStartedFunc receives a sessionStarted event.
	SessionStartedFunc func(msg *ontology.SessionStartedMessage) error
)

// Descriptor is the routing metadata of one registered callback.
type Descriptor struct {
	// Kind selects the transport subscription.
	Kind Kind

	// Key is the topic pattern (KindTopic) or intent name (KindIntent).
	// Empty for the other kinds.
	Key string

	// Raw is set for topic handlers that receive undecoded bytes.
	// Callback is then a RawTopicFunc instead of a TopicFunc.
	Raw bool

	// Callback is the registered function, one of the *Func types above.
	Callback any
}

// Name returns the Go name of the callback, for logging.
func (d Descriptor) Name() string {
	v := reflect.ValueOf(d.Callback)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "<nil>"
	}
	if fn := runtime.FuncForPC(v.Pointer()); fn != nil {
		return fn.Name()
	}
	return "<unknown>"
}

// String formats the descriptor as kind[:key].
func (d Descriptor) String() string {
	if d.Key == "" {
		return d.Kind.String()
	}
	return d.Kind.String() + ":" + d.Key
}

// Registry collects handler descriptors in registration order.
//
// Registration methods never fail. Problems are recorded and reported by Err,
// and Register refuses a registry with errors.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Registry struct {
	mu          sync.Mutex
	descriptors []Descriptor
	kinds       map[uintptr]Kind
	errs        []error
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[uintptr]Kind)}
}

// Topic binds fn to messages matching the MQTT topic pattern. The payload is
// decoded as a JSON object before fn is called. fn is returned unchanged.
func (r *Registry) Topic(pattern string, fn TopicFunc) TopicFunc {
	r.add(Descriptor{Kind: KindTopic, Key: pattern}, fn, callbackKey(fn), fn == nil)
	return fn
}

// RawTopic binds fn to messages matching the MQTT topic pattern, delivering
// the payload bytes unchanged. fn is returned unchanged.
func (r *Registry) RawTopic(pattern string, fn RawTopicFunc) RawTopicFunc {
	r.add(Descriptor{Kind: KindTopic, Key: pattern, Raw: true}, fn, callbackKey(fn), fn == nil)
	return fn
}

// Intent binds fn to the intent called name. fn is returned unchanged.
func (r *Registry) Intent(name string, fn IntentFunc) IntentFunc {
	r.add(Descriptor{Kind: KindIntent, Key: name}, fn, callbackKey(fn), fn == nil)
	return fn
}

// Intents binds fn to every recognised intent. fn is returned unchanged.
func (r *Registry) Intents(fn IntentFunc) IntentFunc {
	r.add(Descriptor{Kind: KindIntents}, fn, callbackKey(fn), fn == nil)
	return fn
}

// IntentNotRecognized binds fn to intentNotRecognized events.
func (r *Registry) IntentNotRecognized(fn IntentNotRecognizedFunc) IntentNotRecognizedFunc {
	r.add(Descriptor{Kind: KindIntentNotRecognized}, fn, callbackKey(fn), fn == nil)
	return fn
}

// SessionEnded binds fn to sessionEnded events.
func (r *Registry) SessionEnded(fn SessionEndedFunc) SessionEndedFunc {
	r.add(Descriptor{Kind: KindSessionEnded}, fn, callbackKey(fn), fn == nil)
	return fn
}

// SessionQueued binds fn to sessionQueued events.
func (r *Registry) SessionQueued(fn SessionQueuedFunc) SessionQueuedFunc {
	r.add(Descriptor{Kind: KindSessionQueued}, fn, callbackKey(fn), fn == nil)
	return fn
}

// SessionStarted binds fn to sessionStarted events.
func (r *Registry) SessionStarted(fn SessionStartedFunc) SessionStartedFunc {
	r.add(Descriptor{Kind: KindSessionStarted}, fn, callbackKey(fn), fn == nil)
	return fn
}

// add records a descriptor under key. isNil is passed by the typed methods
// because a nil func stored in an interface is not == nil.
func (r *Registry) add(d Descriptor, fn any, key uintptr, isNil bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if isNil {
		r.errs = append(r.errs, fmt.Errorf("%w: %s: nil callback", ErrInvalidHandler, d))
		return
	}
	if d.Kind.Keyed() && d.Key == "" {
		r.errs = append(r.errs, fmt.Errorf("%w: %s: empty routing key", ErrInvalidHandler, d.Kind))
		return
	}

	d.Callback = fn
	if prev, ok := r.kinds[key]; ok && prev != d.Kind {
		r.errs = append(r.errs, fmt.Errorf("%w: %s already bound to %s, cannot bind to %s",
			ErrConflictingRouting, d.Name(), prev, d.Kind))
		return
	}
	r.kinds[key] = d.Kind
	r.descriptors = append(r.descriptors, d)
}

// literalName matches the names the compiler gives function literals,
// e.g. "pkg.newPrinter.func1" or "pkg.(*T).Handlers.func2.1".
var literalName = regexp.MustCompile(`\.func\d+(\.\d+)*$`)

// callbackKey identifies a callback for the conflicting-routing check.
//
// Named functions and method values are identified by their code, so
// app.onWeather is the same callback however often the method value is
// taken. Function literals are identified by the closure instance: two
// closures made by one factory are different callbacks, whether or not the
// factory was inlined. Literals that capture nothing may share one
// instance. The key stays valid while the descriptor holding fn
// is alive.
func callbackKey[F any](fn F) uintptr {
	code := reflect.ValueOf(fn).Pointer()
	if f := runtime.FuncForPC(code); f != nil && literalName.MatchString(f.Name()) {
		// A func value is a single pointer to its closure.
		return *(*uintptr)(unsafe.Pointer(&fn))
	}
	return code
}

// Descriptors returns a copy of the recorded descriptors in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Descriptor, len(r.descriptors))
	copy(out, r.descriptors)
	return out
}

// Len returns the number of recorded descriptors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.descriptors)
}

// Err returns every problem recorded during registration, joined, or nil.
func (r *Registry) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(r.errs...)
}
