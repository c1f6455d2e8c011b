package handler

import "fmt"

// SubscribeFunc subscribes one descriptor on a transport.
type SubscribeFunc func(d Descriptor) error

// Table maps each routing kind a transport supports to its subscribe function.
type Table map[Kind]SubscribeFunc

// Kinds returns the kinds present in the table.
func (t Table) Kinds() []Kind {
	kinds := make([]Kind, 0, len(t))
	for k := KindTopic; k <= KindSessionStarted; k++ {
		if _, ok := t[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Register subscribes every descriptor of reg through table, in registration
// order. Each descriptor is subscribed exactly once.
//
// Returns:
//   - error: reg.Err() if registration recorded problems; ErrUnsupportedKind
//     if table has no entry for a descriptor's kind; ErrRegistration wrapping
//     the transport error if a subscription is rejected. Registration stops at
//     the first failure.
func Register(reg *Registry, table Table) error {
	if err := reg.Err(); err != nil {
		return err
	}

	for _, d := range reg.Descriptors() {
		subscribe, ok := table[d.Kind]
		if !ok || subscribe == nil {
			return fmt.Errorf("%w: %s", ErrUnsupportedKind, d)
		}
		if err := subscribe(d); err != nil {
			return fmt.Errorf("%w: %s (%s): %w", ErrRegistration, d, d.Name(), err)
		}
	}
	return nil
}
