package handler

import "errors"

var (
	// ErrInvalidHandler is recorded when a callback is nil or a required
	// routing key is empty.
	ErrInvalidHandler = errors.New("handler: invalid handler")

	// ErrConflictingRouting is recorded when one callback is bound to two
	// different routing kinds.
	ErrConflictingRouting = errors.New("handler: callback bound to more than one routing kind")

	// ErrUnsupportedKind is returned by Register when the transport has no
	// subscribe function for a descriptor's kind.
	ErrUnsupportedKind = errors.New("handler: routing kind not supported by transport")

	// ErrRegistration is returned by Register when the transport rejects a
	// subscription.
	ErrRegistration = errors.New("handler: registration failed")
)
