package component

import "errors"

var (
	// ErrNoTransport is returned by New when the transport is nil or a nil
	// pointer.
	ErrNoTransport = errors.New("component: transport is nil")

	// ErrNoApp is returned by Run when the app is nil.
	ErrNoApp = errors.New("component: app is nil")

	// ErrAlreadyStarted is returned by Run on a component that has been run before.
	ErrAlreadyStarted = errors.New("component: already started")

	// ErrConnect wraps transport connection failures.
	ErrConnect = errors.New("component: connect failed")

	// ErrInitialize wraps errors returned by an app's Initialize hook.
	ErrInitialize = errors.New("component: initialize failed")
)
