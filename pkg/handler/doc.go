// Package handler binds app callbacks to routing metadata and registers them
// with a transport.
//
// A Registry records, for each callback, what it should receive: a raw MQTT
// topic, a named intent, every intent, or one of the dialogue session
// events. Recording is pure metadata. The callback is stored and returned
// unchanged, so it can still be called directly in unit tests.
//
// Register walks a Registry and hands each Descriptor to the subscribe
// function a transport provides for its Kind:
//
//	reg := handler.NewRegistry()
//	reg.Intent("koan:getWeather", app.onWeather)
//	reg.SessionEnded(app.onSessionEnded)
//
//	if err := handler.Register(reg, client.Subscriptions()); err != nil {
//	    return err
//	}
//
// A transport only supports some kinds. The raw MQTT client handles topics;
// the Hermes client handles intents and session events. Registering a kind
// the transport does not support fails with ErrUnsupportedKind.
package handler
