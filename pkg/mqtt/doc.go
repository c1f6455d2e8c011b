// Package mqtt provides the raw MQTT transport for snipskit apps.
//
// This package manages:
//   - Connection to the Snips MQTT broker, with settings derived from snips.toml
//   - Optional username/password authentication and TLS
//   - Topic subscriptions with wildcard support and per-topic fan-out
//   - JSON payload decoding for topic handlers
//   - Message publishing
//   - A blocking run loop for apps
//
// # Architecture
//
// Snips services talk to each other over an MQTT broker (usually Mosquitto
// on the same device). Apps subscribe to the topics they care about and
// publish replies.
//
//	Snips services ↔ MQTT Broker ↔ snipskit apps
//
// Every topic pattern is subscribed once on the broker. Any number of
// handlers can be attached to a pattern; each inbound message invokes every
// handler of every matching pattern, one after another, on the paho router
// goroutine. A handler that returns an error or panics is logged and does
// not stop the remaining handlers.
//
// # Security Considerations
//
//   - TLS is enabled only when mqtt_tls_hostname is set in snips.toml
//   - Credentials are sent only when both mqtt_username and mqtt_password are set
//   - Passwords are never logged
//
// # Usage
//
//	client := mqtt.New(mqtt.WithLogger(logger))
//	if err := client.Connect(ctx, snips.MQTT()); err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err := client.SubscribeJSON("sensors/+/temperature",
//	    func(topic string, payload map[string]any) error {
//	        logger.Info("temperature", "topic", topic, "value", payload["value"])
//	        return nil
//	    })
//
//	return client.Run(ctx)
package mqtt
