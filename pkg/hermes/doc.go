// Package hermes is the intent transport for snipskit apps.
//
// It speaks the Hermes protocol of the Snips dialogue manager on top of an
// MQTT connection: intent and session events are decoded into ontology
// messages before handlers see them, and dialogue replies are published
// with EndSession, ContinueSession and StartSession.
//
//	client := hermes.New(mqtt.New(mqtt.WithLogger(logger)))
//	if err := client.Connect(ctx, snips.MQTT()); err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.SubscribeIntent("koan:getWeather", func(msg *ontology.IntentMessage) error {
//	    return client.EndSession(msg.SessionID, "It's sunny")
//	})
//	return client.Run(ctx)
package hermes
