// Package component runs a snipskit app: it loads the Snips configuration,
// connects a transport, initialises the app, registers its handlers and
// blocks in the transport's event loop.
//
// An app is any type with a Handlers method. It may also implement
// Initializer to run code after connecting and before handlers are
// registered.
//
//	type weatherApp struct{ client *hermes.Client }
//
//	func (a *weatherApp) Handlers(reg *handler.Registry) {
//	    reg.Intent("koan:getWeather", a.onWeather)
//	}
//
//	client := hermes.New(mqtt.New())
//	c, err := component.NewApp(client, component.WithAppConfigFile("config.ini"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(c.Run(ctx, &weatherApp{client: client}))
//
// Lifecycle:
//
//	Created → Connected → Initialized → Running → Stopped
package component
