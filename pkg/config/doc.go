// Package config gives access to the three configuration sources of a Snips
// app.
//
// This package manages:
//   - The platform configuration (snips.toml, TOML) and the MQTT connection
//     settings derived from it
//   - The assistant configuration (assistant.json, JSON)
//   - The app configuration (config.ini, INI), which can be written back
//
// # Locations
//
// When no explicit path is given, the platform and assistant configurations
// are searched for in fixed locations and the first existing one wins:
//
//	/etc/snips.toml
//	/usr/local/etc/snips.toml
//
//	/usr/share/snips/assistant/assistant.json
//	/usr/local/share/snips/assistant/assistant.json
//
// The app configuration defaults to config.ini in the working directory.
// A path that is given explicitly is never replaced by a search.
//
// # Errors
//
// Missing files, empty search paths and parse failures are reported with the
// sentinel errors in errors.go. Lookups of absent keys return ErrKeyNotFound
// and leave the loaded configuration usable.
//
// # Usage
//
//	snips, err := config.LoadSnipsConfig("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(snips.MQTT().BrokerAddress)
//
//	assistant, err := config.LoadAssistantConfigFor(snips)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	lang, _ := assistant.Language()
package config
