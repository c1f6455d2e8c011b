package component

import "github.com/nerrad567/snipskit-go/pkg/config"

// App is a Component with access to the assistant's configuration and an
// optional app configuration.
type App struct {
	*Component

	assistant *config.AssistantConfig
	appConfig *config.AppConfig
}

// NewApp creates an app component on transport.
//
// The Snips configuration is loaded as in New. The assistant configuration
// is then found through the assistant directory named in snips.toml, or the
// default search path if snips.toml does not name one. The app
// configuration is only loaded when WithAppConfig or WithAppConfigFile is
// given.
func NewApp(transport Transport, opts ...Option) (*App, error) {
	o := collect(opts)

	c, err := newComponent(transport, o)
	if err != nil {
		return nil, err
	}

	assistant := o.assistant
	if assistant == nil {
		if assistant, err = config.LoadAssistantConfigFor(c.snips); err != nil {
			return nil, err
		}
	}

	appConfig := o.appConfig
	if appConfig == nil && o.appConfigSet {
		if appConfig, err = config.LoadAppConfig(o.appConfigPath); err != nil {
			return nil, err
		}
	}

	return &App{
		Component: c,
		assistant: assistant,
		appConfig: appConfig,
	}, nil
}

// Assistant returns the assistant configuration.
func (a *App) Assistant() *config.AssistantConfig {
	return a.assistant
}

// Config returns the app configuration, or nil if the app has none.
func (a *App) Config() *config.AppConfig {
	return a.appConfig
}
