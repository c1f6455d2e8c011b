package component

import "github.com/nerrad567/snipskit-go/pkg/config"

type options struct {
	snips         *config.SnipsConfig
	snipsPath     string
	assistant     *config.AssistantConfig
	appConfig     *config.AppConfig
	appConfigPath string
	appConfigSet  bool
	logger        Logger
}

func collect(opts []Option) options {
	o := options{logger: noopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Option configures a Component or App.
type Option func(*options)

// WithSnipsConfig uses snips instead of loading snips.toml.
func WithSnipsConfig(snips *config.SnipsConfig) Option {
	return func(o *options) { o.snips = snips }
}

// WithSnipsConfigFile loads snips.toml from path instead of the default
// search path.
func WithSnipsConfigFile(path string) Option {
	return func(o *options) { o.snipsPath = path }
}

// WithAssistantConfig uses assistant instead of loading assistant.json.
// Only used by NewApp.
func WithAssistantConfig(assistant *config.AssistantConfig) Option {
	return func(o *options) { o.assistant = assistant }
}

// WithAppConfig gives the app an already loaded configuration.
// Only used by NewApp.
func WithAppConfig(cfg *config.AppConfig) Option {
	return func(o *options) {
		o.appConfig = cfg
		o.appConfigSet = true
	}
}

// WithAppConfigFile loads the app configuration from path, or from
// config.ini in the working directory if path is empty.
// Only used by NewApp.
func WithAppConfigFile(path string) Option {
	return func(o *options) {
		o.appConfigPath = path
		o.appConfigSet = true
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
