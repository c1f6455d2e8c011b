package main

import (
	"github.com/spf13/cobra"

	"github.com/nerrad567/snipskit-go/pkg/config"
	"github.com/nerrad567/snipskit-go/pkg/logging"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	snipsConfig string
	logLevel    string
	logFormat   string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "snipskit",
		Short: "Inspect a Snips installation and its MQTT bus",
		Long: `snipskit reads the Snips platform, assistant and app configuration,
reports which Snips services are installed and running, and prints the
messages published on the Snips MQTT bus.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.snipsConfig, "snips-config", "", "path to snips.toml (default: search the standard locations)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "text", "log format: text or json")

	cmd.AddCommand(
		newConfigCmd(flags),
		newAppConfigCmd(),
		newServicesCmd(),
		newListenCmd(flags),
		newIntentsCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

// logger builds the command's logger. Logs go to stderr so stdout only
// carries command output.
func (f *rootFlags) logger(cmd *cobra.Command) *logging.Logger {
	return logging.New(logging.Config{
		Level:  f.logLevel,
		Format: f.logFormat,
		Writer: cmd.ErrOrStderr(),
	}, version)
}

func (f *rootFlags) loadSnips() (*config.SnipsConfig, error) {
	return config.LoadSnipsConfig(f.snipsConfig)
}
