package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/nerrad567/snipskit-go/pkg/config"
)

// configReport is what an app resolves from the platform and assistant
// configuration.
type configReport struct {
	SnipsConfig string             `yaml:"snips_config" json:"snips_config"`
	MQTT        config.MQTTOptions `yaml:"mqtt" json:"mqtt"`
	TLS         bool               `yaml:"tls" json:"tls"`
	Auth        bool               `yaml:"auth" json:"auth"`
	Assistant   string             `yaml:"assistant,omitempty" json:"assistant,omitempty"`
	Language    string             `yaml:"language,omitempty" json:"language,omitempty"`
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved Snips configuration",
		Long: `Show the configuration a snipskit app would use: the snips.toml that was
found, the MQTT connection settings derived from it and the assistant.json
it points to. Passwords are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := resolveConfig(flags)
			if err != nil {
				return err
			}
			return writeFormatted(cmd.OutOrStdout(), format, report)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatYAML, "output format: yaml or json")
	return cmd
}

// resolveConfig loads snips.toml and, if one can be found, the assistant
// configuration. A missing assistant is reported as empty fields.
func resolveConfig(flags *rootFlags) (*configReport, error) {
	snips, err := flags.loadSnips()
	if err != nil {
		return nil, err
	}

	mqttOpts := snips.MQTT()
	report := &configReport{
		SnipsConfig: snips.Filename(),
		MQTT:        mqttOpts,
		TLS:         mqttOpts.TLSEnabled(),
		Auth:        mqttOpts.AuthEnabled(),
	}

	assistant, err := config.LoadAssistantConfigFor(snips)
	switch {
	case errors.Is(err, config.ErrAssistantConfigNotFound), errors.Is(err, config.ErrFileNotFound):
		return report, nil
	case err != nil:
		return nil, err
	}

	report.Assistant = assistant.Filename()
	if lang, err := assistant.Language(); err == nil {
		report.Language = lang
	}
	return report, nil
}
