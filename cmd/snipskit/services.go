package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nerrad567/snipskit-go/pkg/services"
)

// newInspector is replaced in tests.
var newInspector = func() *services.Inspector {
	return services.NewInspector()
}

type servicesReport struct {
	Platform string            `yaml:"platform_version" json:"platform_version"`
	Model    string            `yaml:"model_version" json:"model_version"`
	Services []services.Status `yaml:"services" json:"services"`
}

func newServicesCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "services",
		Short: "Show which Snips services are installed and running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			inspector := newInspector()

			statuses, err := inspector.Statuses(ctx)
			if err != nil {
				return err
			}
			platform, err := inspector.PlatformVersion(ctx)
			if err != nil {
				return err
			}
			model, err := inspector.ModelVersion(ctx)
			if err != nil {
				return err
			}

			report := servicesReport{Platform: platform, Model: model, Services: statuses}
			if format == "table" {
				return writeServicesTable(cmd, report)
			}
			return writeFormatted(cmd.OutOrStdout(), format, report)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, yaml or json")
	return cmd
}

func writeServicesTable(cmd *cobra.Command, r servicesReport) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SERVICE\tINSTALLED\tRUNNING\tVERSION")
	for _, st := range r.Services {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", st.Name, yesNo(st.Installed), yesNo(st.Running), dash(st.Version))
	}
	fmt.Fprintf(tw, "\nplatform version:\t%s\n", dash(r.Platform))
	fmt.Fprintf(tw, "model version:\t%s\n", dash(r.Model))
	return tw.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
