package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/snipskit-go/pkg/config"
)

func newAppConfigCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "app-config",
		Short: "Read and change an app's config.ini",
	}
	cmd.PersistentFlags().StringVarP(&file, "file", "f", "", "path to the app configuration (default: ./"+config.DefaultAppConfigFile+")")

	get := &cobra.Command{
		Use:   "get SECTION KEY",
		Short: "Print one value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAppConfig(file)
			if err != nil {
				return err
			}
			value, err := cfg.Get(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set SECTION KEY VALUE",
		Short: "Change one value and write the file back",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.LoadAppConfig(file)
			if err != nil {
				return err
			}
			cfg.Set(args[0], args[1], args[2])
			return cfg.Write()
		},
	}

	unset := &cobra.Command{
		Use:   "unset SECTION KEY",
		Short: "Remove one value and write the file back",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.LoadAppConfig(file)
			if err != nil {
				return err
			}
			cfg.Delete(args[0], args[1])
			return cfg.Write()
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the whole configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadAppConfig(file)
			if err != nil {
				return err
			}
			_, err = cfg.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.AddCommand(get, set, unset, show)
	return cmd
}
