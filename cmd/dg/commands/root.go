// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/ibm/data-gate-cli/internal/logging"
)

// nuclearAnnotation marks destructive commands hidden by the
// nuclear_commands_hidden setting.
const nuclearAnnotation = "dg/nuclear"

// Root returns the root command for the dg CLI.
//
// The root command sets up the logger from --verbose for every subcommand
// and carries the --metrics-file flag read by the installation commands.
func Root() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "dg",
		Short:         "Manage OpenShift clusters and Db2 Data Gate installations",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logging.New(verbose)
			if err != nil {
				return err
			}
			cmd.SetContext(logging.IntoContext(cmd.Context(), logger))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")
	cmd.PersistentFlags().String("metrics-file", "", "Write installation metrics to this file in Prometheus text format")

	cmd.AddCommand(Cluster())
	cmd.AddCommand(Adm())
	cmd.AddCommand(Fyre())
	cmd.AddCommand(IBMCloud())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}

// HideNuclearCommands hides every command marked as destructive.
func HideNuclearCommands(cmd *cobra.Command) {
	if _, ok := cmd.Annotations[nuclearAnnotation]; ok {
		cmd.Hidden = true
	}
	for _, sub := range cmd.Commands() {
		HideNuclearCommands(sub)
	}
}

func metricsFile(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("metrics-file")
	return path
}
