package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ibm/data-gate-cli/cmd/dg/handlers"
	"github.com/ibm/data-gate-cli/internal/config"
)

// Adm returns the administration command group.
func Adm() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adm",
		Short: "Administer the dg configuration",
	}

	cmd.AddCommand(storeCredentials())
	cmd.AddCommand(admConfig())

	return cmd
}

// credentialFlag returns the flag name of a credential.
func credentialFlag(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

func storeCredentials() *cobra.Command {
	var interactive bool
	values := make(map[string]*string, len(config.KnownCredentials))

	cmd := &cobra.Command{
		Use:   "store-credentials",
		Short: "Store credentials in the configuration file",
		Long: `Store-credentials writes credentials used by other commands to the
configuration file.

Every credential can also be given as an environment variable named
DG_<CREDENTIAL NAME>, e.g. DG_IBM_CLOUD_API_KEY, which takes precedence
over the stored value.

Example:
  dg adm store-credentials --ibm-cloud-api-key ...
  dg adm store-credentials --interactive`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			given := make(map[string]string, len(values))
			for name, v := range values {
				given[name] = *v
			}
			return handlers.StoreCredentials(cmd.Context(), given, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for all credentials")
	for _, spec := range config.KnownCredentials {
		values[spec.Name] = cmd.Flags().String(credentialFlag(spec.Name), "", spec.Description)
	}

	return cmd
}

func admConfig() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage dg settings",
	}
	cmd.AddCommand(admConfigSet())
	return cmd
}

func admConfigSet() *cobra.Command {
	var key, value string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a boolean setting",
		Long: `Set stores a boolean setting.

Allowed values: true, yes, enable, false, no, disable.

Example:
  dg adm config set --key nuclear_commands_hidden --value yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ConfigSet(cmd.Context(), key, value)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Setting name (required)")
	cmd.Flags().StringVar(&value, "value", "", "Setting value (required)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}
