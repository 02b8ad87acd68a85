package commands

import (
	"github.com/spf13/cobra"

	"github.com/ibm/data-gate-cli/cmd/dg/handlers"
)

// Cluster returns the cluster command group.
func Cluster() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Manage stored OpenShift cluster connections",
	}

	cmd.AddCommand(clusterAdd())
	cmd.AddCommand(clusterUse())
	cmd.AddCommand(clusterList())
	cmd.AddCommand(clusterLogin())
	cmd.AddCommand(clusterRemove())

	return cmd
}

func clusterAdd() *cobra.Command {
	var opts handlers.ClusterAddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a cluster connection",
		Long: `Add stores the connection data of an OpenShift cluster.

The provider decides how the cluster is addressed:
  - fyre:     the API server URL is derived from --name, or given with --server
  - ibmcloud: --server and --name are both required

Credentials are stored with the cluster and used by 'dg cluster login'.
The first cluster added becomes the current cluster.

Example:
  dg cluster add --provider fyre --name dg-dev --username kubeadmin --password ...`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ClusterAdd(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Alias, "alias", "", "Alias of the cluster (default: cluster name)")
	cmd.Flags().StringVar(&opts.Provider, "provider", "", "Cluster provider: fyre or ibmcloud (required)")
	cmd.Flags().StringVar(&opts.Server, "server", "", "OpenShift API server URL")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Cluster name")
	cmd.Flags().StringVar(&opts.Username, "username", "", "OpenShift user name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "OpenShift password")
	cmd.Flags().StringVar(&opts.Token, "token", "", "OpenShift OAuth access token")
	cmd.Flags().StringVar(&opts.APIKey, "api-key", "", "IBM Cloud API key (ibmcloud clusters)")
	cmd.Flags().StringVar(&opts.Region, "region", "", "IBM Cloud region (ibmcloud clusters)")
	_ = cmd.MarkFlagRequired("provider")
	cmd.MarkFlagsOneRequired("server", "name")

	return cmd
}

func clusterUse() *cobra.Command {
	return &cobra.Command{
		Use:   "use ALIAS",
		Short: "Set the current cluster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ClusterUse(cmd.Context(), args[0])
		},
	}
}

func clusterList() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List stored clusters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.ClusterList(cmd.Context())
		},
	}
}

func clusterLogin() *cobra.Command {
	return &cobra.Command{
		Use:   "login [ALIAS]",
		Short: "Log in to a stored cluster",
		Long: `Login opens a session with the OpenShift API server of a stored cluster
and writes a kubeconfig context for it.

Without ALIAS, the current cluster is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alias := ""
			if len(args) == 1 {
				alias = args[0]
			}
			return handlers.ClusterLogin(cmd.Context(), alias)
		},
	}
}

func clusterRemove() *cobra.Command {
	return &cobra.Command{
		Use:         "rm ALIAS",
		Short:       "Remove a stored cluster",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{nuclearAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.ClusterRemove(cmd.Context(), args[0])
		},
	}
}
