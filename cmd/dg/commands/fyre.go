package commands

import (
	"github.com/spf13/cobra"

	"github.com/ibm/data-gate-cli/cmd/dg/handlers"
)

// Fyre returns the FYRE command group.
func Fyre() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fyre",
		Short: "Work with FYRE clusters",
	}

	cluster := &cobra.Command{
		Use:   "cluster",
		Short: "Manage FYRE cluster components",
	}
	cluster.AddCommand(installNFSStorageClass())

	cmd.AddCommand(fyreLogout())
	cmd.AddCommand(cluster)

	return cmd
}

func fyreLogout() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored FYRE credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.FyreLogout(cmd.Context())
		},
	}
}

func installNFSStorageClass() *cobra.Command {
	var opts handlers.NFSOptions

	cmd := &cobra.Command{
		Use:   "install-nfs-storage-class",
		Short: "Install an NFS storage class backed by the infrastructure node",
		Long: `Install-nfs-storage-class turns the infrastructure node of a FYRE cluster
into an NFS server and installs a dynamic NFS provisioner with the storage
class managed-nfs-storage.

The node is prepared over SSH unless dg runs on the node itself. The
provisioner chart is installed with helm from this machine.

Without --server, the current stored cluster and its credentials are used.

Example:
  dg fyre cluster install-nfs-storage-class \
    --infrastructure-node-hostname dg-dev-inf.fyre.ibm.com \
    --server https://api.dg-dev.os.fyre.ibm.com:6443 \
    --username kubeadmin --password ...`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.InstallNFSStorageClass(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.NodeHostname, "infrastructure-node-hostname", "", "Hostname of the infrastructure node (required)")
	cmd.Flags().StringVar(&opts.Server, "server", "", "OpenShift API server URL")
	cmd.Flags().StringVar(&opts.Username, "username", "", "OpenShift user name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "OpenShift password")
	cmd.Flags().StringVar(&opts.Token, "token", "", "OpenShift OAuth access token")
	cmd.Flags().StringVar(&opts.SSHUser, "ssh-user", "root", "SSH user on the infrastructure node")
	cmd.Flags().IntVar(&opts.SSHPort, "ssh-port", 22, "SSH port of the infrastructure node")
	cmd.Flags().StringVar(&opts.SSHPassword, "ssh-password", "", "SSH password (default: key authentication)")
	cmd.Flags().StringVar(&opts.SSHKeyFile, "ssh-key-file", "", "SSH private key file (default: ~/.ssh/id_rsa)")
	_ = cmd.MarkFlagRequired("infrastructure-node-hostname")

	return cmd
}
