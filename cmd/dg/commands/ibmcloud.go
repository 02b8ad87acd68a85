package commands

import (
	"github.com/spf13/cobra"

	"github.com/ibm/data-gate-cli/cmd/dg/handlers"
)

// IBMCloud returns the IBM Cloud command group.
func IBMCloud() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ibmcloud",
		Short: "Work with IBM Cloud",
	}

	cp4d := &cobra.Command{
		Use:   "cp4d",
		Short: "Install IBM Cloud Pak for Data",
	}
	cp4d.AddCommand(cp4dInstall())
	cp4d.AddCommand(cp4dStatus())

	oc := &cobra.Command{
		Use:   "oc",
		Short: "Query Red Hat OpenShift on IBM Cloud",
	}
	oc.AddCommand(ocLatestVersion())

	cmd.AddCommand(cp4d)
	cmd.AddCommand(oc)

	return cmd
}

func cp4dInstall() *cobra.Command {
	var clusterName string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install Cloud Pak for Data with Db2 Warehouse and Db2 Data Gate",
		Long: `Install installs IBM Cloud Pak for Data, including Db2 Warehouse and
Db2 Data Gate, on an IBM Cloud OpenShift cluster.

The installation runs in these stages:
  1. Locate the catalog version
  2. Pre-install and wait for it to settle
  3. Submit the installation
  4. Wait for the Schematics workspace to become ACTIVE
  5. Print the Cloud Pak for Data URL

The IBM Cloud API key is read from the stored credentials
(ibm_cloud_api_key) or DG_IBM_CLOUD_API_KEY. If the installation times
out, the workspace log is printed. An interrupted installation keeps running
remotely; use 'dg ibmcloud cp4d status --workspace-id ... --wait' to
resume waiting.

Example:
  dg ibmcloud cp4d install --cluster-name dg-dev`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.InstallCP4D(cmd.Context(), clusterName, metricsFile(cmd))
		},
	}

	cmd.Flags().StringVar(&clusterName, "cluster-name", "", "Name or ID of the IBM Cloud cluster (required)")
	_ = cmd.MarkFlagRequired("cluster-name")

	return cmd
}

func cp4dStatus() *cobra.Command {
	var workspaceID string
	var wait bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status of an installation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.CP4DStatus(cmd.Context(), workspaceID, wait, metricsFile(cmd))
		},
	}

	cmd.Flags().StringVar(&workspaceID, "workspace-id", "", "Schematics workspace ID of the installation (required)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the installation to finish and print its URL")
	_ = cmd.MarkFlagRequired("workspace-id")

	return cmd
}

func ocLatestVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "latest-version",
		Short: "Print the newest supported OpenShift version",
		Long: `Latest-version prints the newest OpenShift version offered by IBM Cloud
that the configured Cloud Pak for Data version supports, in the form
accepted when creating a cluster (e.g. 4.8.43_openshift).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.LatestOpenShiftVersion(cmd.Context())
		},
	}
}
