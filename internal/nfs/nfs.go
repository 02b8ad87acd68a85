// Package nfs turns a cluster farm infrastructure node into an NFS server
// and installs a dynamic NFS provisioner backed by it.
//
// The node is prepared over SSH, or with local commands when the CLI runs on
// the node itself. The provisioner chart is always installed from the local
// process with an in-memory kubeconfig.
package nfs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"

	"github.com/ibm/data-gate-cli/internal/helm"
	"github.com/ibm/data-gate-cli/internal/k8s"
	"github.com/ibm/data-gate-cli/internal/logging"
	"github.com/ibm/data-gate-cli/internal/openshift"
	"github.com/ibm/data-gate-cli/internal/util/async"
	"github.com/ibm/data-gate-cli/internal/util/netutil"
)

const (
	ReleaseName      = "nfs-subdir-external-provisioner"
	Namespace        = "nfs-provisioner"
	StorageClassName = "managed-nfs-storage"
	ProvisionerName  = "k8s-sigs.io/nfs-subdir-external-provisioner"
	DefaultExport    = "/data"

	storageClassTimeout = 2 * time.Minute
)

// ProvisionerChart is the chart installed onto the cluster.
var ProvisionerChart = helm.Chart{
	RepoURL: "https://kubernetes-sigs.github.io/nfs-subdir-external-provisioner/",
	Name:    "nfs-subdir-external-provisioner",
}

// Runner executes shell commands on the infrastructure node.
type Runner interface {
	Execute(ctx context.Context, command string) (string, error)
}

// Loginer establishes an API server session.
type Loginer interface {
	Login(ctx context.Context, server string, creds openshift.Credentials) (*openshift.Session, error)
}

// ChartInstaller installs a chart release.
type ChartInstaller interface {
	InstallOrUpgrade(ctx context.Context, releaseName string, ch helm.Chart, values helm.Values) error
}

// ChartInstallerFactory builds a ChartInstaller for a cluster session.
type ChartInstallerFactory func(ctx context.Context, kubeconfig []byte, namespace string) (ChartInstaller, error)

// StorageClassWaiter waits for a storage class to be served.
type StorageClassWaiter interface {
	WaitForStorageClass(ctx context.Context, name, provisioner string, timeout time.Duration) error
}

// StorageClassWaiterFactory builds a StorageClassWaiter for a cluster session.
type StorageClassWaiterFactory func(kubeconfig []byte) (StorageClassWaiter, error)

// Installer performs the storage class installation.
type Installer struct {
	Loginer    Loginer
	NewCharts  ChartInstallerFactory
	// NewWaiter is optional. When set, Install waits for the storage class.
	NewWaiter  StorageClassWaiterFactory
	ExportPath string
}

// NewInstaller returns an Installer using real logins and helm.
func NewInstaller() *Installer {
	return &Installer{
		Loginer: openshift.NewClient(),
		NewCharts: func(ctx context.Context, kubeconfig []byte, namespace string) (ChartInstaller, error) {
			return helm.NewClient(ctx, kubeconfig, namespace)
		},
		NewWaiter: func(kubeconfig []byte) (StorageClassWaiter, error) {
			return k8s.NewClientFromBytes(kubeconfig)
		},
		ExportPath: DefaultExport,
	}
}

// Target describes the cluster and its infrastructure node.
type Target struct {
	Server      string
	Credentials openshift.Credentials
	// Node runs commands on the infrastructure node.
	Node Runner
	// Remote is true when Node is another host. The node then also logs in
	// with oc and reports its addresses with hostname -I.
	Remote bool
	// LocalAddresses lists addresses when the node is the local host.
	LocalAddresses func() ([]string, error)
}

// Install prepares the NFS export on the node, finds the node's private
// address and installs the provisioner chart pointing at it.
func (i *Installer) Install(ctx context.Context, t Target) error {
	log := logging.FromContext(ctx).WithName("nfs")
	if err := t.Credentials.Validate(); err != nil {
		return err
	}

	addrs, err := i.prepareNode(ctx, t)
	if err != nil {
		return err
	}
	ip, err := netutil.PrivateIPv4(addrs)
	if err != nil {
		return fmt.Errorf("infrastructure node addresses %v: %w", addrs, err)
	}
	log.Info("NFS export ready", "server", ip, "path", i.exportPath())

	session, err := i.Loginer.Login(ctx, t.Server, t.Credentials)
	if err != nil {
		return fmt.Errorf("log in to %s: %w", t.Server, err)
	}

	charts, err := i.NewCharts(ctx, session.Kubeconfig, Namespace)
	if err != nil {
		return err
	}
	if err := charts.InstallOrUpgrade(ctx, ReleaseName, ProvisionerChart, i.values(ip)); err != nil {
		return err
	}

	if i.NewWaiter != nil {
		waiter, err := i.NewWaiter(session.Kubeconfig)
		if err != nil {
			return err
		}
		if err := waiter.WaitForStorageClass(ctx, StorageClassName, ProvisionerName, storageClassTimeout); err != nil {
			return err
		}
	}
	log.Info("NFS storage class installed", "storageClass", StorageClassName)
	return nil
}

// prepareNode runs the node-side steps in a detached task. An interrupt
// stops the wait but lets the remote commands finish.
func (i *Installer) prepareNode(ctx context.Context, t Target) ([]string, error) {
	steps := []string{prepareExportScript(i.exportPath())}
	if t.Remote {
		login, err := openshift.LoginCommand(t.Server, t.Credentials)
		if err != nil {
			return nil, err
		}
		steps = append(steps, login, "hostname -I")
	}

	task := async.Go(ctx, "NFS server setup", func(ctx context.Context) (string, error) {
		var last string
		for _, step := range steps {
			out, err := t.Node.Execute(ctx, step)
			if err != nil {
				return "", err
			}
			last = out
		}
		return last, nil
	})

	out, err := task.Wait(ctx)
	if err != nil {
		return nil, err
	}
	if t.Remote {
		return netutil.ParseAddresses(out), nil
	}
	if t.LocalAddresses == nil {
		return netutil.LocalIPv4Addresses()
	}
	return t.LocalAddresses()
}

func (i *Installer) exportPath() string {
	if i.ExportPath == "" {
		return DefaultExport
	}
	return i.ExportPath
}

func (i *Installer) values(server string) helm.Values {
	return helm.Values{
		"nfs": map[string]any{
			"server": server,
			"path":   i.exportPath(),
		},
		"storageClass": map[string]any{
			"name":            StorageClassName,
			"provisionerName": ProvisionerName,
			"defaultClass":    true,
			"reclaimPolicy":   "Delete",
		},
		// OpenShift assigns UIDs from the namespace range
		"podSecurityContext": map[string]any{},
	}
}

// prepareExportScript installs and starts an NFS server exporting path.
func prepareExportScript(path string) string {
	p := shellescape.Quote(path)
	entry := shellescape.Quote(path + " *(rw,sync,no_root_squash,no_subtree_check)")
	return strings.Join([]string{
		"set -e",
		"yum install -y nfs-utils >/dev/null",
		"mkdir -p " + p,
		"chmod 777 " + p,
		"grep -qsF -- " + shellescape.Quote(path+" ") + " /etc/exports || echo " + entry + " >> /etc/exports",
		"systemctl enable --now nfs-server",
		"exportfs -ra",
	}, "\n")
}
