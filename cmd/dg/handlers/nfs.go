package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ibm/data-gate-cli/internal/cluster/fyre"
	"github.com/ibm/data-gate-cli/internal/logging"
	"github.com/ibm/data-gate-cli/internal/nfs"
	"github.com/ibm/data-gate-cli/internal/openshift"
	"github.com/ibm/data-gate-cli/internal/platform/ssh"
	"github.com/ibm/data-gate-cli/internal/util/netutil"
)

// NFSInstaller installs the NFS storage class - matches *nfs.Installer.
type NFSInstaller interface {
	Install(ctx context.Context, t nfs.Target) error
}

// Factory function variables for install-nfs-storage-class - can be replaced in tests.
var (
	newNFSInstaller = func() NFSInstaller {
		return nfs.NewInstaller()
	}

	newSSHRunner = func(cfg *ssh.Config) (nfs.Runner, error) {
		return ssh.NewClient(cfg)
	}

	isLocalHost = netutil.IsLocalHost
)

// NFSOptions configures install-nfs-storage-class.
type NFSOptions struct {
	// NodeHostname is the infrastructure node exporting the share.
	NodeHostname string
	// Server is the API server URL. When empty, the current stored
	// cluster is used.
	Server   string
	Username string
	Password string
	Token    string

	SSHUser     string
	SSHPort     int
	SSHPassword string
	SSHKeyFile  string
}

// InstallNFSStorageClass sets up an NFS server on the infrastructure node and
// installs a storage class backed by it.
func InstallNFSStorageClass(ctx context.Context, opts NFSOptions) error {
	if opts.NodeHostname == "" {
		return fmt.Errorf("infrastructure node hostname is required")
	}
	server, creds, err := nfsClusterTarget(opts)
	if err != nil {
		return err
	}

	target := nfs.Target{Server: server, Credentials: creds}
	if isLocalHost(opts.NodeHostname) {
		target.Node = nfs.LocalRunner{}
	} else {
		sshCfg, err := sshConfig(opts)
		if err != nil {
			return err
		}
		runner, err := newSSHRunner(sshCfg)
		if err != nil {
			return fmt.Errorf("failed to create SSH client: %w", err)
		}
		target.Node = runner
		target.Remote = true
	}

	logging.FromContext(ctx).Info("installing NFS storage class",
		"node", opts.NodeHostname, "server", server, "remote", target.Remote)
	if err := newNFSInstaller().Install(ctx, target); err != nil {
		return fmt.Errorf("failed to install NFS storage class: %w", err)
	}

	printSuccess("Storage class %s installed", nfs.StorageClassName)
	printField("NFS node", opts.NodeHostname)
	printField("Cluster", server)
	return nil
}

// nfsClusterTarget resolves the API server and credentials from the flags,
// falling back to the current stored cluster.
func nfsClusterTarget(opts NFSOptions) (string, openshift.Credentials, error) {
	creds := openshift.Credentials{Username: opts.Username, Password: opts.Password, Token: opts.Token}
	if opts.Server != "" {
		return opts.Server, creds, nil
	}

	cfg, _, err := loadConfig()
	if err != nil {
		return "", creds, err
	}
	entry, err := cfg.Current()
	if err != nil {
		return "", creds, fmt.Errorf("no --server given: %w", err)
	}
	if entry.Provider != fyre.ProviderTag {
		return "", creds, fmt.Errorf("current cluster %s is not a %s cluster", entry.Alias, fyre.ProviderTag)
	}
	if creds.Validate() != nil {
		c, err := clusterRegistry().Create(entry.Provider, entry.Server, entry.Data)
		if err != nil {
			return "", creds, err
		}
		stored, ok := c.(credentialed)
		if !ok {
			return "", creds, fmt.Errorf("cluster %s has no stored credentials", entry.Alias)
		}
		creds = stored.Credentials()
	}
	return entry.Server, creds, nil
}

type credentialed interface {
	Credentials() openshift.Credentials
}

func sshConfig(opts NFSOptions) (*ssh.Config, error) {
	cfg := &ssh.Config{
		Host:     opts.NodeHostname,
		Port:     opts.SSHPort,
		User:     opts.SSHUser,
		Password: opts.SSHPassword,
	}
	if cfg.User == "" {
		cfg.User = "root"
	}
	if opts.SSHPassword != "" && opts.SSHKeyFile == "" {
		return cfg, nil
	}

	keyFile := opts.SSHKeyFile
	if keyFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to locate home directory: %w", err)
		}
		keyFile = filepath.Join(home, ".ssh", "id_rsa")
	}
	key, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read SSH key (use --ssh-password or --ssh-key-file): %w", err)
	}
	cfg.PrivateKey = key
	return cfg, nil
}
