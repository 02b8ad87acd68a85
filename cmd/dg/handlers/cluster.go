package handlers

import (
	"context"
	"fmt"

	"github.com/ibm/data-gate-cli/internal/cluster"
	"github.com/ibm/data-gate-cli/internal/config"
	"github.com/ibm/data-gate-cli/internal/logging"

	// Providers register themselves with the cluster registry.
	_ "github.com/ibm/data-gate-cli/internal/cluster/fyre"
	_ "github.com/ibm/data-gate-cli/internal/cluster/ibmcloud"
)

// clusterRegistry returns the registry clusters are built with - can be replaced in tests.
var clusterRegistry = cluster.Default

// ClusterAddOptions describes a cluster to store.
type ClusterAddOptions struct {
	Alias    string
	Provider string
	// Server is the API server URL. When empty, Name is used and the
	// provider derives the URL.
	Server string
	Name   string

	Username string
	Password string
	Token    string
	APIKey   string
	Region   string
}

func (o ClusterAddOptions) data() cluster.Data {
	data := cluster.Data{}
	for key, value := range map[string]string{
		cluster.KeyClusterName: o.Name,
		cluster.KeyUsername:    o.Username,
		cluster.KeyPassword:    o.Password,
		cluster.KeyToken:       o.Token,
		cluster.KeyAPIKey:      o.APIKey,
		cluster.KeyRegion:      o.Region,
	} {
		if value != "" {
			data[key] = value
		}
	}
	return data
}

// ClusterAdd builds a cluster through its provider and stores it. The first
// stored cluster becomes the current one.
func ClusterAdd(ctx context.Context, opts ClusterAddOptions) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}

	var c cluster.Cluster
	if opts.Server != "" {
		c, err = clusterRegistry().Create(opts.Provider, opts.Server, opts.data())
	} else {
		c, err = clusterRegistry().CreateFromName(opts.Provider, opts.Name, opts.data())
	}
	if err != nil {
		return err
	}

	id := c.Identity()
	alias := opts.Alias
	if alias == "" {
		alias = id.Name
	}
	entry := config.ClusterEntry{Alias: alias, Provider: id.Provider, Server: id.Server, Data: c.Data()}
	if err := cfg.AddCluster(entry); err != nil {
		return err
	}
	if cfg.CurrentCluster == "" {
		cfg.CurrentCluster = alias
	}
	if err := saveConfig(cfg, path); err != nil {
		return err
	}

	logging.FromContext(ctx).V(1).Info("cluster stored", "alias", alias, "provider", id.Provider, "server", id.Server)
	printSuccess("Added cluster %s (%s)", alias, id.Server)
	return nil
}

// ClusterUse makes alias the current cluster.
func ClusterUse(_ context.Context, alias string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.UseCluster(alias); err != nil {
		return err
	}
	if err := saveConfig(cfg, path); err != nil {
		return err
	}
	printSuccess("Current cluster is %s", alias)
	return nil
}

// ClusterList prints the stored clusters and marks the current one.
func ClusterList(_ context.Context) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if len(cfg.Clusters) == 0 {
		fmt.Fprintln(stdout, dimStyle.Render("No clusters stored. Run 'dg cluster add' to add one."))
		return nil
	}

	fmt.Fprintln(stdout, titleStyle.Render(fmt.Sprintf("%-2s%-24s %-10s %s", "", "ALIAS", "PROVIDER", "SERVER")))
	for _, e := range cfg.Clusters {
		marker := ""
		if e.Alias == cfg.CurrentCluster {
			marker = "*"
		}
		fmt.Fprintf(stdout, "%-2s%-24s %-10s %s\n", marker, e.Alias, e.Provider, e.Server)
	}
	return nil
}

// ClusterLogin logs in to the stored cluster alias, or to the current
// cluster when alias is empty.
func ClusterLogin(ctx context.Context, alias string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	entry, err := clusterEntry(cfg, alias)
	if err != nil {
		return err
	}

	c, err := clusterRegistry().Create(entry.Provider, entry.Server, entry.Data)
	if err != nil {
		return err
	}
	if err := c.Login(ctx); err != nil {
		return err
	}
	printSuccess("Logged in to %s", entry.Server)
	return nil
}

func clusterEntry(cfg *config.Config, alias string) (config.ClusterEntry, error) {
	if alias == "" {
		return cfg.Current()
	}
	return cfg.Cluster(alias)
}

// ClusterRemove deletes a stored cluster.
func ClusterRemove(_ context.Context, alias string) error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RemoveCluster(alias); err != nil {
		return err
	}
	if err := saveConfig(cfg, path); err != nil {
		return err
	}
	printSuccess("Removed cluster %s", alias)
	return nil
}
