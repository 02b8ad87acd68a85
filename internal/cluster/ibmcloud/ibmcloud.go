// Package ibmcloud implements Red Hat OpenShift on IBM Cloud clusters.
//
// Importing the package registers its factory under ProviderTag.
package ibmcloud

import (
	"context"
	"fmt"

	"github.com/ibm/data-gate-cli/internal/cluster"
	"github.com/ibm/data-gate-cli/internal/openshift"
)

// ProviderTag identifies IBM Cloud clusters in the registry and config file.
const ProviderTag = "ibmcloud"

// apiKeyUsername is the fixed user name for API key logins to IBM Cloud
// OpenShift clusters.
const apiKeyUsername = "apikey"

func init() {
	cluster.MustRegister(ProviderTag, Factory{})
}

// Factory builds IBM Cloud clusters. A nil Loginer means cluster.DefaultLoginer.
type Factory struct {
	Loginer cluster.Loginer
}

// Create builds a cluster. data must contain cluster_name.
func (f Factory) Create(server string, data cluster.Data) (cluster.Cluster, error) {
	if server == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	name, ok := data.Get(cluster.KeyClusterName)
	if !ok {
		return nil, fmt.Errorf("%s is required for %s clusters", cluster.KeyClusterName, ProviderTag)
	}

	return &Cluster{
		identity: cluster.Identity{Provider: ProviderTag, Server: server, Name: name},
		data:     data.Clone(),
		loginer:  f.Loginer,
	}, nil
}

// Cluster is an OpenShift cluster managed by IBM Cloud.
type Cluster struct {
	identity cluster.Identity
	data     cluster.Data
	loginer  cluster.Loginer
}

// Identity implements cluster.Cluster.
func (c *Cluster) Identity() cluster.Identity { return c.identity }

// Data implements cluster.Cluster.
func (c *Cluster) Data() cluster.Data { return c.data.Clone() }

// ClusterName is the IBM Cloud cluster name, used by provider-level
// operations such as deletion and status queries.
func (c *Cluster) ClusterName() string { return c.identity.Name }

// Region is the IBM Cloud region of the cluster, if known.
func (c *Cluster) Region() string { return c.data[cluster.KeyRegion] }

// Credentials prefers the IBM Cloud API key, then username/password or token.
func (c *Cluster) Credentials() openshift.Credentials {
	if apiKey, ok := c.data.Get(cluster.KeyAPIKey); ok {
		return openshift.Credentials{Username: apiKeyUsername, Password: apiKey}
	}
	return openshift.Credentials{
		Username: c.data[cluster.KeyUsername],
		Password: c.data[cluster.KeyPassword],
		Token:    c.data[cluster.KeyToken],
	}
}

// Login implements cluster.Cluster.
func (c *Cluster) Login(ctx context.Context) error {
	l := c.loginer
	if l == nil {
		l = cluster.DefaultLoginer
	}
	return cluster.LoginWith(ctx, l, c.identity.Server, c.Credentials())
}
