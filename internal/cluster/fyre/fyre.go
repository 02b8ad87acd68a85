// Package fyre implements clusters of the FYRE on-premises cluster farm.
//
// Importing the package registers its factory under ProviderTag.
package fyre

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ibm/data-gate-cli/internal/cluster"
	"github.com/ibm/data-gate-cli/internal/openshift"
)

// ProviderTag identifies FYRE clusters in the registry and config file.
const ProviderTag = "fyre"

const serverURLFormat = "https://api.%s.os.fyre.ibm.com:6443"

func init() {
	cluster.MustRegister(ProviderTag, Factory{})
}

// ServerURL derives the API server URL of a FYRE cluster from its name.
func ServerURL(name string) string {
	return fmt.Sprintf(serverURLFormat, name)
}

// Factory builds FYRE clusters. A nil Loginer means cluster.DefaultLoginer.
type Factory struct {
	Loginer cluster.Loginer
}

// Create builds a cluster for an explicit API server URL.
func (f Factory) Create(server string, data cluster.Data) (cluster.Cluster, error) {
	if server == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if _, err := url.ParseRequestURI(server); err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", server, err)
	}

	name, ok := data.Get(cluster.KeyClusterName)
	if !ok {
		name = nameFromServer(server)
	}

	return &Cluster{
		identity: cluster.Identity{Provider: ProviderTag, Server: server, Name: name},
		data:     data.Clone(),
		loginer:  f.Loginer,
	}, nil
}

// CreateFromName builds a cluster whose server URL is derived from name.
func (f Factory) CreateFromName(name string, data cluster.Data) (cluster.Cluster, error) {
	if name == "" {
		return nil, fmt.Errorf("cluster name is required")
	}
	data = data.Clone()
	data[cluster.KeyClusterName] = name
	return f.Create(ServerURL(name), data)
}

// Cluster is a FYRE-hosted OpenShift cluster. It logs in with
// username/password or an OAuth access token.
type Cluster struct {
	identity cluster.Identity
	data     cluster.Data
	loginer  cluster.Loginer
}

// Identity implements cluster.Cluster.
func (c *Cluster) Identity() cluster.Identity { return c.identity }

// Data implements cluster.Cluster.
func (c *Cluster) Data() cluster.Data { return c.data.Clone() }

// Credentials returns the login credentials stored in the cluster data.
func (c *Cluster) Credentials() openshift.Credentials {
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

// nameFromServer extracts "ocp1" from https://api.ocp1.os.fyre.ibm.com:6443.
func nameFromServer(server string) string {
	u, err := url.Parse(server)
	if err != nil {
		return server
	}
	host := strings.TrimPrefix(u.Hostname(), "api.")
	if i := strings.Index(host, "."); i > 0 {
		return host[:i]
	}
	return host
}
