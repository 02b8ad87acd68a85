package cluster

import (
	"context"
	"maps"
)

// Well-known keys of Data. Providers document which of them they read.
const (
	KeyServer      = "server"
	KeyUsername    = "username"
	KeyPassword    = "password"
	KeyToken       = "token"
	KeyAPIKey      = "api_key"
	KeyRegion      = "region"
	KeyClusterName = "cluster_name"
)

// Identity names a cluster. It is fixed when the cluster is constructed.
type Identity struct {
	Provider string
	Server   string
	Name     string
}

// Data holds provider-specific connection attributes.
type Data map[string]string

// Get returns the value for key and whether it is present and non-empty.
func (d Data) Get(key string) (string, bool) {
	v, ok := d[key]
	return v, ok && v != ""
}

// Clone returns an independent copy.
func (d Data) Clone() Data {
	if d == nil {
		return Data{}
	}
	return maps.Clone(d)
}

// Cluster is a cluster a user can log in to.
type Cluster interface {
	// Identity returns the immutable identity of the cluster.
	Identity() Identity
	// Login establishes a session with the cluster API server.
	Login(ctx context.Context) error
	// Data returns a copy of the connection data the cluster was built from.
	Data() Data
}

// Factory builds clusters of one provider.
type Factory interface {
	Create(server string, data Data) (Cluster, error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(server string, data Data) (Cluster, error)

// Create calls f.
func (f FactoryFunc) Create(server string, data Data) (Cluster, error) {
	return f(server, data)
}

// NameFactory is implemented by providers whose API server URL is derived
// from a short cluster name.
type NameFactory interface {
	Factory
	CreateFromName(name string, data Data) (Cluster, error)
}
