package helm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKubeconfig = `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://api.c1.os.fyre.ibm.com:6443
    insecure-skip-tls-verify: true
  name: c1
contexts:
- context:
    cluster: c1
    namespace: default
    user: admin
  name: c1
current-context: c1
users:
- name: admin
  user:
    token: sha256~abc
`

func TestKubeconfigGetter(t *testing.T) {
	t.Parallel()
	g := newKubeconfigGetter([]byte(testKubeconfig), "nfs-provisioner")

	cfg, err := g.ToRESTConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://api.c1.os.fyre.ibm.com:6443", cfg.Host)
	assert.Equal(t, "sha256~abc", cfg.BearerToken)

	again, err := g.ToRESTConfig()
	require.NoError(t, err)
	assert.Same(t, cfg, again)

	ns, _, err := g.ToRawKubeConfigLoader().Namespace()
	require.NoError(t, err)
	assert.Equal(t, "nfs-provisioner", ns)
}

func TestKubeconfigGetter_Invalid(t *testing.T) {
	t.Parallel()
	g := newKubeconfigGetter([]byte("not valid yaml: {{{{"), "default")

	_, err := g.ToRESTConfig()
	assert.Error(t, err)
	_, err = g.ToDiscoveryClient()
	assert.Error(t, err)

	_, err = g.ToRawKubeConfigLoader().ClientConfig()
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	t.Parallel()
	c, err := NewClient(context.Background(), []byte(testKubeconfig), "nfs-provisioner")
	require.NoError(t, err)
	assert.Equal(t, "nfs-provisioner", c.namespace)
}

func TestChartString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "https://charts.example/nfs", Chart{RepoURL: "https://charts.example", Name: "nfs"}.String())
	assert.Equal(t, "https://charts.example/nfs@4.0.18", Chart{RepoURL: "https://charts.example", Name: "nfs", Version: "4.0.18"}.String())
}
