package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibm/data-gate-cli/internal/poll"
)

func noEnv(string) (string, bool) { return "", false }

func TestCredential(t *testing.T) {
	t.Parallel()
	c := &Config{LookupEnv: noEnv}

	_, ok := c.Credential(IBMCloudAPIKey)
	assert.False(t, ok)

	c.SetCredential(IBMCloudAPIKey, "key")
	v, ok := c.Credential(IBMCloudAPIKey)
	assert.True(t, ok)
	assert.Equal(t, "key", v)

	c.SetCredential(IBMCloudAPIKey, "")
	_, ok = c.Credential(IBMCloudAPIKey)
	assert.False(t, ok)
}

func TestCredential_EnvOverride(t *testing.T) {
	t.Parallel()
	c := &Config{
		Credentials: map[string]string{FyreAPIKey: "file"},
		LookupEnv: func(name string) (string, bool) {
			if name == "DG_FYRE_API_KEY" {
				return "env", true
			}
			return "", false
		},
	}

	v, ok := c.Credential(FyreAPIKey)
	assert.True(t, ok)
	assert.Equal(t, "env", v)
}

func TestDeleteCredentials(t *testing.T) {
	t.Parallel()
	c := &Config{LookupEnv: noEnv}
	c.SetCredential(FyreUserName, "u")
	c.SetCredential(FyreAPIKey, "k")
	c.SetCredential(IBMCloudAPIKey, "i")

	c.DeleteCredentials(FyreUserName, FyreAPIKey)

	assert.Equal(t, map[string]string{IBMCloudAPIKey: "i"}, c.Credentials)
}

func TestParseBool(t *testing.T) {
	t.Parallel()
	for _, v := range []string{"true", "YES", "enable"} {
		b, err := ParseBool(v)
		require.NoError(t, err)
		assert.True(t, b, v)
	}
	for _, v := range []string{"false", "no", "Disable"} {
		b, err := ParseBool(v)
		require.NoError(t, err)
		assert.False(t, b, v)
	}
	_, err := ParseBool("maybe")
	assert.ErrorContains(t, err, `invalid value "maybe"`)
}

func TestSetSetting(t *testing.T) {
	t.Parallel()
	c := &Config{}

	require.NoError(t, c.SetSetting(SettingNuclearCommandsHidden, "yes"))
	assert.True(t, c.Setting(SettingNuclearCommandsHidden))

	require.Error(t, c.SetSetting(SettingNuclearCommandsHidden, "1"))
	assert.True(t, c.Setting(SettingNuclearCommandsHidden))
	assert.False(t, c.Setting("unknown"))
}

func TestClusters(t *testing.T) {
	t.Parallel()
	c := &Config{}

	require.NoError(t, c.AddCluster(ClusterEntry{Alias: "b", Provider: "fyre", Server: "https://api.b.os.fyre.ibm.com:6443"}))
	require.NoError(t, c.AddCluster(ClusterEntry{Alias: "a", Provider: "ibmcloud", Server: "https://c1.containers.cloud.ibm.com:30000"}))
	assert.ErrorContains(t, c.AddCluster(ClusterEntry{Alias: "a", Provider: "fyre"}), "already exists")
	assert.Error(t, c.AddCluster(ClusterEntry{Alias: "c"}))
	assert.Equal(t, "a", c.Clusters[0].Alias)

	_, err := c.Current()
	assert.Error(t, err)

	require.NoError(t, c.UseCluster("b"))
	cur, err := c.Current()
	require.NoError(t, err)
	assert.Equal(t, "fyre", cur.Provider)

	assert.Error(t, c.UseCluster("missing"))

	require.NoError(t, c.RemoveCluster("b"))
	assert.Empty(t, c.CurrentCluster)
	assert.Len(t, c.Clusters, 1)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c := &Config{}
	c.SetCredential(IBMCloudAPIKey, "key")
	require.NoError(t, c.SetSetting(SettingNuclearCommandsHidden, "true"))
	require.NoError(t, c.AddCluster(ClusterEntry{Alias: "c1", Provider: "fyre", Server: "https://api.c1.os.fyre.ibm.com:6443", Data: map[string]string{"username": "kubeadmin"}}))
	c.CurrentCluster = "c1"
	c.Install.Region = "us-south"
	c.Install.InstallBudget = poll.NewBudget(60, 7200)

	require.NoError(t, c.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Credentials, loaded.Credentials)
	assert.Equal(t, c.Settings, loaded.Settings)
	assert.Equal(t, c.Clusters, loaded.Clusters)
	assert.Equal(t, "c1", loaded.CurrentCluster)
	assert.Equal(t, "us-south", loaded.Install.Region)
	assert.Equal(t, time.Minute, loaded.Install.InstallBudget.Interval)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	c, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Empty(t, c.Clusters)
}

func TestParse_Install(t *testing.T) {
	t.Parallel()
	c, err := Parse([]byte(`
install:
  version: 4.0.1
  install_budget:
    interval: 15s
    timeout: 2h
  endpoints:
    schematics: https://us.schematics.cloud.ibm.com
`))
	require.NoError(t, err)
	assert.Equal(t, "4.0.1", c.Install.Version)
	assert.Equal(t, poll.NewBudget(15, 7200), c.Install.InstallBudget)
	assert.Equal(t, "https://us.schematics.cloud.ibm.com", c.Install.Endpoints.Schematics)

	_, err = Parse([]byte("credentials: [\n"))
	assert.Error(t, err)
}

func TestPath_EnvOverride(t *testing.T) {
	t.Setenv(PathEnv, "/tmp/dg-test.yaml")
	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dg-test.yaml", p)
}
