package config

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/ibm/data-gate-cli/internal/installer"
)

// Credential names.
const (
	IBMCloudAPIKey      = installer.APIKeyCredential
	FyreUserName        = "fyre_user_name"
	FyreAPIKey          = "fyre_api_key"
	EntitlementKey      = "ibm_cloud_pak_for_data_entitlement_key"
	ArtifactoryUserName = "artifactory_user_name"
	ArtifactoryAPIKey   = "artifactory_api_key"
	GitHubAPIKey        = "ibm_github_api_key"
)

// CredentialSpec describes a storable credential.
type CredentialSpec struct {
	Name        string
	Description string
	Secret      bool
}

// KnownCredentials lists the credentials store-credentials asks for.
var KnownCredentials = []CredentialSpec{
	{Name: ArtifactoryUserName, Description: "Artifactory user name"},
	{Name: ArtifactoryAPIKey, Description: "Artifactory API key", Secret: true},
	{Name: FyreUserName, Description: "FYRE user name"},
	{Name: FyreAPIKey, Description: "FYRE API key", Secret: true},
	{Name: IBMCloudAPIKey, Description: "IBM Cloud API key", Secret: true},
	{Name: EntitlementKey, Description: "IBM Cloud Pak for Data entitlement key", Secret: true},
	{Name: GitHubAPIKey, Description: "IBM GitHub API key", Secret: true},
}

// Settings keys.
const (
	SettingNuclearCommandsHidden = "nuclear_commands_hidden"
)

// ClusterEntry is a stored cluster connection.
type ClusterEntry struct {
	Alias    string            `yaml:"alias"`
	Provider string            `yaml:"provider"`
	Server   string            `yaml:"server"`
	Data     map[string]string `yaml:"data,omitempty"`
}

// Config is the content of the configuration file.
type Config struct {
	Credentials    map[string]string `yaml:"credentials,omitempty"`
	Settings       map[string]bool   `yaml:"settings,omitempty"`
	Clusters       []ClusterEntry    `yaml:"clusters,omitempty"`
	CurrentCluster string            `yaml:"current_cluster,omitempty"`
	Install        installer.Config  `yaml:"install,omitempty"`

	// LookupEnv resolves environment overrides. Nil means os.LookupEnv.
	LookupEnv func(string) (string, bool) `yaml:"-"`
}

// EnvName returns the environment variable overriding a credential.
func EnvName(credential string) string {
	return "DG_" + strings.ToUpper(credential)
}

// Credential returns a credential, preferring its environment override.
// Absent and empty values are reported as not found.
func (c *Config) Credential(name string) (string, bool) {
	lookup := c.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvName(name)); ok && v != "" {
		return v, true
	}
	v, ok := c.Credentials[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// SetCredential stores a credential. An empty value removes it.
func (c *Config) SetCredential(name, value string) {
	if value == "" {
		delete(c.Credentials, name)
		return
	}
	if c.Credentials == nil {
		c.Credentials = make(map[string]string)
	}
	c.Credentials[name] = value
}

// DeleteCredentials removes the named credentials.
func (c *Config) DeleteCredentials(names ...string) {
	for _, n := range names {
		delete(c.Credentials, n)
	}
}

// ParseBool accepts true/yes/enable and false/no/disable.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "enable":
		return true, nil
	case "false", "no", "disable":
		return false, nil
	}
	return false, fmt.Errorf("invalid value %q (allowed values: true, yes, enable, false, no, disable)", value)
}

// SetSetting stores a boolean setting given in any form ParseBool accepts.
func (c *Config) SetSetting(key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key is required")
	}
	b, err := ParseBool(value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if c.Settings == nil {
		c.Settings = make(map[string]bool)
	}
	c.Settings[key] = b
	return nil
}

// Setting returns a boolean setting, false when unset.
func (c *Config) Setting(key string) bool {
	return c.Settings[key]
}

// AddCluster stores a new cluster entry.
func (c *Config) AddCluster(entry ClusterEntry) error {
	if entry.Alias == "" {
		return fmt.Errorf("cluster alias is required")
	}
	if entry.Provider == "" {
		return fmt.Errorf("cluster provider is required")
	}
	if _, err := c.Cluster(entry.Alias); err == nil {
		return fmt.Errorf("cluster %q already exists", entry.Alias)
	}
	c.Clusters = append(c.Clusters, entry)
	sort.Slice(c.Clusters, func(i, j int) bool { return c.Clusters[i].Alias < c.Clusters[j].Alias })
	return nil
}

// RemoveCluster deletes a cluster entry and clears it as current cluster.
func (c *Config) RemoveCluster(alias string) error {
	idx := slices.IndexFunc(c.Clusters, func(e ClusterEntry) bool { return e.Alias == alias })
	if idx < 0 {
		return fmt.Errorf("cluster %q not found", alias)
	}
	c.Clusters = slices.Delete(c.Clusters, idx, idx+1)
	if c.CurrentCluster == alias {
		c.CurrentCluster = ""
	}
	return nil
}

// Cluster returns the entry stored under alias.
func (c *Config) Cluster(alias string) (ClusterEntry, error) {
	for _, e := range c.Clusters {
		if e.Alias == alias {
			return e, nil
		}
	}
	return ClusterEntry{}, fmt.Errorf("cluster %q not found", alias)
}

// UseCluster makes alias the current cluster.
func (c *Config) UseCluster(alias string) error {
	if _, err := c.Cluster(alias); err != nil {
		return err
	}
	c.CurrentCluster = alias
	return nil
}

// Current returns the current cluster entry.
func (c *Config) Current() (ClusterEntry, error) {
	if c.CurrentCluster == "" {
		return ClusterEntry{}, fmt.Errorf("no current cluster set (run 'dg cluster use')")
	}
	return c.Cluster(c.CurrentCluster)
}
