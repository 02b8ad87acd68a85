package installer

import (
	"fmt"

	"github.com/ibm/data-gate-cli/internal/ibmcloud"
	"github.com/ibm/data-gate-cli/internal/platform/s3"
	"github.com/ibm/data-gate-cli/internal/poll"
)

// Config holds the installation settings.
type Config struct {
	// ProductLabel is the catalog offering label to install.
	ProductLabel string `yaml:"product_label"`
	// EntitlementProduct is matched as a substring of entitlement names.
	EntitlementProduct string `yaml:"entitlement_product"`
	Version            string `yaml:"version"`

	Namespace     string `yaml:"namespace"`
	Region        string `yaml:"region"`
	ResourceGroup string `yaml:"resource_group"`
	StorageClass  string `yaml:"storage_class"`

	PreInstallBudget poll.Budget `yaml:"pre_install_budget"`
	InstallBudget    poll.Budget `yaml:"install_budget"`

	Endpoints  ibmcloud.Endpoints `yaml:"endpoints"`
	LogArchive s3.Config          `yaml:"log_archive"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		ProductLabel:       "Cloud Pak for Data",
		EntitlementProduct: "IBM Cloud Pak for Data",
		Version:            "4.0.0",
		Namespace:          "zen",
		Region:             "sjc03",
		ResourceGroup:      "Default",
		StorageClass:       "ibmc-file-gold-gid",
		PreInstallBudget:   poll.NewBudget(1, 300),
		InstallBudget:      poll.NewBudget(30, 3600),
		Endpoints:          ibmcloud.DefaultEndpoints(),
	}
}

// WithDefaults fills every empty field from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	setDefault(&c.ProductLabel, d.ProductLabel)
	setDefault(&c.EntitlementProduct, d.EntitlementProduct)
	setDefault(&c.Version, d.Version)
	setDefault(&c.Namespace, d.Namespace)
	setDefault(&c.Region, d.Region)
	setDefault(&c.ResourceGroup, d.ResourceGroup)
	setDefault(&c.StorageClass, d.StorageClass)
	if c.PreInstallBudget == (poll.Budget{}) {
		c.PreInstallBudget = d.PreInstallBudget
	}
	if c.InstallBudget == (poll.Budget{}) {
		c.InstallBudget = d.InstallBudget
	}
	c.Endpoints = c.Endpoints.WithDefaults()
	return c
}

// Validate checks the poll budgets.
func (c Config) Validate() error {
	if err := c.PreInstallBudget.Validate(); err != nil {
		return fmt.Errorf("pre-install budget: %w", err)
	}
	if err := c.InstallBudget.Validate(); err != nil {
		return fmt.Errorf("install budget: %w", err)
	}
	return nil
}

// overrideValues are the component switches sent with the install request.
func (c Config) overrideValues() map[string]string {
	return map[string]string{
		"db2wh":    "true",
		"datagate": "true",
		"storage":  c.StorageClass,
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
