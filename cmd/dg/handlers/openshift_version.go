package handlers

import (
	"context"
	"fmt"

	"github.com/ibm/data-gate-cli/internal/config"
	"github.com/ibm/data-gate-cli/internal/ibmcloud"
	"github.com/ibm/data-gate-cli/internal/ibmcloud/containers"
	"github.com/ibm/data-gate-cli/internal/ibmcloud/iam"
	"github.com/ibm/data-gate-cli/internal/installer"
)

// TokenIssuer exchanges API keys for IAM tokens - matches *iam.Client.
type TokenIssuer interface {
	Tokens(ctx context.Context, apiKey string) (*iam.Tokens, error)
}

// VersionLister lists OpenShift versions - matches *containers.Client.
type VersionLister interface {
	OpenShiftVersions(ctx context.Context, auth ibmcloud.Auth) ([]containers.Version, error)
}

// Factory function variables for oc latest-version - can be replaced in tests.
var (
	newTokenIssuer = func(endpoints ibmcloud.Endpoints) TokenIssuer {
		return iam.NewClient(endpoints.IAM)
	}

	newVersionLister = func(endpoints ibmcloud.Endpoints) VersionLister {
		return containers.NewClient(endpoints.Containers)
	}
)

// LatestOpenShiftVersion prints the newest OpenShift version offered by
// IBM Cloud that the configured platform version supports.
func LatestOpenShiftVersion(ctx context.Context) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	apiKey, ok := cfg.Credential(config.IBMCloudAPIKey)
	if !ok {
		return &installer.MissingCredentialError{Name: config.IBMCloudAPIKey}
	}
	install := cfg.Install.WithDefaults()

	tokens, err := newTokenIssuer(install.Endpoints).Tokens(ctx, apiKey)
	if err != nil {
		return err
	}
	offered, err := newVersionLister(install.Endpoints).OpenShiftVersions(ctx, ibmcloud.Auth{Authorization: tokens.Authorization()})
	if err != nil {
		return err
	}
	version, err := containers.LatestSupportedOpenShiftVersion(offered, install.Version)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, version)
	return nil
}
