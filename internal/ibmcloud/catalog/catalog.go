// Package catalog is a client for the IBM Cloud global catalog offering API.
package catalog

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/ibm/data-gate-cli/internal/ibmcloud"
)

const (
	searchPath     = "/api/v1-beta/search"
	preinstallPath = "/api/v1-beta/versions/{locator}/preinstall"
	installPath    = "/api/v1-beta/versions/{locator}/install"
)

// Version is one installable version of an offering.
type Version struct {
	Version string `json:"version"`
	ID      string `json:"id"`
}

// Kind groups the versions of an offering for one install kind.
type Kind struct {
	Versions []Version `json:"versions"`
}

// Offering is a catalog search result.
type Offering struct {
	Label     string `json:"label"`
	CatalogID string `json:"catalog_id"`
	Kinds     []Kind `json:"kinds"`
}

// PreinstallRequest is the body of a pre-install submission.
type PreinstallRequest struct {
	VersionLocator string `json:"version_locator_id"`
	ClusterID      string `json:"cluster_id"`
	Namespace      string `json:"namespace"`
	Region         string `json:"region,omitempty"`
}

// InstallRequest is the body of an install submission.
type InstallRequest struct {
	ClusterID         string            `json:"cluster_id"`
	EntitlementAPIKey string            `json:"entitlement_apikey"`
	Namespace         string            `json:"namespace"`
	OverrideValues    map[string]string `json:"override_values"`
	Region            string            `json:"region"`
	VersionLocator    string            `json:"version_locator_id"`
}

// InstallDetails is returned by a successful install submission.
type InstallDetails struct {
	WorkspaceID string `json:"workspace_id"`
}

// Client is a catalog API client.
type Client struct {
	rest *resty.Client
}

// NewClient creates a client for the catalog service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{rest: ibmcloud.NewRESTClient(baseURL)}
}

// Search returns the software offerings matching identifier.
func (c *Client) Search(ctx context.Context, auth ibmcloud.Auth, identifier string) ([]Offering, error) {
	var out struct {
		Resources []Offering `json:"resources"`
	}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeaders(auth.Headers()).
		SetQueryParams(map[string]string{"q": identifier, "kind": "software"}).
		Get(searchPath)
	if err := ibmcloud.DecodeJSON(fmt.Sprintf("catalog search for %q", identifier), resp, err, &out); err != nil {
		return nil, err
	}
	return out.Resources, nil
}

// Preinstall submits a pre-install request. The call returns once the
// request is accepted; there is no completion signal.
func (c *Client) Preinstall(ctx context.Context, auth ibmcloud.Auth, req PreinstallRequest) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeaders(auth.Headers()).
		SetPathParam("locator", req.VersionLocator).
		SetBody(req).
		Post(preinstallPath)
	return ibmcloud.CheckResponse("catalog pre-install", resp, err)
}

// Install submits an install request and returns its details.
func (c *Client) Install(ctx context.Context, auth ibmcloud.Auth, req InstallRequest) (*InstallDetails, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeaders(auth.Headers()).
		SetPathParam("locator", req.VersionLocator).
		SetBody(req).
		Post(installPath)

	var details InstallDetails
	if err := ibmcloud.DecodeJSON("catalog install", resp, err, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
