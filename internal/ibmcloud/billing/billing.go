// Package billing reads licensing entitlements of an IBM Cloud account.
package billing

import (
	"context"

	"github.com/go-resty/resty/v2"

	"github.com/ibm/data-gate-cli/internal/ibmcloud"
)

const entitlementsPath = "/v1/licensing/entitlements"

// Entitlement is a product entitlement bound to the account.
type Entitlement struct {
	Name   string `json:"name"`
	APIKey string `json:"apikey"`
}

// Client is a billing API client.
type Client struct {
	rest *resty.Client
}

// NewClient creates a client for the billing service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{rest: ibmcloud.NewRESTClient(baseURL)}
}

// Entitlements lists the entitlements of the account auth belongs to.
func (c *Client) Entitlements(ctx context.Context, auth ibmcloud.Auth) ([]Entitlement, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", auth.Authorization).
		Get(entitlementsPath)

	var out struct {
		Resources []Entitlement `json:"resources"`
	}
	if err := ibmcloud.DecodeJSON("list entitlements", resp, err, &out); err != nil {
		return nil, err
	}
	return out.Resources, nil
}
