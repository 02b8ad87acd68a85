// Package schematics reads IBM Cloud Schematics workspaces created by
// catalog installs.
package schematics

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/ibm/data-gate-cli/internal/ibmcloud"
)

const (
	workspacePath    = "/v1/workspaces/{id}"
	outputValuesPath = "/v1/workspaces/{id}/output_values"

	// StatusActive is the workspace status of a finished install.
	StatusActive = "ACTIVE"
)

// RuntimeData describes a workspace's template run.
type RuntimeData struct {
	LogStoreURL string `json:"log_store_url"`
}

// Workspace is the subset of a workspace the CLI reads.
type Workspace struct {
	ID          string        `json:"id"`
	Status      string        `json:"status"`
	RuntimeData []RuntimeData `json:"runtime_data"`
}

// LogStoreURL returns the log location of the first runtime entry.
func (w *Workspace) LogStoreURL() (string, error) {
	if len(w.RuntimeData) == 0 || w.RuntimeData[0].LogStoreURL == "" {
		return "", fmt.Errorf("workspace %s has no log store URL", w.ID)
	}
	return w.RuntimeData[0].LogStoreURL, nil
}

// Client is a Schematics API client.
type Client struct {
	rest *resty.Client
}

// NewClient creates a client for the Schematics service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{rest: ibmcloud.NewRESTClient(baseURL)}
}

// Workspace fetches workspace id.
func (c *Client) Workspace(ctx context.Context, auth ibmcloud.Auth, id string) (*Workspace, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", auth.Authorization).
		SetPathParam("id", id).
		Get(workspacePath)

	var ws Workspace
	if err := ibmcloud.DecodeJSON("get workspace "+id, resp, err, &ws); err != nil {
		return nil, err
	}
	if ws.ID == "" {
		ws.ID = id
	}
	return &ws, nil
}

// OutputValues returns the decoded output values of workspace id. The shape
// depends on the template, so it is returned untyped.
func (c *Client) OutputValues(ctx context.Context, auth ibmcloud.Auth, id string) (any, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", auth.Authorization).
		SetPathParam("id", id).
		Get(outputValuesPath)

	var out any
	if err := ibmcloud.DecodeJSON("get output values of workspace "+id, resp, err, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Log downloads the log at logStoreURL, which is an absolute URL.
func (c *Client) Log(ctx context.Context, auth ibmcloud.Auth, logStoreURL string) (string, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", auth.Authorization).
		SetHeader("Accept", "text/plain").
		Get(logStoreURL)
	if err := ibmcloud.CheckResponse("get workspace log", resp, err); err != nil {
		return "", err
	}
	return resp.String(), nil
}
