package ibmcloud

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 60 * time.Second

// Endpoints are the base URLs of the IBM Cloud services the CLI talks to.
type Endpoints struct {
	IAM        string `yaml:"iam,omitempty"`
	Catalog    string `yaml:"catalog,omitempty"`
	Billing    string `yaml:"billing,omitempty"`
	Schematics string `yaml:"schematics,omitempty"`
	Containers string `yaml:"containers,omitempty"`
}

// DefaultEndpoints returns the public IBM Cloud endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		IAM:        "https://iam.cloud.ibm.com",
		Catalog:    "https://cm.globalcatalog.cloud.ibm.com",
		Billing:    "https://billing.cloud.ibm.com",
		Schematics: "https://schematics.cloud.ibm.com",
		Containers: "https://containers.cloud.ibm.com",
	}
}

// WithDefaults fills empty fields from DefaultEndpoints.
func (e Endpoints) WithDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.IAM == "" {
		e.IAM = d.IAM
	}
	if e.Catalog == "" {
		e.Catalog = d.Catalog
	}
	if e.Billing == "" {
		e.Billing = d.Billing
	}
	if e.Schematics == "" {
		e.Schematics = d.Schematics
	}
	if e.Containers == "" {
		e.Containers = d.Containers
	}
	return e
}

// APIError is a non-2xx response from an IBM Cloud service.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed (HTTP status code: %d): %s", e.Operation, e.StatusCode, e.Body)
}

// NewRESTClient returns a resty client for baseURL with JSON defaults.
func NewRESTClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json")
}

// CheckResponse converts a transport error or non-2xx response into an error.
func CheckResponse(operation string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	if !resp.IsSuccess() {
		return &APIError{Operation: operation, StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}

// DecodeJSON checks resp and unmarshals its body into out.
func DecodeJSON(operation string, resp *resty.Response, err error, out any) error {
	if err := CheckResponse(operation, resp, err); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%s: parse response: %w", operation, err)
	}
	return nil
}

// Auth carries the IAM context sent with authenticated requests.
type Auth struct {
	Authorization string
	RefreshToken  string
	AccountID     string
	ResourceGroup string
}

// Headers returns the request headers for a.
func (a Auth) Headers() map[string]string {
	h := map[string]string{"Authorization": a.Authorization}
	if a.RefreshToken != "" {
		h["X-Auth-Refresh-Token"] = a.RefreshToken
	}
	if a.AccountID != "" {
		h["X-Auth-Resource-Account"] = a.AccountID
	}
	if a.ResourceGroup != "" {
		h["X-Auth-Resource-Group"] = a.ResourceGroup
	}
	return h
}
