package openshift

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	oauthMetadataPath   = "/.well-known/oauth-authorization-server"
	challengingClientID = "openshift-challenging-client"
	oauthTimeout        = 30 * time.Second
)

// RejectedError is returned when the server refuses the credentials.
type RejectedError struct {
	StatusCode int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("credentials rejected by server (HTTP %d)", e.StatusCode)
}

// newOAuthClient returns a client that does not follow redirects, since the
// token is carried by the Location header of the authorize response.
func newOAuthClient(hc *http.Client) *resty.Client {
	var rc *resty.Client
	if hc == nil {
		rc = resty.New().
			SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // matches oc login --insecure-skip-tls-verify
	} else {
		rc = resty.NewWithClient(hc)
	}
	return rc.
		SetTimeout(oauthTimeout).
		SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
}

// oauthIssuer reads the OAuth server URL advertised by the API server.
func (c *Client) oauthIssuer(ctx context.Context, server string) (string, error) {
	resp, err := c.oauth.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(strings.TrimSuffix(server, "/") + oauthMetadataPath)
	if err != nil {
		return "", fmt.Errorf("failed to discover OAuth server: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("OAuth metadata returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var meta struct {
		Issuer string `json:"issuer"`
	}
	if err := json.Unmarshal(resp.Body(), &meta); err != nil {
		return "", fmt.Errorf("parse OAuth metadata: %w", err)
	}
	if meta.Issuer == "" {
		return "", fmt.Errorf("OAuth metadata does not contain an issuer")
	}
	return meta.Issuer, nil
}

// RequestToken obtains an OAuth access token for username/password from
// the OAuth server at issuer.
func (c *Client) RequestToken(ctx context.Context, issuer, username, password string) (string, error) {
	resp, err := c.oauth.R().
		SetContext(ctx).
		SetBasicAuth(username, password).
		SetHeader("X-CSRF-Token", "1").
		SetQueryParams(map[string]string{
			"client_id":     challengingClientID,
			"response_type": "token",
		}).
		Get(strings.TrimSuffix(issuer, "/") + "/oauth/authorize")
	if err != nil {
		return "", fmt.Errorf("OAuth token request failed: %w", err)
	}

	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return "", &RejectedError{StatusCode: resp.StatusCode()}
	}

	location := resp.Header().Get("Location")
	if location == "" {
		return "", fmt.Errorf("HTTP Location header not found (status %d)", resp.StatusCode())
	}
	return tokenFromLocation(location)
}

func tokenFromLocation(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse Location header: %w", err)
	}

	fragment, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return "", fmt.Errorf("parse Location fragment: %w", err)
	}

	token := fragment.Get("access_token")
	if token == "" {
		if reason := fragment.Get("error"); reason != "" {
			return "", fmt.Errorf("OAuth server returned error %q", reason)
		}
		return "", fmt.Errorf("access_token key not found in URL fragment")
	}
	return token, nil
}
