// Package iam exchanges IBM Cloud API keys for IAM access tokens.
package iam

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"

	"github.com/ibm/data-gate-cli/internal/ibmcloud"
)

const (
	tokenPath       = "/identity/token"
	apiKeyGrantType = "urn:ibm:params:oauth:grant-type:apikey"
)

// ErrNoAPIKey is returned when an empty API key is passed.
var ErrNoAPIKey = errors.New("IBM Cloud API key is required")

// Tokens is an IAM token pair.
type Tokens struct {
	TokenType    string `json:"token_type"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Expiration   int64  `json:"expiration"`
}

// Authorization returns the value for an Authorization header.
func (t *Tokens) Authorization() string {
	return t.TokenType + " " + t.AccessToken
}

// AccountID returns the account GUID from the access token claims.
// The token signature is not verified; IAM issued it over TLS.
func (t *Tokens) AccountID() (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.AccessToken, claims); err != nil {
		return "", fmt.Errorf("parse IAM access token: %w", err)
	}

	account, ok := claims["account"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("IAM access token has no account claim")
	}
	bss, ok := account["bss"].(string)
	if !ok || bss == "" {
		return "", fmt.Errorf("IAM access token has no account.bss claim")
	}
	return bss, nil
}

func (t *Tokens) oauth2Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
	}
	if t.Expiration > 0 {
		tok.Expiry = time.Unix(t.Expiration, 0)
	} else if t.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	return tok
}

// Client talks to the IAM token endpoint.
type Client struct {
	rest *resty.Client

	mu     sync.Mutex
	tokens map[string]*oauth2.Token
}

// NewClient creates a client for the IAM service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		rest:   ibmcloud.NewRESTClient(baseURL),
		tokens: make(map[string]*oauth2.Token),
	}
}

// Tokens exchanges apiKey for a fresh token pair.
func (c *Client) Tokens(ctx context.Context, apiKey string) (*Tokens, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type": apiKeyGrantType,
			"apikey":     apiKey,
		}).
		Post(tokenPath)

	var tokens Tokens
	if err := ibmcloud.DecodeJSON("IAM token request", resp, err, &tokens); err != nil {
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("IAM token response contains no access token")
	}
	if tokens.TokenType == "" {
		tokens.TokenType = "Bearer"
	}
	return &tokens, nil
}

// OAuthToken returns an Authorization header value for apiKey. Tokens are
// cached per key and renewed with ctx once expired.
func (c *Client) OAuthToken(ctx context.Context, apiKey string) (string, error) {
	if apiKey == "" {
		return "", ErrNoAPIKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	src := oauth2.ReuseTokenSource(c.tokens[apiKey], &apiKeySource{client: c, ctx: ctx, apiKey: apiKey})
	tok, err := src.Token()
	if err != nil {
		return "", err
	}
	c.tokens[apiKey] = tok
	return tok.Type() + " " + tok.AccessToken, nil
}

// apiKeySource adapts Tokens to oauth2.TokenSource for one call.
type apiKeySource struct {
	client *Client
	ctx    context.Context
	apiKey string
}

func (s *apiKeySource) Token() (*oauth2.Token, error) {
	tokens, err := s.client.Tokens(s.ctx, s.apiKey)
	if err != nil {
		return nil, err
	}
	return tokens.oauth2Token(), nil
}
