package openshift

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/ibm/data-gate-cli/internal/logging"
)

// Session is the result of a successful login.
type Session struct {
	Server        string
	Context       string
	User          string
	Token         string
	ServerVersion string
	// Kubeconfig holds a single-context kubeconfig for this session.
	Kubeconfig []byte
}

// Client performs logins.
type Client struct {
	httpClient     *http.Client
	oauth          *resty.Client
	kubeconfigPath string
	requestTimeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithKubeconfigPath writes the session to path instead of the default kubeconfig.
func WithKubeconfigPath(path string) Option {
	return func(c *Client) {
		c.kubeconfigPath = path
	}
}

// WithHTTPClient replaces the HTTP client used for OAuth requests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// NewClient creates a login client. TLS verification is disabled, matching
// oc login --insecure-skip-tls-verify.
func NewClient(opts ...Option) *Client {
	c := &Client{
		requestTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.oauth = newOAuthClient(c.httpClient)
	return c
}

// Login authenticates against server and stores the session in the kubeconfig.
func (c *Client) Login(ctx context.Context, server string, creds Credentials) (*Session, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx).WithValues("server", server)

	token := creds.Token
	user := "token"
	if creds.HasPassword() {
		issuer, err := c.oauthIssuer(ctx, server)
		if err != nil {
			return nil, err
		}
		logger.V(1).Info("Requesting OAuth access token", "issuer", issuer, "user", creds.Username)
		token, err = c.RequestToken(ctx, issuer, creds.Username, creds.Password)
		if err != nil {
			return nil, err
		}
		user = creds.Username
	}

	version, err := c.verify(server, token)
	if err != nil {
		return nil, err
	}

	session := &Session{
		Server:        server,
		Context:       contextName(server),
		User:          user,
		Token:         token,
		ServerVersion: version,
	}

	kubeconfig := session.kubeconfig()
	session.Kubeconfig, err = clientcmd.Write(*kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("serialize kubeconfig: %w", err)
	}
	if err := c.saveKubeconfig(kubeconfig); err != nil {
		return nil, err
	}

	logger.Info("Logged in", "context", session.Context, "serverVersion", version)
	return session, nil
}

// verify checks the token against the API server and returns its version.
func (c *Client) verify(server, token string) (string, error) {
	cfg := &rest.Config{
		Host:            server,
		BearerToken:     token,
		Timeout:         c.requestTimeout,
		TLSClientConfig: rest.TLSClientConfig{Insecure: true},
	}

	dc, err := discovery.NewDiscoveryClientForConfig(cfg)
	if err != nil {
		return "", fmt.Errorf("create discovery client: %w", err)
	}

	info, err := dc.ServerVersion()
	if err != nil {
		switch {
		case apierrors.IsUnauthorized(err):
			return "", &RejectedError{StatusCode: http.StatusUnauthorized}
		case apierrors.IsForbidden(err):
			return "", &RejectedError{StatusCode: http.StatusForbidden}
		}
		return "", fmt.Errorf("failed to reach API server: %w", err)
	}
	return info.GitVersion, nil
}

func (s *Session) kubeconfig() *clientcmdapi.Config {
	userName := s.User + "/" + s.Context

	cfg := clientcmdapi.NewConfig()

	cluster := clientcmdapi.NewCluster()
	cluster.Server = s.Server
	cluster.InsecureSkipTLSVerify = true
	cfg.Clusters[s.Context] = cluster

	auth := clientcmdapi.NewAuthInfo()
	auth.Token = s.Token
	cfg.AuthInfos[userName] = auth

	kctx := clientcmdapi.NewContext()
	kctx.Cluster = s.Context
	kctx.AuthInfo = userName
	kctx.Namespace = "default"
	cfg.Contexts[s.Context] = kctx

	cfg.CurrentContext = s.Context
	return cfg
}

// saveKubeconfig merges cfg into the kubeconfig file and selects its context.
func (c *Client) saveKubeconfig(cfg *clientcmdapi.Config) error {
	path := c.kubeconfigPath
	if path == "" {
		path = clientcmd.NewDefaultClientConfigLoadingRules().GetDefaultFilename()
	}

	existing, err := clientcmd.LoadFromFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load kubeconfig %s: %w", path, err)
		}
		existing = clientcmdapi.NewConfig()
	}

	for name, cluster := range cfg.Clusters {
		existing.Clusters[name] = cluster
	}
	for name, auth := range cfg.AuthInfos {
		existing.AuthInfos[name] = auth
	}
	for name, kctx := range cfg.Contexts {
		existing.Contexts[name] = kctx
	}
	existing.CurrentContext = cfg.CurrentContext

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create kubeconfig directory: %w", err)
	}
	if err := clientcmd.WriteToFile(*existing, path); err != nil {
		return fmt.Errorf("write kubeconfig %s: %w", path, err)
	}
	return nil
}
