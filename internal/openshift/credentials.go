package openshift

import (
	"errors"
	"strings"

	"al.essio.dev/pkg/shellescape"
)

// ErrNoCredentials is returned when neither username/password nor a token is set.
var ErrNoCredentials = errors.New("either username and password or a token is required")

// Credentials for an API server login. Username/password take precedence
// over Token when both are set.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// HasPassword reports whether username and password are both set.
func (c Credentials) HasPassword() bool {
	return c.Username != "" && c.Password != ""
}

// Validate fails fast when no usable credential is present.
func (c Credentials) Validate() error {
	if c.HasPassword() || c.Token != "" {
		return nil
	}
	return ErrNoCredentials
}

// LoginArgs returns the oc login arguments for server.
func LoginArgs(server string, creds Credentials) ([]string, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if creds.HasPassword() {
		return []string{
			"login",
			"--insecure-skip-tls-verify",
			"--password", creds.Password,
			"--server", server,
			"--username", creds.Username,
		}, nil
	}
	return []string{
		"login",
		"--insecure-skip-tls-verify",
		"--server", server,
		"--token", creds.Token,
	}, nil
}

// LoginCommand returns a shell-quoted oc login command line for running on
// another host.
func LoginCommand(server string, creds Credentials) (string, error) {
	args, err := LoginArgs(server, creds)
	if err != nil {
		return "", err
	}
	return shellescape.QuoteCommand(append([]string{"oc"}, args...)), nil
}

// contextName mirrors the host part of the server URL with dots replaced,
// the way oc names its contexts.
func contextName(server string) string {
	host := server
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.TrimSuffix(host, "/")
	return strings.ReplaceAll(host, ".", "-")
}
