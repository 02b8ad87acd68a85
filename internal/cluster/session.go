package cluster

import (
	"context"

	"github.com/ibm/data-gate-cli/internal/openshift"
)

// Loginer opens an API server session. *openshift.Client implements it.
type Loginer interface {
	Login(ctx context.Context, server string, creds openshift.Credentials) (*openshift.Session, error)
}

// DefaultLoginer is used by provider factories unless they are given another one.
var DefaultLoginer Loginer = openshift.NewClient()

// LoginWith validates creds and logs in to server, wrapping every failure
// in a *LoginError. Missing credentials fail before any network call.
func LoginWith(ctx context.Context, l Loginer, server string, creds openshift.Credentials) error {
	if err := creds.Validate(); err != nil {
		return &LoginError{Server: server, Err: ErrMissingCredentials}
	}
	if _, err := l.Login(ctx, server, creds); err != nil {
		return &LoginError{Server: server, Err: err}
	}
	return nil
}
