package cluster

import (
	"errors"
	"fmt"
)

// UnknownProviderError is returned when no factory is registered for a tag.
type UnknownProviderError struct {
	Provider string
	Known    []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown cluster provider %q (registered: %v)", e.Provider, e.Known)
}

// DuplicateProviderError is returned when a tag is registered twice.
type DuplicateProviderError struct {
	Provider string
}

func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("cluster provider %q is already registered", e.Provider)
}

// ErrMissingCredentials is wrapped by LoginError when neither
// username/password nor a token is available.
var ErrMissingCredentials = errors.New("either username and password or a token is required")

// LoginError reports a failed login.
type LoginError struct {
	Server string
	Err    error
}

func (e *LoginError) Error() string {
	return fmt.Sprintf("failed to log in to %s: %v", e.Server, e.Err)
}

func (e *LoginError) Unwrap() error {
	return e.Err
}
