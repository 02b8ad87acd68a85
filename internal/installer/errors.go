package installer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ibm/data-gate-cli/internal/ibmcloud/catalog"
)

// MissingCredentialError is returned when a required credential is not
// configured. No remote call is made in that case.
type MissingCredentialError struct {
	Name string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("credential %q is not configured (run 'dg adm store-credentials')", e.Name)
}

// VersionNotFoundError is returned when the catalog has no offering version
// matching the requested one. Offerings holds what the catalog returned.
type VersionNotFoundError struct {
	Product   string
	Version   string
	Offerings []catalog.Offering
}

func (e *VersionNotFoundError) Error() string {
	raw, err := json.Marshal(e.Offerings)
	if err != nil {
		raw = []byte(fmt.Sprintf("%+v", e.Offerings))
	}
	return fmt.Sprintf("version %s of %q not found in catalog offerings: %s", e.Version, e.Product, raw)
}

// InstallSubmissionError is returned when the install request is rejected.
type InstallSubmissionError struct {
	ClusterID  string
	StatusCode int
	Body       string
}

func (e *InstallSubmissionError) Error() string {
	return fmt.Sprintf("failed to start installation on cluster %s (HTTP status code: %d): %s",
		e.ClusterID, e.StatusCode, e.Body)
}

// EntitlementNotFoundError is returned when no account entitlement matches
// the product.
type EntitlementNotFoundError struct {
	Product   string
	Available []string
}

func (e *EntitlementNotFoundError) Error() string {
	return fmt.Sprintf("no entitlement for %q found (available: [%s])", e.Product, strings.Join(e.Available, ", "))
}

// OutputExtractionError is returned when the workspace output values do not
// contain the platform URL.
type OutputExtractionError struct {
	WorkspaceID string
	Values      any
	Err         error
}

func (e *OutputExtractionError) Error() string {
	raw, err := json.Marshal(e.Values)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", e.Values))
	}
	msg := fmt.Sprintf("unable to retrieve platform URL from output values of workspace %s", e.WorkspaceID)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg + fmt.Sprintf(" (output values: %s)", raw)
}

func (e *OutputExtractionError) Unwrap() error {
	return e.Err
}

// StageError records the stage an installation failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage returns the stage recorded in err, if any.
func FailedStage(err error) (string, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
