// Package containers queries the IBM Cloud Kubernetes Service for the
// cluster versions it offers.
package containers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-resty/resty/v2"

	"github.com/ibm/data-gate-cli/internal/ibmcloud"
)

const versionsPath = "/global/v1/versions"

// Version is a cluster version offered by the service.
type Version struct {
	Major   uint64 `json:"major"`
	Minor   uint64 `json:"minor"`
	Patch   uint64 `json:"patch"`
	Default bool   `json:"default"`
}

func (v Version) semver() *semver.Version {
	return semver.New(v.Major, v.Minor, v.Patch, "", "")
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Versions lists the offered versions per platform.
type Versions struct {
	Kubernetes []Version `json:"kubernetes"`
	OpenShift  []Version `json:"openshift"`
}

// openShiftSupport maps Cloud Pak for Data release lines to the OpenShift
// versions they run on.
var openShiftSupport = map[string]string{
	"4.0": "~4.6.0 || ~4.8.0",
}

// Client is a containers API client.
type Client struct {
	rest *resty.Client
}

// NewClient creates a client for the containers service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{rest: ibmcloud.NewRESTClient(baseURL)}
}

// OpenShiftVersions lists the OpenShift versions available for new clusters.
func (c *Client) OpenShiftVersions(ctx context.Context, auth ibmcloud.Auth) ([]Version, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Authorization", auth.Authorization).
		Get(versionsPath)

	var out Versions
	if err := ibmcloud.DecodeJSON("list cluster versions", resp, err, &out); err != nil {
		return nil, err
	}
	return out.OpenShift, nil
}

// SupportedOpenShift returns the OpenShift constraint for a Cloud Pak for
// Data version.
func SupportedOpenShift(cp4dVersion string) (*semver.Constraints, error) {
	v, err := semver.NewVersion(cp4dVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid Cloud Pak for Data version %q: %w", cp4dVersion, err)
	}
	line := fmt.Sprintf("%d.%d", v.Major(), v.Minor())
	expr, ok := openShiftSupport[line]
	if !ok {
		return nil, fmt.Errorf("no supported OpenShift versions known for Cloud Pak for Data %s", cp4dVersion)
	}
	return semver.NewConstraint(expr)
}

// LatestSupportedOpenShiftVersion picks the highest offered version allowed
// by the Cloud Pak for Data version and returns it in the
// "<version>_openshift" form the service expects.
func LatestSupportedOpenShiftVersion(offered []Version, cp4dVersion string) (string, error) {
	constraint, err := SupportedOpenShift(cp4dVersion)
	if err != nil {
		return "", err
	}

	var latest *semver.Version
	for _, o := range offered {
		v := o.semver()
		if !constraint.Check(v) {
			continue
		}
		if latest == nil || v.GreaterThan(latest) {
			latest = v
		}
	}

	if latest == nil {
		names := make([]string, 0, len(offered))
		for _, o := range offered {
			names = append(names, o.String())
		}
		return "", fmt.Errorf("none of the OpenShift versions available in IBM Cloud is supported by IBM Cloud Pak for Data %s: [%s]",
			cp4dVersion, strings.Join(names, ", "))
	}
	return latest.String() + "_openshift", nil
}
