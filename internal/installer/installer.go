package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"k8s.io/utils/clock"

	"github.com/ibm/data-gate-cli/internal/ibmcloud"
	"github.com/ibm/data-gate-cli/internal/ibmcloud/billing"
	"github.com/ibm/data-gate-cli/internal/ibmcloud/catalog"
	"github.com/ibm/data-gate-cli/internal/ibmcloud/iam"
	"github.com/ibm/data-gate-cli/internal/ibmcloud/schematics"
	"github.com/ibm/data-gate-cli/internal/logging"
	"github.com/ibm/data-gate-cli/internal/poll"
)

// APIKeyCredential is the credential name of the IBM Cloud API key.
const APIKeyCredential = "ibm_cloud_api_key"

// Wait labels, also used as the poll metric label.
const (
	preInstallWaitLabel = "pre-installation"
	installWaitLabel    = "installation"
)

// TokenIssuer exchanges API keys for IAM tokens.
type TokenIssuer interface {
	Tokens(ctx context.Context, apiKey string) (*iam.Tokens, error)
	OAuthToken(ctx context.Context, apiKey string) (string, error)
}

// Catalog resolves and installs offerings.
type Catalog interface {
	Search(ctx context.Context, auth ibmcloud.Auth, identifier string) ([]catalog.Offering, error)
	Preinstall(ctx context.Context, auth ibmcloud.Auth, req catalog.PreinstallRequest) error
	Install(ctx context.Context, auth ibmcloud.Auth, req catalog.InstallRequest) (*catalog.InstallDetails, error)
}

// Billing lists account entitlements.
type Billing interface {
	Entitlements(ctx context.Context, auth ibmcloud.Auth) ([]billing.Entitlement, error)
}

// Workspaces reads Schematics workspaces.
type Workspaces interface {
	Workspace(ctx context.Context, auth ibmcloud.Auth, id string) (*schematics.Workspace, error)
	OutputValues(ctx context.Context, auth ibmcloud.Auth, id string) (any, error)
	Log(ctx context.Context, auth ibmcloud.Auth, logStoreURL string) (string, error)
}

// LogArchiver stores diagnostic logs.
type LogArchiver interface {
	PutText(ctx context.Context, key, text string) error
}

// Result is the outcome of a successful installation.
type Result struct {
	Session Session
	URL     string
}

// Installer runs installations.
type Installer struct {
	cfg Config

	iam        TokenIssuer
	catalog    Catalog
	billing    Billing
	workspaces Workspaces
	archiver   LogArchiver

	clock   clock.Clock
	status  io.Writer
	metrics *Metrics
}

// Option configures an Installer.
type Option func(*Installer)

// WithTokenIssuer replaces the IAM client.
func WithTokenIssuer(t TokenIssuer) Option {
	return func(i *Installer) { i.iam = t }
}

// WithCatalog replaces the catalog client.
func WithCatalog(c Catalog) Option {
	return func(i *Installer) { i.catalog = c }
}

// WithBilling replaces the billing client.
func WithBilling(b Billing) Option {
	return func(i *Installer) { i.billing = b }
}

// WithWorkspaces replaces the Schematics client.
func WithWorkspaces(w Workspaces) Option {
	return func(i *Installer) { i.workspaces = w }
}

// WithLogArchiver uploads the install log fetched after a timeout.
func WithLogArchiver(a LogArchiver) Option {
	return func(i *Installer) { i.archiver = a }
}

// WithClock replaces the wall clock used for waits and timings.
func WithClock(c clock.Clock) Option {
	return func(i *Installer) { i.clock = c }
}

// WithStatusWriter sets where wait progress is printed.
func WithStatusWriter(w io.Writer) Option {
	return func(i *Installer) { i.status = w }
}

// WithMetrics records run metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(i *Installer) { i.metrics = m }
}

// New creates an Installer. Clients not supplied by options are built from
// cfg.Endpoints.
func New(cfg Config, opts ...Option) *Installer {
	cfg = cfg.WithDefaults()
	i := &Installer{cfg: cfg, clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(i)
	}
	if i.iam == nil {
		i.iam = iam.NewClient(cfg.Endpoints.IAM)
	}
	if i.catalog == nil {
		i.catalog = catalog.NewClient(cfg.Endpoints.Catalog)
	}
	if i.billing == nil {
		i.billing = billing.NewClient(cfg.Endpoints.Billing)
	}
	if i.workspaces == nil {
		i.workspaces = schematics.NewClient(cfg.Endpoints.Schematics)
	}
	return i
}

// Config returns the effective configuration.
func (i *Installer) Config() Config {
	return i.cfg
}

func (i *Installer) poller() *poll.Poller {
	return poll.New(
		poll.WithClock(i.clock),
		poll.WithStatusWriter(i.status),
		poll.WithObserver(i.metrics.ObservePoll),
	)
}

// Install installs the configured product onto clusterID.
func (i *Installer) Install(ctx context.Context, clusterID, apiKey string) (*Result, error) {
	if apiKey == "" {
		return nil, &MissingCredentialError{Name: APIKeyCredential}
	}
	if clusterID == "" {
		return nil, errors.New("cluster ID is required")
	}
	if err := i.cfg.Validate(); err != nil {
		return nil, err
	}

	r := newRun(ctx, i.clock, i.metrics, clusterID)
	r.log.Info("starting installation", "product", i.cfg.ProductLabel, "version", i.cfg.Version, "cluster", clusterID)

	if err := r.advance(ctx, eventLocate); err != nil {
		return nil, err
	}
	auth, err := i.authenticate(ctx, apiKey)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	locator, err := i.LocateVersion(ctx, auth)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	r.session.VersionLocator = locator

	if err := r.advance(ctx, eventPreinstall); err != nil {
		return nil, err
	}
	r.log.Info("executing pre-installation", "cluster", clusterID)
	err = i.catalog.Preinstall(ctx, auth, catalog.PreinstallRequest{
		VersionLocator: locator,
		ClusterID:      clusterID,
		Namespace:      i.cfg.Namespace,
		Region:         i.cfg.Region,
	})
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	if err := r.advance(ctx, eventWaitPreinstall); err != nil {
		return nil, err
	}
	// The pre-install status endpoint is unreliable, so this is a fixed wait
	// rather than a completion check.
	r.log.Info("waiting for pre-installation", "cluster", clusterID)
	if _, err := i.poller().WaitFixed(ctx, i.cfg.PreInstallBudget, preInstallWaitLabel); err != nil {
		return nil, r.fail(ctx, err)
	}

	if err := r.advance(ctx, eventInstall); err != nil {
		return nil, err
	}
	r.log.Info("executing installation", "cluster", clusterID)
	workspaceID, err := i.submitInstall(ctx, apiKey, clusterID, locator)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	r.session.WorkspaceID = workspaceID
	r.log.Info("installation request submitted", r.session.keysAndValues()...)

	if err := r.advance(ctx, eventWaitInstall); err != nil {
		return nil, err
	}
	return i.finish(ctx, r, apiKey)
}

// Resume waits for an installation submitted earlier, identified by its
// workspace, and returns its result.
func (i *Installer) Resume(ctx context.Context, workspaceID, apiKey string) (*Result, error) {
	if apiKey == "" {
		return nil, &MissingCredentialError{Name: APIKeyCredential}
	}
	if workspaceID == "" {
		return nil, errors.New("workspace ID is required")
	}
	if err := i.cfg.Validate(); err != nil {
		return nil, err
	}

	r := newRun(ctx, i.clock, i.metrics, "")
	r.session.WorkspaceID = workspaceID
	if err := r.advance(ctx, eventResume); err != nil {
		return nil, err
	}
	return i.finish(ctx, r, apiKey)
}

// WorkspaceStatus returns the current status of an installation workspace.
func (i *Installer) WorkspaceStatus(ctx context.Context, workspaceID, apiKey string) (string, error) {
	if apiKey == "" {
		return "", &MissingCredentialError{Name: APIKeyCredential}
	}
	auth, err := i.schematicsAuth(ctx, apiKey)
	if err != nil {
		return "", err
	}
	ws, err := i.workspaces.Workspace(ctx, auth, workspaceID)
	if err != nil {
		return "", err
	}
	return ws.Status, nil
}

// finish runs the waiting-install and succeeded stages.
func (i *Installer) finish(ctx context.Context, r *run, apiKey string) (*Result, error) {
	workspaceID := r.session.WorkspaceID

	r.log.Info("waiting for installation", "workspace", workspaceID)
	_, err := i.poller().WaitFor(ctx, i.cfg.InstallBudget, installWaitLabel,
		func(ctx context.Context) (bool, error) {
			auth, err := i.schematicsAuth(ctx, apiKey)
			if err != nil {
				return false, err
			}
			ws, err := i.workspaces.Workspace(ctx, auth, workspaceID)
			if err != nil {
				return false, err
			}
			r.log.V(1).Info("workspace status", "workspace", workspaceID, "status", ws.Status)
			return ws.Status == schematics.StatusActive, nil
		})
	if err != nil {
		var timeout *poll.TimeoutError
		if errors.As(err, &timeout) {
			i.attachLog(ctx, r.session, apiKey, timeout)
		}
		return nil, r.fail(ctx, err)
	}

	if err := r.advance(ctx, eventSucceed); err != nil {
		return nil, err
	}
	auth, err := i.schematicsAuth(ctx, apiKey)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	values, err := i.workspaces.OutputValues(ctx, auth, workspaceID)
	if err != nil {
		return nil, r.fail(ctx, err)
	}
	url, err := ExtractControllerURL(workspaceID, values)
	if err != nil {
		return nil, r.fail(ctx, err)
	}

	r.succeed()
	return &Result{Session: r.session, URL: url}, nil
}

// attachLog fetches the install log into te. A failed fetch is recorded in
// te.LogErr and never replaces the timeout.
func (i *Installer) attachLog(ctx context.Context, session Session, apiKey string, te *poll.TimeoutError) {
	log, err := i.fetchLog(ctx, session.WorkspaceID, apiKey)
	if err != nil {
		te.LogErr = err
		return
	}
	te.Log = log

	if i.archiver == nil {
		return
	}
	key := session.WorkspaceID + ".log"
	if session.ClusterID != "" {
		key = session.ClusterID + "/" + key
	}
	logger := logging.FromContext(ctx)
	if err := i.archiver.PutText(ctx, key, log); err != nil {
		logger.Error(err, "failed to archive installation log", "key", key)
		return
	}
	logger.Info("installation log archived", "key", key)
}

func (i *Installer) fetchLog(ctx context.Context, workspaceID, apiKey string) (string, error) {
	auth, err := i.schematicsAuth(ctx, apiKey)
	if err != nil {
		return "", err
	}
	ws, err := i.workspaces.Workspace(ctx, auth, workspaceID)
	if err != nil {
		return "", err
	}
	logURL, err := ws.LogStoreURL()
	if err != nil {
		return "", err
	}
	return i.workspaces.Log(ctx, auth, logURL)
}

// LocateVersion resolves the configured version to a catalog version locator
// of the form "<catalog id>.<version id>".
func (i *Installer) LocateVersion(ctx context.Context, auth ibmcloud.Auth) (string, error) {
	offerings, err := i.catalog.Search(ctx, auth, i.cfg.ProductLabel)
	if err != nil {
		return "", err
	}
	return locateVersion(offerings, i.cfg.ProductLabel, i.cfg.Version)
}

func locateVersion(offerings []catalog.Offering, label, version string) (string, error) {
	for _, o := range offerings {
		if o.Label != label {
			continue
		}
		for _, k := range o.Kinds {
			for _, v := range k.Versions {
				if v.Version == version && o.CatalogID != "" && v.ID != "" {
					return o.CatalogID + "." + v.ID, nil
				}
			}
		}
	}
	return "", &VersionNotFoundError{Product: label, Version: version, Offerings: offerings}
}

func (i *Installer) submitInstall(ctx context.Context, apiKey, clusterID, locator string) (string, error) {
	auth, err := i.authenticate(ctx, apiKey)
	if err != nil {
		return "", err
	}
	auth.ResourceGroup = i.cfg.ResourceGroup

	entitlementKey, err := i.entitlementKey(ctx, auth)
	if err != nil {
		return "", err
	}

	details, err := i.catalog.Install(ctx, auth, catalog.InstallRequest{
		ClusterID:         clusterID,
		EntitlementAPIKey: entitlementKey,
		Namespace:         i.cfg.Namespace,
		OverrideValues:    i.cfg.overrideValues(),
		Region:            i.cfg.Region,
		VersionLocator:    locator,
	})
	if err != nil {
		var apiErr *ibmcloud.APIError
		if errors.As(err, &apiErr) {
			return "", &InstallSubmissionError{ClusterID: clusterID, StatusCode: apiErr.StatusCode, Body: apiErr.Body}
		}
		return "", err
	}
	if details.WorkspaceID == "" {
		return "", fmt.Errorf("install response for cluster %s contains no workspace_id", clusterID)
	}
	return details.WorkspaceID, nil
}

func (i *Installer) entitlementKey(ctx context.Context, auth ibmcloud.Auth) (string, error) {
	entitlements, err := i.billing.Entitlements(ctx, auth)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(entitlements))
	for _, e := range entitlements {
		if strings.Contains(e.Name, i.cfg.EntitlementProduct) && e.APIKey != "" {
			return e.APIKey, nil
		}
		names = append(names, e.Name)
	}
	return "", &EntitlementNotFoundError{Product: i.cfg.EntitlementProduct, Available: names}
}

// authenticate exchanges apiKey for a fresh token pair.
func (i *Installer) authenticate(ctx context.Context, apiKey string) (ibmcloud.Auth, error) {
	tokens, err := i.iam.Tokens(ctx, apiKey)
	if err != nil {
		return ibmcloud.Auth{}, err
	}
	account, err := tokens.AccountID()
	if err != nil {
		return ibmcloud.Auth{}, err
	}
	return ibmcloud.Auth{
		Authorization: tokens.Authorization(),
		RefreshToken:  tokens.RefreshToken,
		AccountID:     account,
	}, nil
}

// schematicsAuth returns a cached bearer for Schematics reads.
func (i *Installer) schematicsAuth(ctx context.Context, apiKey string) (ibmcloud.Auth, error) {
	token, err := i.iam.OAuthToken(ctx, apiKey)
	if err != nil {
		return ibmcloud.Auth{}, err
	}
	return ibmcloud.Auth{Authorization: token}, nil
}
