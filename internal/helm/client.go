package helm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-logr/logr"
	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/cli"
	"helm.sh/helm/v3/pkg/getter"
	"helm.sh/helm/v3/pkg/repo"
	"helm.sh/helm/v3/pkg/storage/driver"

	"github.com/ibm/data-gate-cli/internal/logging"
)

const defaultTimeout = 10 * time.Minute

// Chart references a chart in a classic HTTP repository.
type Chart struct {
	RepoURL string
	Name    string
	// Version is a semver constraint; empty picks the latest.
	Version string
}

func (c Chart) String() string {
	if c.Version == "" {
		return c.RepoURL + "/" + c.Name
	}
	return c.RepoURL + "/" + c.Name + "@" + c.Version
}

// Values are chart values.
type Values map[string]any

// Client installs releases into one namespace.
type Client struct {
	namespace    string
	actionConfig *action.Configuration
	log          logr.Logger
}

// NewClient creates a client for the cluster described by kubeconfig.
func NewClient(ctx context.Context, kubeconfig []byte, namespace string) (*Client, error) {
	log := logging.FromContext(ctx).WithName("helm")
	actionConfig := new(action.Configuration)
	debug := func(format string, v ...any) {
		log.V(1).Info(fmt.Sprintf(format, v...))
	}
	if err := actionConfig.Init(newKubeconfigGetter(kubeconfig, namespace), namespace, "secret", debug); err != nil {
		return nil, fmt.Errorf("failed to initialize helm action config: %w", err)
	}
	return &Client{namespace: namespace, actionConfig: actionConfig, log: log}, nil
}

// InstallOrUpgrade installs ch as releaseName, or upgrades an existing
// release of that name, and waits for its resources to become ready.
func (c *Client) InstallOrUpgrade(ctx context.Context, releaseName string, ch Chart, values Values) error {
	loaded, err := loadChart(ch)
	if err != nil {
		return err
	}

	exists, err := c.releaseExists(releaseName)
	if err != nil {
		return err
	}

	if exists {
		c.log.Info("upgrading release", "release", releaseName, "chart", ch.String(), "namespace", c.namespace)
		upgrade := action.NewUpgrade(c.actionConfig)
		upgrade.Namespace = c.namespace
		upgrade.Version = ch.Version
		upgrade.Wait = true
		upgrade.Timeout = defaultTimeout
		if _, err := upgrade.RunWithContext(ctx, releaseName, loaded, values); err != nil {
			return fmt.Errorf("failed to upgrade release %s: %w", releaseName, err)
		}
		return nil
	}

	c.log.Info("installing release", "release", releaseName, "chart", ch.String(), "namespace", c.namespace)
	install := action.NewInstall(c.actionConfig)
	install.ReleaseName = releaseName
	install.Namespace = c.namespace
	install.CreateNamespace = true
	install.Version = ch.Version
	install.Wait = true
	install.Timeout = defaultTimeout
	if _, err := install.RunWithContext(ctx, loaded, values); err != nil {
		return fmt.Errorf("failed to install release %s: %w", releaseName, err)
	}
	return nil
}

func (c *Client) releaseExists(releaseName string) (bool, error) {
	history := action.NewHistory(c.actionConfig)
	history.Max = 1
	_, err := history.Run(releaseName)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, driver.ErrReleaseNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("failed to read history of release %s: %w", releaseName, err)
	}
}

func loadChart(ch Chart) (*chart.Chart, error) {
	settings := cli.New()

	chartPath, err := repo.FindChartInRepoURL(ch.RepoURL, ch.Name, ch.Version, "", "", "", getter.All(settings))
	if err != nil {
		return nil, fmt.Errorf("failed to find chart %s: %w", ch, err)
	}
	defer func() {
		_ = os.Remove(chartPath)
	}()

	loaded, err := loader.Load(chartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart %s: %w", ch, err)
	}
	return loaded, nil
}
