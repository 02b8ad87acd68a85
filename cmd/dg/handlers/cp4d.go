package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/ibm/data-gate-cli/internal/config"
	"github.com/ibm/data-gate-cli/internal/installer"
	"github.com/ibm/data-gate-cli/internal/logging"
	"github.com/ibm/data-gate-cli/internal/platform/s3"
	"github.com/ibm/data-gate-cli/internal/poll"
)

// CP4DInstaller runs and tracks installations - matches *installer.Installer.
type CP4DInstaller interface {
	Install(ctx context.Context, clusterID, apiKey string) (*installer.Result, error)
	Resume(ctx context.Context, workspaceID, apiKey string) (*installer.Result, error)
	WorkspaceStatus(ctx context.Context, workspaceID, apiKey string) (string, error)
}

// Factory function variables for cp4d - can be replaced in tests.
var (
	newCP4DInstaller = func(ctx context.Context, cfg installer.Config, metrics *installer.Metrics) (CP4DInstaller, error) {
		opts := []installer.Option{
			installer.WithMetrics(metrics),
			installer.WithStatusWriter(stdout),
		}
		if cfg.LogArchive.Enabled() {
			archive, err := newLogArchive(ctx, cfg.LogArchive)
			if err != nil {
				logging.FromContext(ctx).Error(err, "installation logs will not be archived", "bucket", cfg.LogArchive.Bucket)
			} else {
				opts = append(opts, installer.WithLogArchiver(archive))
			}
		}
		return installer.New(cfg, opts...), nil
	}

	newLogArchive = func(ctx context.Context, cfg s3.Config) (installer.LogArchiver, error) {
		archive, err := s3.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create log archive client: %w", err)
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return archive, nil
	}
)

// InstallCP4D installs the data platform onto an IBM Cloud cluster and
// waits for it to finish.
func InstallCP4D(ctx context.Context, clusterName, metricsFile string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	apiKey, _ := cfg.Credential(config.IBMCloudAPIKey)

	metrics := installer.NewMetrics()
	defer writeMetrics(ctx, metrics, metricsFile)

	inst, err := newCP4DInstaller(ctx, cfg.Install, metrics)
	if err != nil {
		return err
	}
	result, err := inst.Install(ctx, clusterName, apiKey)
	if err != nil {
		return installFailure(err)
	}
	printResult(result)
	return nil
}

// CP4DStatus prints the status of an installation workspace. With wait, it
// blocks until the installation finishes and prints the platform URL.
func CP4DStatus(ctx context.Context, workspaceID string, wait bool, metricsFile string) error {
	if workspaceID == "" {
		return fmt.Errorf("workspace ID is required")
	}
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	apiKey, _ := cfg.Credential(config.IBMCloudAPIKey)

	metrics := installer.NewMetrics()
	defer writeMetrics(ctx, metrics, metricsFile)

	inst, err := newCP4DInstaller(ctx, cfg.Install, metrics)
	if err != nil {
		return err
	}

	if !wait {
		status, err := inst.WorkspaceStatus(ctx, workspaceID, apiKey)
		if err != nil {
			return err
		}
		printField("Workspace", workspaceID)
		printField("Status", status)
		return nil
	}

	result, err := inst.Resume(ctx, workspaceID, apiKey)
	if err != nil {
		return installFailure(err)
	}
	printResult(result)
	return nil
}

// installFailure prints the installation log carried by a timeout before
// returning err.
func installFailure(err error) error {
	var timeout *poll.TimeoutError
	if errors.As(err, &timeout) && timeout.Log != "" {
		fmt.Fprintln(stderr, titleStyle.Render("Installation log:"))
		fmt.Fprintln(stderr, timeout.Log)
	}
	return err
}

func printResult(result *installer.Result) {
	printSuccess("Installation finished")
	if result.Session.ClusterID != "" {
		printField("Cluster", result.Session.ClusterID)
	}
	printField("Workspace", result.Session.WorkspaceID)
	printField("URL", result.URL)
}

func writeMetrics(ctx context.Context, metrics *installer.Metrics, path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteFile(path); err != nil {
		logging.FromContext(ctx).Error(err, "failed to write metrics", "path", path)
	}
}
