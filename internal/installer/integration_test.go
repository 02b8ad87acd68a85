//go:build integration

// Integration tests running complete installations against an HTTP fake of
// the IBM Cloud services.
//
// Run these tests with:
//
//	go test -v -tags=integration ./internal/installer/...
package installer_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/ibm/data-gate-cli/internal/ibmcloud"
	"github.com/ibm/data-gate-cli/internal/installer"
	"github.com/ibm/data-gate-cli/internal/poll"
)

func TestInstallerIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Installer Integration Suite")
}

// fakeCloud serves the IAM, catalog, billing and Schematics endpoints.
type fakeCloud struct {
	mu sync.Mutex

	// polls before the workspace turns ACTIVE; negative means never
	activeAfter int
	polls       int

	installBody map[string]any
	installAuth http.Header
}

func (f *fakeCloud) handler() http.Handler {
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"account": map[string]any{"bss": "account-1"},
	}).SignedString([]byte("integration"))
	Expect(err).NotTo(HaveOccurred())

	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /identity/token", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"token_type":    "Bearer",
			"access_token":  access,
			"refresh_token": "refresh-1",
			"expires_in":    3600,
			"expiration":    time.Now().Add(time.Hour).Unix(),
		})
	})
	mux.HandleFunc("GET /api/v1-beta/search", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"resources": []any{map[string]any{
			"label":      "Cloud Pak for Data",
			"catalog_id": "catalog-1",
			"kinds": []any{map[string]any{"versions": []any{
				map[string]any{"version": "3.5.0", "id": "v350"},
				map[string]any{"version": "4.0.0", "id": "v400"},
			}}},
		}}})
	})
	mux.HandleFunc("POST /api/v1-beta/versions/{locator}/preinstall", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("POST /api/v1-beta/versions/{locator}/install", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.installAuth = r.Header.Clone()
		_ = json.NewDecoder(r.Body).Decode(&f.installBody)
		writeJSON(w, map[string]any{"workspace_id": "ws-1"})
	})
	mux.HandleFunc("GET /v1/licensing/entitlements", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{"resources": []any{
			map[string]any{"name": "IBM Cloud Pak for Data Enterprise Edition", "apikey": "entitlement-1"},
		}})
	})
	mux.HandleFunc("GET /v1/workspaces/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.polls++
		status := "INPROGRESS"
		if f.activeAfter >= 0 && f.polls > f.activeAfter {
			status = "ACTIVE"
		}
		writeJSON(w, map[string]any{
			"id":           r.PathValue("id"),
			"status":       status,
			"runtime_data": []any{map[string]any{"log_store_url": "http://" + r.Host + "/logs/" + r.PathValue("id")}},
		})
	})
	mux.HandleFunc("GET /v1/workspaces/{id}/output_values", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []any{map[string]any{"output_values": []any{map[string]any{
			"resource_cloud": map[string]any{"value": map[string]any{
				"resource_controller_url": "https://cp4d.example.com/zen",
			}},
		}}}})
	})
	mux.HandleFunc("GET /logs/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("terraform apply: still waiting for zen-metastore"))
	})
	return mux
}

var _ = Describe("Installer", func() {
	var (
		cloud   *fakeCloud
		server  *httptest.Server
		clk     *testingclock.FakeClock
		metrics *installer.Metrics
		inst    *installer.Installer
	)

	BeforeEach(func() {
		cloud = &fakeCloud{activeAfter: 3}
		server = httptest.NewServer(cloud.handler())
		DeferCleanup(server.Close)

		clk = testingclock.NewFakeClock(time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC))
		metrics = installer.NewMetrics()

		cfg := installer.DefaultConfig()
		cfg.Endpoints = ibmcloud.Endpoints{
			IAM:        server.URL,
			Catalog:    server.URL,
			Billing:    server.URL,
			Schematics: server.URL,
			Containers: server.URL,
		}
		inst = installer.New(cfg, installer.WithClock(clk), installer.WithMetrics(metrics))
	})

	It("installs and returns the platform URL", func(ctx SpecContext) {
		result, err := inst.Install(ctx, "dg-dev", "api-key")

		Expect(err).NotTo(HaveOccurred())
		Expect(result.URL).To(Equal("https://cp4d.example.com/zen"))
		Expect(result.Session.VersionLocator).To(Equal("catalog-1.v400"))
		Expect(result.Session.WorkspaceID).To(Equal("ws-1"))

		Expect(cloud.installBody).To(HaveKeyWithValue("entitlement_apikey", "entitlement-1"))
		Expect(cloud.installBody).To(HaveKeyWithValue("namespace", "zen"))
		Expect(cloud.installBody).To(HaveKeyWithValue("override_values", map[string]any{
			"db2wh": "true", "datagate": "true", "storage": "ibmc-file-gold-gid",
		}))
		Expect(cloud.installAuth.Get("X-Auth-Resource-Account")).To(Equal("account-1"))
		Expect(cloud.installAuth.Get("X-Auth-Refresh-Token")).To(Equal("refresh-1"))
		Expect(cloud.installAuth.Get("X-Auth-Resource-Group")).To(Equal("Default"))

		runs, err := testutil.GatherAndCount(metrics.Registry(), "dg_install_runs_total")
		Expect(err).NotTo(HaveOccurred())
		Expect(runs).To(Equal(1))
	}, SpecTimeout(10*time.Second))

	It("attaches the workspace log when the installation times out", func(ctx SpecContext) {
		cloud.activeAfter = -1

		_, err := inst.Install(ctx, "dg-dev", "api-key")

		Expect(err).To(HaveOccurred())
		Expect(poll.IsTimeout(err)).To(BeTrue())
		stage, ok := installer.FailedStage(err)
		Expect(ok).To(BeTrue())
		Expect(stage).To(Equal("waiting-install"))

		var timeout *poll.TimeoutError
		Expect(errors.As(err, &timeout)).To(BeTrue())
		Expect(timeout.Log).To(ContainSubstring("zen-metastore"))
		Expect(timeout.LogErr).NotTo(HaveOccurred())
	}, SpecTimeout(10*time.Second))

	It("resumes an installation by workspace", func(ctx SpecContext) {
		result, err := inst.Resume(ctx, "ws-1", "api-key")

		Expect(err).NotTo(HaveOccurred())
		Expect(result.URL).To(Equal("https://cp4d.example.com/zen"))
		Expect(cloud.installBody).To(BeNil())
	}, SpecTimeout(10*time.Second))

	It("reports the workspace status", func(ctx SpecContext) {
		status, err := inst.WorkspaceStatus(ctx, "ws-1", "api-key")

		Expect(err).NotTo(HaveOccurred())
		Expect(status).To(Equal("INPROGRESS"))
	})
})

