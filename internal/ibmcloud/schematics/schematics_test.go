package schematics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibm/data-gate-cli/internal/ibmcloud"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/v1/workspaces/ws-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"ws-1","status":"INPROGRESS","runtime_data":[{"log_store_url":"` + srv.URL + `/logs/ws-1"}]}`))
	})
	mux.HandleFunc("/v1/workspaces/ws-1/output_values", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"output_values":[{"resource_cloud":{"value":{"resource_controller_url":"https://cp4d.example"}}}]}]`))
	})
	mux.HandleFunc("/logs/ws-1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("terraform apply\nerror: quota"))
	})
	mux.HandleFunc("/v1/workspaces/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestWorkspaceAndLog(t *testing.T) {
	srv := newServer(t)
	c := NewClient(srv.URL)
	auth := ibmcloud.Auth{Authorization: "Bearer t"}

	ws, err := c.Workspace(context.Background(), auth, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, "INPROGRESS", ws.Status)

	logURL, err := ws.LogStoreURL()
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/logs/ws-1", logURL)

	log, err := c.Log(context.Background(), auth, logURL)
	require.NoError(t, err)
	assert.Equal(t, "terraform apply\nerror: quota", log)
}

func TestOutputValues(t *testing.T) {
	srv := newServer(t)

	out, err := NewClient(srv.URL).OutputValues(context.Background(), ibmcloud.Auth{Authorization: "Bearer t"}, "ws-1")

	require.NoError(t, err)
	list, ok := out.([]any)
	require.True(t, ok)
	assert.Len(t, list, 1)
}

func TestWorkspace_NotFound(t *testing.T) {
	srv := newServer(t)

	_, err := NewClient(srv.URL).Workspace(context.Background(), ibmcloud.Auth{Authorization: "Bearer t"}, "missing")

	var apiErr *ibmcloud.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "not found", apiErr.Body)
}

func TestLogStoreURL_Missing(t *testing.T) {
	t.Parallel()
	ws := &Workspace{ID: "ws-2"}
	_, err := ws.LogStoreURL()
	assert.EqualError(t, err, "workspace ws-2 has no log store URL")
}
