package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/graph"
	"github.com/matzehuels/sankeyflow/pkg/observability"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler, err := newServer(testDocument(t, "year"), []byte("<!DOCTYPE html><title>test</title>"))
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestServePage(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Server"), "sankeyflow/")
	assert.Contains(t, string(body), "<title>test</title>")
}

func TestServeDiagram(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/api/diagram")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := graph.UnmarshalDocument(body)
	require.NoError(t, err)
	assert.Equal(t, "test", doc.ID)
	assert.Len(t, doc.Frames, 3)
}

func TestServeFrames(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/api/frames")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var frames []frameSummary
	require.NoError(t, json.Unmarshal(body, &frames))
	require.Len(t, frames, 3)
	assert.Equal(t, frameSummary{Index: 1, Label: "2022", Key: frames[1].Key, Nodes: 4, Edges: 2, TotalFlow: 25}, frames[1])
}

func TestServeFrame(t *testing.T) {
	srv := newTestServer(t)

	resp, body := get(t, srv, "/api/frames/0")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var f flow.Frame
	require.NoError(t, json.Unmarshal(body, &f))
	assert.Equal(t, "2021", f.Label)
	assert.Equal(t, []flow.Edge{{Source: "A", Target: "D", Value: 20, Color: f.Snapshot.Edges[0].Color}}, f.Snapshot.Edges)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/frames/3", http.StatusNotFound},
		{"/api/frames/-1", http.StatusNotFound},
		{"/api/frames/first", http.StatusBadRequest},
		{"/api/nothing", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, body := get(t, srv, tt.path)
		assert.Equal(t, tt.status, resp.StatusCode, tt.path)
		var e map[string]string
		require.NoError(t, json.Unmarshal(body, &e), tt.path)
		assert.NotEmpty(t, e["error"], tt.path)
	}
}

func TestServeHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","version":"dev"}`, string(body))

	resp, _ = get(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type recordingServerHooks struct {
	observability.NoopServerHooks
	mu        sync.Mutex
	responses []int
}

func (h *recordingServerHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses = append(h.responses, status)
}

func TestServeObservability(t *testing.T) {
	hooks := &recordingServerHooks{}
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	srv := newTestServer(t)
	get(t, srv, "/healthz")
	get(t, srv, "/api/frames/9")

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, hooks.responses)
}
