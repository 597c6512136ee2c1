package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minichat/internal/app/chat"
	"minichat/internal/app/store"
	"minichat/internal/configs"
)

func newTestDeps(t *testing.T) *AppDeps {
	t.Helper()

	staticPage := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(staticPage, []byte("<html>chat</html>"), 0o644))

	hub := chat.NewHub(chat.ForwardAll, true)
	t.Cleanup(hub.Shutdown)

	return &AppDeps{
		Hub:   hub,
		Store: store.NewStore(store.MemoryPersister{}),
		Config: &configs.AppConfig{
			Environment:    "development",
			Port:           8080,
			StaticPage:     staticPage,
			AllowedOrigins: []string{},
			StorageBackend: configs.StorageMemory,
			EchoSender:     true,
		},
	}
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body string) (*http.Response, map[string]any) {
	t.Helper()

	res, err := http.Post(ts.URL+path, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })

	return res, decodeBody(t, res)
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()

	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out), "body: %s", data)
	return out
}

func TestRegisterEndpoint(t *testing.T) {
	ts := httptest.NewServer(Router(newTestDeps(t)))
	defer ts.Close()

	res, body := postJSON(t, ts, "/register", `{"username":"Alice","password":"pw"}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, body["success"])

	// Duplicate registration is rejected case-insensitively.
	res, body = postJSON(t, ts, "/register", `{"username":"ALICE","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestRegisterEndpointRejectsMissingFields(t *testing.T) {
	ts := httptest.NewServer(Router(newTestDeps(t)))
	defer ts.Close()

	res, body := postJSON(t, ts, "/register", `{"username":"","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestRegisterEndpointRejectsMalformedJSON(t *testing.T) {
	ts := httptest.NewServer(Router(newTestDeps(t)))
	defer ts.Close()

	res, body := postJSON(t, ts, "/register", `{"username": "alice"`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestLoginEndpoint(t *testing.T) {
	ts := httptest.NewServer(Router(newTestDeps(t)))
	defer ts.Close()

	res, _ := postJSON(t, ts, "/register", `{"username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	// Login is case-insensitive on the username.
	res, body := postJSON(t, ts, "/login", `{"username":"Alice","password":"pw"}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "alice", body["id"])
	assert.Equal(t, "alice", body["name"])
	assert.Equal(t, []any{}, body["friends"])
	assert.NotNil(t, body["avatar"])

	res, body = postJSON(t, ts, "/login", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestLoginEndpointRejectsMalformedJSON(t *testing.T) {
	ts := httptest.NewServer(Router(newTestDeps(t)))
	defer ts.Close()

	res, body := postJSON(t, ts, "/login", `not json`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestUserLookupEndpoint(t *testing.T) {
	ts := httptest.NewServer(Router(newTestDeps(t)))
	defer ts.Close()

	res, _ := postJSON(t, ts, "/register", `{"username":"Alice","password":"pw"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)

	res, err := http.Get(ts.URL + "/user?id=alice")
	require.NoError(t, err)
	defer res.Body.Close()
	body := decodeBody(t, res)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, true, body["exists"])
	assert.Equal(t, "alice", body["id"])
	assert.Equal(t, "Alice", body["name"])

	res, err = http.Get(ts.URL + "/user?id=nobody")
	require.NoError(t, err)
	defer res.Body.Close()
	body = decodeBody(t, res)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, false, body["exists"])

	res, err = http.Get(ts.URL + "/user")
	require.NoError(t, err)
	defer res.Body.Close()
	body = decodeBody(t, res)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestIndexPageEndpoint(t *testing.T) {
	deps := newTestDeps(t)
	ts := httptest.NewServer(Router(deps))
	defer ts.Close()

	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(data), "chat")
}

func TestIndexPageEndpointReadFailure(t *testing.T) {
	deps := newTestDeps(t)
	deps.Config.StaticPage = filepath.Join(t.TempDir(), "missing.html")
	ts := httptest.NewServer(Router(deps))
	defer ts.Close()

	res, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	body := decodeBody(t, res)
	assert.NotEmpty(t, body["error"])
}

func TestUnmatchedRoutesReturnNotFound(t *testing.T) {
	ts := httptest.NewServer(Router(newTestDeps(t)))
	defer ts.Close()

	res, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// Wrong method on a known path is also a generic not-found.
	res, err = http.Get(ts.URL + "/register")
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	ts := httptest.NewServer(Router(newTestDeps(t)))
	defer ts.Close()

	res, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, "ok", body["status"])
}
