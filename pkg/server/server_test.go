package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/unidep/pkg/cache"
	"github.com/matzehuels/unidep/pkg/errors"
	"github.com/matzehuels/unidep/pkg/pipeline"
	"github.com/matzehuels/unidep/pkg/platform"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	logger := log.New(io.Discard)
	srv := httptest.NewServer(New(pipeline.NewRunner(c, nil, logger), logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := http.Post(srv.URL+path, "application/json", &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

const document = `channels: [conda-forge]
dependencies:
  - numpy >=1.20
  - pip: click
`

func TestResolve(t *testing.T) {
	srv := newTestServer(t)
	req := ResolveRequest{Document: document, Platforms: []string{"linux-64"}}

	resp := post(t, srv, "/v1/resolve", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, err := uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err)

	body := decode[ResolveResponse](t, resp)
	assert.Equal(t, []string{"click", "numpy >=1.20"}, body.Pip)
	assert.Equal(t, []string{"numpy >=1.20"}, body.Environment.CondaStrings())
	assert.Contains(t, body.EnvironmentYAML, "- conda-forge")
	assert.Contains(t, body.EnvironmentYAML, "- linux-64")
	assert.Empty(t, body.Warnings)
	assert.False(t, body.CacheHit)

	again := decode[ResolveResponse](t, post(t, srv, "/v1/resolve", req))
	assert.True(t, again.CacheHit)
	assert.Equal(t, body.Pip, again.Pip)
}

func TestResolveWarnings(t *testing.T) {
	srv := newTestServer(t)
	doc := "dependencies:\n  - conda: foo >1\n    pip: foo >2\n"
	resp := post(t, srv, "/v1/resolve", ResolveRequest{Document: doc})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[ResolveResponse](t, resp)
	require.NotEmpty(t, body.Warnings)
	assert.Equal(t, "PIN_CONFLICT", string(body.Warnings[0].Kind))
	assert.Contains(t, body.Warnings[0].Message, "version pinning conflict")
}

func TestPip(t *testing.T) {
	srv := newTestServer(t)
	doc := "[tool.unidep]\ndependencies = [\"numpy:linux64\", \"click\"]\n"
	resp := post(t, srv, "/v1/pip", ResolveRequest{Document: doc, Format: "toml"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[PipResponse](t, resp)
	require.Len(t, body.Pip, 2)
	assert.Equal(t, "click", body.Pip[0])
	assert.True(t, strings.HasPrefix(body.Pip[1], "numpy; "), body.Pip[1])
}

func TestResolveErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name string
		body any
		code string
	}{
		{"unknown selector", ResolveRequest{Document: "dependencies:\n  - numpy  # [foobar]\n"}, "UNKNOWN_SELECTOR"},
		{"empty document", ResolveRequest{}, "INVALID_INPUT"},
		{"bad format", ResolveRequest{Document: document, Format: "ini"}, "INVALID_INPUT"},
		{"bad platform", ResolveRequest{Document: document, Platforms: []string{"linux-32"}}, "INVALID_PLATFORM"},
		{"bad selector style", ResolveRequest{Document: document, Selector: "inline"}, "INVALID_INPUT"},
		{"includes", ResolveRequest{Document: "includes: [../lib]\n"}, "INVALID_INPUT"},
		{"unknown field", map[string]string{"manifest": document}, "INVALID_INPUT"},
		{"bad manifest", ResolveRequest{Document: "dependencies: numpy\n"}, "INVALID_MANIFEST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv, "/v1/resolve", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decode[errorResponse](t, resp)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
			assert.Equal(t, resp.Header.Get(RequestIDHeader), body.RequestID)
		})
	}
}

func TestEmptyBody(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/v1/pip", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlatforms(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/platforms")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[[]PlatformInfo](t, resp)
	require.Len(t, body, len(platform.Default().All()))
	assert.Equal(t, platform.Linux64, body[0].Platform)
	assert.Equal(t, platform.Class("linux"), body[0].Class)
	assert.NotEmpty(t, body[0].Selectors)
	assert.NotEmpty(t, body[0].Marker)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])
}

func TestRequestIDEcho(t *testing.T) {
	srv := newTestServer(t)
	id := uuid.NewString()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.NotEqual(t, "not-a-uuid", resp2.Header.Get(RequestIDHeader))
}

func TestNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v2/resolve")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[errorResponse](t, resp).Error.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeUnknownSelector, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidManifest, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeFileNotFound, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupportedPlatform, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}
