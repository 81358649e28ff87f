package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"traffic/pulse/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	cfg := config.Config{
		AppName:  "traffic-pulse-api",
		Env:      "test",
		LogLevel: "disabled",
		HTTP:     config.HTTPConfig{Address: ":0"},
		Auth:     config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour},
		Upload:   config.UploadConfig{Dir: t.TempDir(), MaxSizeMB: 10},
		Analysis: config.AnalysisConfig{Policy: "strict", Seed: 1},
		Gen: config.GeneratorConfig{
			MinInterval:     time.Second,
			MaxInterval:     time.Second,
			FireProbability: 1,
			Seed:            1,
		},
		Map: config.MapConfig{Provider: "kakao", APIKey: "test-map-key"},
	}

	srv, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	return srv, srv.routes()
}

// login exercises the real login handler and returns a bearer token.
func login(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()

	body, err := json.Marshal(LoginRequest{Username: username, Password: password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// multipartUpload builds an /api/analyze request body.
func multipartUpload(t *testing.T, filename, location string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if filename != "" {
		part, err := writer.CreateFormFile("video", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake video bytes"))
		require.NoError(t, err)
	}
	if location != "" {
		require.NoError(t, writer.WriteField("location", location))
	}
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}
