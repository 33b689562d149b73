package app

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioapi/internal/config"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		Port:        "0",
		BodyLimitMB: 4,
		Staging:     config.StagingConfig{Backend: "local", Dir: t.TempDir(), MaxAgeSec: 3600},
		Session:     config.SessionConfig{CookieName: "portfolio_session"},
		Assistant:   config.AssistantConfig{Provider: "openai"},
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Staging.Backend = "floppy"

	_, err := New(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown staging backend")
}

func TestNewWithoutCredentialDisablesAssistant(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.False(t, a.Assistant.Available())
	assert.Contains(t, a.Assistant.Reason(), "OPENAI_API_KEY")
	assert.NoError(t, a.Health(context.Background()))
}

func TestUploadThenCompose(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	app, err := a.HTTP()
	require.NoError(t, err)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for name, data := range map[string][]byte{
		"Café Photo.png": pngBytes(t, 40, 20),
		"notes.txt":      []byte("not an image"),
	} {
		part, err := mw.CreateFormFile("file", name)
		require.NoError(t, err)
		_, _ = part.Write(data)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/uploads", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var uploaded struct {
		SessionID string `json:"session_id"`
		Images    []struct {
			Name string `json:"name"`
		} `json:"images"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&uploaded))
	require.Len(t, uploaded.Images, 1)
	assert.Equal(t, "Cafe_Photo.png", uploaded.Images[0].Name)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	staged, err := filepath.Glob(filepath.Join(cfg.Staging.Dir, uploaded.SessionID+"_*"))
	require.NoError(t, err)
	assert.Len(t, staged, 1)

	compose := func() *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/portfolio",
			strings.NewReader(`{"selections":[{"name":"Cafe_Photo.png","title":"Red"},{"name":"missing.png"}]}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Session-ID", uploaded.SessionID)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp = compose()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pdfBytes, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF-")))
	assert.Equal(t, "1", resp.Header.Get("X-Portfolio-Pages"))
	assert.Equal(t, "1", resp.Header.Get("X-Portfolio-Skipped"))

	entries, err := os.ReadDir(cfg.Staging.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	resp = compose()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsExposed(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	app, err := a.HTTP()
	require.NoError(t, err)

	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "http_requests_total")
	assert.Contains(t, string(b), "go_goroutines")
}
