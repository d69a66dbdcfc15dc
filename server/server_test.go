package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_NewsHandler(t *testing.T) {
	t.Run("serves the document as is", func(t *testing.T) {
		dir := t.TempDir()
		newsPath := filepath.Join(dir, "news.json")
		doc := `{"lastUpdated":"2024-01-16T10:00:00Z","articles":[],"sources":{}}`
		require.NoError(t, os.WriteFile(newsPath, []byte(doc), 0o600))

		srv := New(Config{NewsPath: newsPath, Version: "test"})
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/news", http.NoBody))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
		assert.JSONEq(t, doc, rr.Body.String())
	})

	t.Run("missing document returns 404", func(t *testing.T) {
		srv := New(Config{NewsPath: filepath.Join(t.TempDir(), "absent.json"), Version: "test"})
		rr := httptest.NewRecorder()
		srv.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/news", http.NoBody))

		assert.Equal(t, http.StatusNotFound, rr.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "news document not available", resp["error"])
	})
}

func TestServer_StatusHandler(t *testing.T) {
	srv := New(Config{NewsPath: "unused.json", Version: "v1.2.3"})
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "v1.2.3", resp["version"])
}

func TestServer_Static(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>frontend</html>"), 0o600))

	srv := New(Config{NewsPath: "unused.json", StaticDir: dir, Version: "test"})
	rr := httptest.NewRecorder()
	srv.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "frontend")
}

func TestServer_Run(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	dir := t.TempDir()
	newsPath := filepath.Join(dir, "news.json")
	require.NoError(t, os.WriteFile(newsPath, []byte(`{"articles":[]}`), 0o600))

	srv := New(Config{Listen: addr, Timeout: 5 * time.Second, NewsPath: newsPath, Version: "test"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	// wait for the server to come up
	var resp *http.Response
	require.Eventually(t, func() bool {
		var e error
		resp, e = http.Get(fmt.Sprintf("http://%s/ping", addr))
		return e == nil
	}, 2*time.Second, 20*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "pong", string(body))

	resp, err = http.Get(fmt.Sprintf("http://%s/api/v1/news", addr))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "rossonews", resp.Header.Get("App-Name"))
	require.NoError(t, resp.Body.Close())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
