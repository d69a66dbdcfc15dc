package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	t.Run("returns body on success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.NotEmpty(t, r.Header.Get("User-Agent"))
			assert.NotEmpty(t, r.Header.Get("Accept"))
			w.Write([]byte("hello"))
		}))
		defer srv.Close()

		client := NewClient(5*time.Second, "test-agent", 1)
		body, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))
	})

	t.Run("retries transient failure", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte("recovered"))
		}))
		defer srv.Close()

		client := NewClient(5*time.Second, "test-agent", 2)
		body, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "recovered", string(body))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("persistent failure returns error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		client := NewClient(5*time.Second, "test-agent", 2)
		_, err := client.Get(context.Background(), srv.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
	})

	t.Run("timeout treated as error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := NewClient(20*time.Millisecond, "test-agent", 1)
		_, err := client.Get(context.Background(), srv.URL)
		require.Error(t, err)
	})

	t.Run("canceled context stops retries", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewClient(5*time.Second, "test-agent", 5)
		_, err := client.Get(ctx, srv.URL)
		require.Error(t, err)
	})
}
