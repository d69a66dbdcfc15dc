package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossonews/rossonews/pkg/config"
)

func TestNoop_Translate(t *testing.T) {
	assert.Equal(t, "Vittoria nel derby", Noop{}.Translate(context.Background(), "Vittoria nel derby"))
	assert.Equal(t, "", Noop{}.Translate(context.Background(), ""))
}

func TestOpenAI_Translate(t *testing.T) {
	newServer := func(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *OpenAI) {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		translator := NewOpenAI(config.TranslatorConfig{
			Endpoint: srv.URL + "/v1",
			APIKey:   "test-key",
			Model:    "gpt-4o-mini",
			Timeout:  5 * time.Second,
		})
		return srv, translator
	}

	t.Run("translates via chat completion", func(t *testing.T) {
		var gotModel, gotUser string
		_, translator := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Model    string `json:"model"`
				Messages []struct {
					Role    string `json:"role"`
					Content string `json:"content"`
				} `json:"messages"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			gotModel = req.Model
			require.Len(t, req.Messages, 2)
			gotUser = req.Messages[1].Content

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Victory in the derby"}}]}`))
		})

		got := translator.Translate(context.Background(), "Vittoria nel derby")
		assert.Equal(t, "Victory in the derby", got)
		assert.Equal(t, "gpt-4o-mini", gotModel)
		assert.Equal(t, "Vittoria nel derby", gotUser)
	})

	t.Run("api error keeps the original text", func(t *testing.T) {
		_, translator := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		assert.Equal(t, "Vittoria nel derby", translator.Translate(context.Background(), "Vittoria nel derby"))
	})

	t.Run("empty completion keeps the original text", func(t *testing.T) {
		_, translator := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  "}}]}`))
		})
		assert.Equal(t, "Mercato", translator.Translate(context.Background(), "Mercato"))
	})

	t.Run("short text skips the api", func(t *testing.T) {
		var called bool
		_, translator := newServer(t, func(http.ResponseWriter, *http.Request) { called = true })

		assert.Equal(t, "ok", translator.Translate(context.Background(), "ok"))
		assert.Equal(t, " ", translator.Translate(context.Background(), " "))
		assert.False(t, called)
	})
}
