package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rossonews/rossonews/pkg/domain"
)

func TestWriter_Write(t *testing.T) {
	t.Run("writes document with expected shape", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "news.json")
		w := NewWriter(path)

		published := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
		err := w.Write(domain.AggregationResult{
			LastUpdated: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
			Articles: []domain.Article{
				{Source: domain.SourceMilanNews, Title: "Milan wins", URL: "https://x.com/a", Date: &published},
				{Source: domain.SourceACMilan, Title: "Training report", URL: "https://x.com/b"},
			},
			Sources: map[domain.Source]domain.SourceStat{
				domain.SourceMilanNews: {Count: 1},
				domain.SourceACMilan:   {Count: 1, Error: false},
			},
		})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, "2024-06-01T12:00:00Z", doc["lastUpdated"])

		articles := doc["articles"].([]any)
		require.Len(t, articles, 2)
		first := articles[0].(map[string]any)
		assert.Equal(t, "milannews.it", first["source"])
		assert.Equal(t, "2024-01-01T10:00:00Z", first["date"])
		second := articles[1].(map[string]any)
		assert.Nil(t, second["date"], "unknown date serializes as null")
	})

	t.Run("nil articles become empty array", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "news.json")
		require.NoError(t, NewWriter(path).Write(domain.AggregationResult{LastUpdated: time.Now()}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"articles": []`)
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "deep", "nested", "news.json")
		require.NoError(t, NewWriter(path).Write(domain.AggregationResult{LastUpdated: time.Now()}))
		_, err := os.Stat(path)
		require.NoError(t, err)
	})

	t.Run("replaces previous document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "news.json")
		w := NewWriter(path)

		require.NoError(t, w.Write(domain.AggregationResult{
			Articles: []domain.Article{{Source: domain.SourceMilanNews, Title: "old", URL: "https://x.com/old"}},
		}))
		require.NoError(t, w.Write(domain.AggregationResult{
			Articles: []domain.Article{{Source: domain.SourceMilanNews, Title: "new", URL: "https://x.com/new"}},
		}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "new")
		assert.NotContains(t, string(data), "old")
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "news.json")
		require.NoError(t, NewWriter(path).Write(domain.AggregationResult{}))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "news.json", entries[0].Name())
	})

	t.Run("unwritable target fails", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission checks do not apply to root")
		}
		dir := t.TempDir()
		require.NoError(t, os.Chmod(dir, 0o500))
		t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

		err := NewWriter(filepath.Join(dir, "news.json")).Write(domain.AggregationResult{})
		require.Error(t, err)
	})
}
