package aggregate

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rossonews/rossonews/pkg/domain"
)

// FetchResult carries one source's normalized articles and its fetch status
type FetchResult struct {
	Source   domain.Source
	Articles []domain.Article
	Err      error
}

// Aggregator merges per-source article lists into the final result:
// dedup by normalized URL, sort by recency with undated articles last,
// cap the total count.
type Aggregator struct {
	maxArticles int
	now         func() time.Time
}

// New creates an aggregator capping output at maxArticles (0 means no cap)
func New(maxArticles int) *Aggregator {
	return &Aggregator{maxArticles: maxArticles, now: time.Now}
}

// NewWithClock creates an aggregator with an injected clock, used in tests
func NewWithClock(maxArticles int, now func() time.Time) *Aggregator {
	return &Aggregator{maxArticles: maxArticles, now: now}
}

// Aggregate merges the per-source results. Results must be passed in source
// priority order; on a duplicate with equal (or both unknown) dates the
// earlier entry wins.
func (a *Aggregator) Aggregate(results []FetchResult) domain.AggregationResult {
	merged := make([]domain.Article, 0)
	index := map[string]int{} // dedup key -> position in merged

	for _, res := range results {
		for _, article := range res.Articles {
			key := DedupKey(article.URL)
			pos, dup := index[key]
			if !dup {
				index[key] = len(merged)
				merged = append(merged, article)
				continue
			}
			if newer(article, merged[pos]) {
				merged[pos] = article
			}
		}
	}

	// newest first, undated articles keep their merge order at the end
	sort.SliceStable(merged, func(i, j int) bool {
		switch {
		case merged[i].Date == nil:
			return false
		case merged[j].Date == nil:
			return true
		default:
			return merged[i].Date.After(*merged[j].Date)
		}
	})

	if a.maxArticles > 0 && len(merged) > a.maxArticles {
		merged = merged[:a.maxArticles]
	}

	counts := map[domain.Source]int{}
	for _, article := range merged {
		counts[article.Source]++
	}
	stats := make(map[domain.Source]domain.SourceStat, len(results))
	for _, res := range results {
		stats[res.Source] = domain.SourceStat{Count: counts[res.Source], Error: res.Err != nil}
	}

	return domain.AggregationResult{LastUpdated: a.now().UTC(), Articles: merged, Sources: stats}
}

// newer reports whether candidate should replace current: only a more recent
// non-null date wins
func newer(candidate, current domain.Article) bool {
	if candidate.Date == nil {
		return false
	}
	if current.Date == nil {
		return true
	}
	return candidate.Date.After(*current.Date)
}

// DedupKey normalizes a URL for duplicate detection across sources: scheme
// and host case-folded, query and fragment stripped, trailing slash removed
func DedupKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	path := strings.TrimSuffix(u.EscapedPath(), "/")
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + path
}
