package normalize

import (
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/rossonews/rossonews/pkg/domain"
	"github.com/rossonews/rossonews/pkg/source"
)

// maxSummaryLen caps summaries in the output document
const maxSummaryLen = 280

// Normalizer validates and cleans raw records into canonical articles.
// Records with an empty title or a broken URL are rejected; an unparseable
// date is kept as nil, never a rejection.
type Normalizer struct {
	policy *bluemonday.Policy
	now    func() time.Time
}

// New creates a normalizer using the wall clock as the reference for
// relative dates
func New() *Normalizer {
	return &Normalizer{policy: bluemonday.StrictPolicy(), now: time.Now}
}

// NewWithClock creates a normalizer with an injected clock, used in tests
func NewWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{policy: bluemonday.StrictPolicy(), now: now}
}

// Normalize converts a raw record from the given source into an article.
// The boolean result is false when the record fails validation.
func (n *Normalizer) Normalize(rec source.RawRecord, src domain.Source, base string) (domain.Article, bool) {
	title := strings.Join(strings.Fields(rec.Title), " ")
	if title == "" {
		return domain.Article{}, false
	}

	link, ok := resolveLink(rec.Link, base)
	if !ok {
		return domain.Article{}, false
	}

	article := domain.Article{
		Source:  src,
		Title:   title,
		URL:     link,
		Summary: n.cleanSummary(rec.Summary),
	}

	if rec.Date != nil {
		d := rec.Date.UTC()
		article.Date = &d
	} else {
		article.Date = n.parseDate(rec.DateText, src)
	}

	return article, true
}

// resolveLink resolves a possibly relative link against the source base URL
// and validates the result is an absolute http(s) URL
func resolveLink(raw, base string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	resolved := ref
	if !ref.IsAbs() {
		baseURL, err := url.Parse(base)
		if err != nil || !baseURL.IsAbs() {
			return "", false
		}
		resolved = baseURL.ResolveReference(ref)
	}

	if (resolved.Scheme != "http" && resolved.Scheme != "https") || resolved.Host == "" {
		return "", false
	}
	return resolved.String(), true
}

// cleanSummary strips markup, collapses whitespace and truncates to the
// output limit
func (n *Normalizer) cleanSummary(text string) string {
	text = html.UnescapeString(n.policy.Sanitize(text))
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= maxSummaryLen {
		return text
	}
	return strings.TrimSpace(string(runes[:maxSummaryLen-1])) + "…"
}
