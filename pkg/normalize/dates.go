package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/rossonews/rossonews/pkg/domain"
)

// feedLayouts are the RFC-822 family used by RSS pubDate fields
var feedLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
}

// scrapeLayouts are the display formats seen on the scraped sites
var scrapeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04",
	"02/01/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// relative phrases like "2 hours ago" appear only on the scraped sites
var relativeRe = regexp.MustCompile(`(?i)^(\d+)\s+(minute|min|hour|day|week)s?\s+ago$`)

// parseDate converts a source date string to UTC, nil when unparseable.
// The reference time for relative phrases is the run's clock.
func (n *Normalizer) parseDate(text string, src domain.Source) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	layouts := scrapeLayouts
	if src == domain.SourceMilanNews {
		layouts = feedLayouts
	} else if d := n.parseRelative(text); d != nil {
		return d
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			u := t.UTC()
			return &u
		}
	}

	// last resort, handles whatever odd format a site switches to
	if t, err := dateparse.ParseAny(text); err == nil {
		u := t.UTC()
		return &u
	}
	return nil
}

func (n *Normalizer) parseRelative(text string) *time.Time {
	if strings.EqualFold(text, "just now") || strings.EqualFold(text, "moments ago") {
		u := n.now().UTC()
		return &u
	}
	if strings.EqualFold(text, "yesterday") {
		u := n.now().UTC().AddDate(0, 0, -1)
		return &u
	}

	m := relativeRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	count, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}

	var delta time.Duration
	switch strings.ToLower(m[2]) {
	case "minute", "min":
		delta = time.Duration(count) * time.Minute
	case "hour":
		delta = time.Duration(count) * time.Hour
	case "day":
		delta = time.Duration(count) * 24 * time.Hour
	case "week":
		delta = time.Duration(count) * 7 * 24 * time.Hour
	}

	u := n.now().UTC().Add(-delta)
	return &u
}
