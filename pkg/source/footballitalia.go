package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rossonews/rossonews/pkg/domain"
)

// FootballItaliaAdapter scrapes the Milan team listing on football-italia.net.
// The listing is a WordPress archive page with one <article> block per story.
type FootballItaliaAdapter struct {
	client  *Client
	listURL string
	limit   int
}

// NewFootballItaliaAdapter creates the football-italia.net adapter
func NewFootballItaliaAdapter(client *Client, listURL string, limit int) *FootballItaliaAdapter {
	return &FootballItaliaAdapter{client: client, listURL: listURL, limit: limit}
}

// Name returns the source identifier
func (a *FootballItaliaAdapter) Name() domain.Source { return domain.SourceFootballItalia }

// BaseURL returns the base for resolving relative links
func (a *FootballItaliaAdapter) BaseURL() string { return "https://football-italia.net" }

// Fetch retrieves the listing page and extracts article blocks
func (a *FootballItaliaAdapter) Fetch(ctx context.Context) ([]RawRecord, error) {
	body, err := a.client.Get(ctx, a.listURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", a.listURL, err)
	}

	var records []RawRecord
	doc.Find("article").EachWithBreak(func(_ int, art *goquery.Selection) bool {
		if a.limit > 0 && len(records) >= a.limit {
			return false
		}

		link := art.Find("h2 a, h3 a, .entry-title a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return true
		}

		rec := RawRecord{Title: title, Link: href}

		// the <time> element carries a machine-readable datetime attribute,
		// older pages only have the display text
		timeEl := art.Find("time").First()
		if dt, ok := timeEl.Attr("datetime"); ok && dt != "" {
			rec.DateText = dt
		} else {
			rec.DateText = strings.TrimSpace(timeEl.Text())
		}

		// summary block is missing on some archive layouts, empty is fine
		rec.Summary = strings.TrimSpace(art.Find(".entry-summary, .entry-excerpt, p").First().Text())

		records = append(records, rec)
		return true
	})

	return records, nil
}
