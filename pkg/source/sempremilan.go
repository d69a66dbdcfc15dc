package source

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rossonews/rossonews/pkg/domain"
)

// SempreMilanAdapter scrapes the sempremilan.com news listing. Same shape of
// adapter as football-italia but with the site's own selectors and the
// "By: Author" prefix cleanup their excerpts need.
type SempreMilanAdapter struct {
	client  *Client
	listURL string
	limit   int
}

// NewSempreMilanAdapter creates the sempremilan.com adapter
func NewSempreMilanAdapter(client *Client, listURL string, limit int) *SempreMilanAdapter {
	return &SempreMilanAdapter{client: client, listURL: listURL, limit: limit}
}

// Name returns the source identifier
func (a *SempreMilanAdapter) Name() domain.Source { return domain.SourceSempreMilan }

// BaseURL returns the base for resolving relative links
func (a *SempreMilanAdapter) BaseURL() string { return "https://sempremilan.com" }

// Fetch retrieves the listing page and extracts article blocks
func (a *SempreMilanAdapter) Fetch(ctx context.Context) ([]RawRecord, error) {
	body, err := a.client.Get(ctx, a.listURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse listing %s: %w", a.listURL, err)
	}

	var records []RawRecord
	doc.Find("article, div.post-item").EachWithBreak(func(_ int, art *goquery.Selection) bool {
		if a.limit > 0 && len(records) >= a.limit {
			return false
		}

		link := art.Find(".entry-title a, h2 a, h3 a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return true
		}

		rec := RawRecord{Title: title, Link: href}

		timeEl := art.Find("time, .entry-date, .post-date").First()
		if dt, ok := timeEl.Attr("datetime"); ok && dt != "" {
			rec.DateText = dt
		} else {
			rec.DateText = strings.TrimSpace(timeEl.Text())
		}

		rec.Summary = cleanAuthorPrefix(strings.TrimSpace(art.Find(".entry-excerpt, .excerpt, p").First().Text()))

		records = append(records, rec)
		return true
	})

	return records, nil
}

// cleanAuthorPrefix drops the "By: Author" line sempremilan puts in front of
// its excerpts
func cleanAuthorPrefix(text string) string {
	if !strings.HasPrefix(text, "By:") {
		return text
	}
	if _, rest, found := strings.Cut(text, "\n"); found {
		return strings.TrimSpace(rest)
	}
	return text
}
