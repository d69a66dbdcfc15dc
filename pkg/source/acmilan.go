package source

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/rossonews/rossonews/pkg/domain"
)

// minTitleLen filters out navigation labels ("News", "Read more") that the
// loose card selectors pick up on acmilan.com
const minTitleLen = 10

// ACMilanAdapter scrapes the official acmilan.com news page. The club site
// changes its card markup between redesigns, so the adapter works off loose
// structural selectors and per-card heuristics rather than fixed sub-elements.
type ACMilanAdapter struct {
	client  *Client
	listURL string
	limit   int
}

// NewACMilanAdapter creates the acmilan.com adapter
func NewACMilanAdapter(client *Client, listURL string, limit int) *ACMilanAdapter {
	return &ACMilanAdapter{client: client, listURL: listURL, limit: limit}
}

// Name returns the source identifier
func (a *ACMilanAdapter) Name() domain.Source { return domain.SourceACMilan }

// BaseURL returns the base for resolving relative links
func (a *ACMilanAdapter) BaseURL() string { return "https://www.acmilan.com" }

// Fetch retrieves the news page and extracts article cards
func (a *ACMilanAdapter) Fetch(ctx context.Context) ([]RawRecord, error) {
	body, err := a.client.Get(ctx, a.listURL)
	if err != nil {
		return nil, fmt.Errorf("fetch news page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse news page %s: %w", a.listURL, err)
	}

	base, err := url.Parse(a.BaseURL())
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	var records []RawRecord
	seen := map[string]bool{}

	doc.Find("article, .news-card, .card, [class*='article'], [class*='news']").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if a.limit > 0 && len(records) >= a.limit {
			return false
		}

		link := card.Find("a[href]").First()
		href, ok := link.Attr("href")
		if !ok || href == "" || href == "#" {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		articleURL := base.ResolveReference(ref).String()

		// cards outside the news section are promos and ticket links
		if !strings.Contains(articleURL, "/news/") || seen[articleURL] {
			return true
		}

		title := findTitle(card, link)
		if len(title) < minTitleLen {
			return true
		}
		seen[articleURL] = true

		rec := RawRecord{Title: title, Link: articleURL}

		dateEl := card.Find("time, [class*='date'], [class*='time']").First()
		if dt, ok := dateEl.Attr("datetime"); ok && dt != "" {
			rec.DateText = dt
		} else {
			rec.DateText = strings.TrimSpace(dateEl.Text())
		}

		rec.Summary = strings.TrimSpace(card.Find("[class*='excerpt'], [class*='summary'], [class*='desc'], [class*='text']").First().Text())

		records = append(records, rec)
		return true
	})

	return records, nil
}

// findTitle tries the title-ish headings inside the card, falling back to the
// link text
func findTitle(card, link *goquery.Selection) string {
	heading := card.Find("h1[class*='title'], h2[class*='title'], h3[class*='title'], h4[class*='title'], span[class*='title'], span[class*='heading']").First()
	if heading.Length() == 0 {
		heading = card.Find("h1, h2, h3, h4").First()
	}
	title := strings.TrimSpace(heading.Text())
	if title == "" {
		title = strings.TrimSpace(link.Text())
	}
	return strings.Join(strings.Fields(title), " ")
}
