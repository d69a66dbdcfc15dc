package source

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/rossonews/rossonews/pkg/domain"
)

// FeedAdapter fetches an RSS/Atom feed and maps its entries to raw records.
// Used for milannews.it, the only feed-based source.
type FeedAdapter struct {
	client  *Client
	name    domain.Source
	baseURL string
	feedURL string
	limit   int
}

// NewFeedAdapter creates a feed adapter for the given source
func NewFeedAdapter(client *Client, name domain.Source, baseURL, feedURL string, limit int) *FeedAdapter {
	return &FeedAdapter{client: client, name: name, baseURL: baseURL, feedURL: feedURL, limit: limit}
}

// Name returns the source identifier
func (a *FeedAdapter) Name() domain.Source { return a.name }

// BaseURL returns the base for resolving relative links
func (a *FeedAdapter) BaseURL() string { return a.baseURL }

// Fetch retrieves and parses the feed
func (a *FeedAdapter) Fetch(ctx context.Context) ([]RawRecord, error) {
	body, err := a.client.Get(ctx, a.feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", a.feedURL, err)
	}

	records := make([]RawRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		if a.limit > 0 && len(records) >= a.limit {
			break
		}

		rec := RawRecord{Title: item.Title, Link: item.Link, Summary: item.Description}

		// prefer the parsed publish time, fall back to the raw date string
		switch {
		case item.PublishedParsed != nil:
			rec.Date = item.PublishedParsed
		case item.UpdatedParsed != nil:
			rec.Date = item.UpdatedParsed
		case item.Published != "":
			rec.DateText = item.Published
		default:
			rec.DateText = item.Updated
		}

		records = append(records, rec)
	}

	return records, nil
}
