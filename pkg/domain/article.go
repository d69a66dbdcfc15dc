package domain

import "time"

// Source identifies one of the configured news origins.
type Source string

// the four configured sources for the club
const (
	SourceMilanNews      Source = "milannews.it"
	SourceFootballItalia Source = "football-italia.net"
	SourceSempreMilan    Source = "sempremilan.com"
	SourceACMilan        Source = "acmilan.com"
)

// AllSources lists the sources in registration order, the feed source first.
// This order doubles as the priority for duplicate tie-breaking.
var AllSources = []Source{SourceMilanNews, SourceFootballItalia, SourceSempreMilan, SourceACMilan}

// Article is a canonical, validated news record in the common schema.
// Date is nil when the source date could not be parsed; consumers must
// treat null as "unknown".
type Article struct {
	Source  Source     `json:"source"`
	Title   string     `json:"title"`
	URL     string     `json:"url"`
	Summary string     `json:"summary"`
	Date    *time.Time `json:"date"`
}

// SourceStat describes one source's contribution to a run.
type SourceStat struct {
	Count int  `json:"count"`
	Error bool `json:"error"`
}

// AggregationResult is the document produced by a single pipeline run.
// It fully replaces the previously persisted document.
type AggregationResult struct {
	LastUpdated time.Time             `json:"lastUpdated"`
	Articles    []Article             `json:"articles"`
	Sources     map[Source]SourceStat `json:"sources"`
}
