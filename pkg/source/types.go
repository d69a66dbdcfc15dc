package source

import (
	"context"
	"time"

	"github.com/rossonews/rossonews/pkg/domain"
)

// RawRecord is unvalidated, source-shaped data extracted from a fetch.
// Either Date or DateText may be set; the normalizer handles both.
type RawRecord struct {
	Title    string
	Link     string
	Summary  string
	DateText string
	Date     *time.Time
}

// Adapter fetches raw records from a single news source. A fetch failure is
// returned as an error and never aborts the other adapters; isolation is the
// pipeline's job.
type Adapter interface {
	Name() domain.Source
	BaseURL() string
	Fetch(ctx context.Context) ([]RawRecord, error)
}
