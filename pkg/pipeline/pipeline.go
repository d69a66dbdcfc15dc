package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/rossonews/rossonews/pkg/aggregate"
	"github.com/rossonews/rossonews/pkg/domain"
	"github.com/rossonews/rossonews/pkg/normalize"
	"github.com/rossonews/rossonews/pkg/source"
	"github.com/rossonews/rossonews/pkg/translate"
)

// Pipeline runs a single aggregation pass: fetch all sources concurrently
// with per-source failure isolation, normalize, aggregate and persist.
// Only a persistence failure is returned; source failures are recorded in
// the result's source stats.
type Pipeline struct {
	adapters   []source.Adapter
	normalizer *normalize.Normalizer
	aggregator *aggregate.Aggregator
	translator translate.Translator
	writer     Writer
	deadline   time.Duration
}

// Writer persists the final document
type Writer interface {
	Write(result domain.AggregationResult) error
}

// Params holds pipeline dependencies. Adapters must be listed in source
// priority order, the feed source first.
type Params struct {
	Adapters   []source.Adapter
	Normalizer *normalize.Normalizer
	Aggregator *aggregate.Aggregator
	Translator translate.Translator
	Writer     Writer
	Deadline   time.Duration
}

// New creates a pipeline from the given parameters
func New(p Params) *Pipeline {
	translator := p.Translator
	if translator == nil {
		translator = translate.Noop{}
	}
	return &Pipeline{
		adapters:   p.Adapters,
		normalizer: p.Normalizer,
		aggregator: p.Aggregator,
		translator: translator,
		writer:     p.Writer,
		deadline:   p.Deadline,
	}
}

// Run executes one aggregation pass. The document is written even when every
// source fails; the returned error reflects the write step only.
func (p *Pipeline) Run(ctx context.Context) error {
	started := time.Now()
	if p.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.deadline)
		defer cancel()
	}

	results := make([]aggregate.FetchResult, len(p.adapters))
	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range p.adapters {
		g.Go(func() error {
			results[i] = p.fetchSource(gctx, adapter)
			return nil
		})
	}
	_ = g.Wait() // fetch errors stay inside the results

	result := p.aggregator.Aggregate(results)
	for _, src := range domain.AllSources {
		stat := result.Sources[src]
		lgr.Printf("[INFO] source %s: %d articles, error=%v", src, stat.Count, stat.Error)
	}

	if err := p.writer.Write(result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	lgr.Printf("[INFO] saved %d articles in %v", len(result.Articles), time.Since(started).Round(time.Millisecond))
	return nil
}

// fetchSource runs one adapter with failure isolation: errors and panics are
// contained in the fetch result and never abort the run
func (p *Pipeline) fetchSource(ctx context.Context, adapter source.Adapter) (res aggregate.FetchResult) {
	res.Source = adapter.Name()
	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[ERROR] source %s panicked: %v", res.Source, r)
			res.Err = fmt.Errorf("source %s panicked: %v", res.Source, r)
			res.Articles = nil
		}
	}()

	records, err := adapter.Fetch(ctx)
	if err != nil {
		lgr.Printf("[WARN] fetch %s failed: %v", res.Source, err)
		res.Err = err
		return res
	}

	articles := make([]domain.Article, 0, len(records))
	for _, rec := range records {
		article, ok := p.normalizer.Normalize(rec, res.Source, adapter.BaseURL())
		if !ok {
			continue // validation rejection, dropped silently
		}
		// milannews.it publishes in Italian, everything else is English
		if res.Source == domain.SourceMilanNews {
			article.Title = p.translator.Translate(ctx, article.Title)
			article.Summary = p.translator.Translate(ctx, article.Summary)
		}
		articles = append(articles, article)
	}

	res.Articles = articles
	lgr.Printf("[DEBUG] source %s: %d records fetched, %d normalized", res.Source, len(records), len(articles))
	return res
}
