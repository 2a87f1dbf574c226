// Package scan runs post sources through the ticker resolver.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"ddscan/internal/news"
	"ddscan/internal/ticker"
	"ddscan/internal/util"
)

// Result pairs a post with the tickers resolved from its title.
type Result struct {
	Post    news.Post
	Tickers []string
}

// Found reports whether any ticker was resolved.
func (r Result) Found() bool { return len(r.Tickers) > 0 }

// Scanner fetches posts from its sources and resolves their tickers.
type Scanner struct {
	resolver *ticker.Resolver
	sources  []news.Source
	workers  int
	metrics  *Metrics
	log      *slog.Logger
}

// New creates a Scanner. A nil resolver matches against an empty directory,
// a nil metrics gets a private set of collectors, a nil log discards, and
// workers below one is treated as one.
func New(resolver *ticker.Resolver, sources []news.Source, workers int, metrics *Metrics, log *slog.Logger) *Scanner {
	if workers < 1 {
		workers = 1
	}
	if resolver == nil {
		resolver = ticker.NewResolver(nil)
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if log == nil {
		log = util.Discard()
	}
	return &Scanner{
		resolver: resolver,
		sources:  sources,
		workers:  workers,
		metrics:  metrics,
		log:      log,
	}
}

// Metrics returns the collectors the scanner records into.
func (s *Scanner) Metrics() *Metrics { return s.metrics }

// Run fetches every source concurrently, keeps posts created at or after
// since, drops duplicates and resolves tickers for the rest. Results are
// ordered newest first. A failing source is logged and skipped; Run fails
// only when every source fails.
func (s *Scanner) Run(ctx context.Context, since time.Time) ([]Result, error) {
	start := time.Now()
	defer func() {
		s.metrics.ScanDuration.Observe(time.Since(start).Seconds())
	}()
	s.metrics.DirectoryCompanies.Set(float64(s.resolver.Directory().Len()))

	posts, err := s.fetch(ctx, since)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(posts))
	kinds := make([]string, len(posts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, p := range posts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tickers := s.resolver.Resolve(p.Title)
			results[i] = Result{Post: p, Tickers: tickers}
			kinds[i] = classify(p.Title, tickers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, k := range kinds {
		s.metrics.PostsResolvedTotal.WithLabelValues(k).Inc()
	}

	s.log.Info("scan complete",
		"sources", len(s.sources),
		"posts", len(results),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return results, nil
}

// fetch gathers posts from all sources and returns them filtered,
// de-duplicated and sorted newest first.
func (s *Scanner) fetch(ctx context.Context, since time.Time) ([]news.Post, error) {
	fetched := make([][]news.Post, len(s.sources))
	errs := make([]error, len(s.sources))

	var g errgroup.Group
	for i, src := range s.sources {
		g.Go(func() error {
			name := src.Name()
			posts, err := src.Fetch(ctx, since)
			if err != nil {
				s.metrics.SourceErrorsTotal.WithLabelValues(name).Inc()
				s.log.Warn("source failed", "source", name, "error", err)
				errs[i] = fmt.Errorf("%s: %w", name, err)
				return nil
			}
			s.metrics.PostsTotal.WithLabelValues(name).Add(float64(len(posts)))
			s.log.Debug("source fetched", "source", name, "posts", len(posts))
			fetched[i] = posts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if len(s.sources) > 0 && failed == len(s.sources) {
		return nil, fmt.Errorf("all sources failed: %w", errors.Join(errs...))
	}

	return merge(fetched, since), nil
}

type postKey struct {
	source string
	id     string
}

// merge flattens per-source posts in source order, drops posts before since
// and keeps the first of each (source, ID). Posts without an ID are kept.
func merge(fetched [][]news.Post, since time.Time) []news.Post {
	seen := make(map[postKey]bool)
	out := make([]news.Post, 0)
	for _, posts := range fetched {
		for _, p := range news.FilterSince(posts, since) {
			if p.ID != "" {
				k := postKey{source: p.Source, id: p.ID}
				if seen[k] {
					continue
				}
				seen[k] = true
			}
			out = append(out, p)
		}
	}
	news.SortNewestFirst(out)
	return out
}

func classify(title string, tickers []string) string {
	switch {
	case len(tickers) == 0:
		return KindNone
	case len(ticker.ExtractSymbols(title)) > 0:
		return KindExplicit
	default:
		return KindInferred
	}
}
