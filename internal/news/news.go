// Package news provides the post sources a scan reads titles from: the DD
// spreadsheet, RSS feeds, the Alpaca news API and the local news parquet
// archive.
package news

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"ddscan/internal/config"
)

var (
	// ErrUnknownSource is returned by Build for a source name it does not know.
	ErrUnknownSource = errors.New("unknown post source")
	// ErrBadResponse is returned when a remote source answers with a non-2xx
	// status or a payload that cannot be parsed.
	ErrBadResponse = errors.New("bad response")
)

// Post is a single titled post from any source.
type Post struct {
	ID        string
	Title     string
	URL       string
	CreatedAt time.Time
	Source    string
}

// Source fetches posts created at or after since.
type Source interface {
	Name() string
	Fetch(ctx context.Context, since time.Time) ([]Post, error)
}

// Window returns the cutoff for a look-back of daysBack days ending at now.
func Window(daysBack int, now time.Time) time.Time {
	return now.Add(-time.Duration(daysBack) * 24 * time.Hour)
}

// FilterSince returns the posts created at or after cutoff, preserving order.
func FilterSince(posts []Post, cutoff time.Time) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if !p.CreatedAt.Before(cutoff) {
			out = append(out, p)
		}
	}
	return out
}

// SortNewestFirst sorts posts by creation time, newest first. Posts with the
// same timestamp keep their relative order.
func SortNewestFirst(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// Source names accepted by Build.
const (
	SourceSheet   = "sheet"
	SourceRSS     = "rss"
	SourceAlpaca  = "alpaca"
	SourceArchive = "archive"
)

// Build constructs the sources listed in cfg.Scan.Sources, in order.
// Duplicate names are ignored.
func Build(cfg *config.Config, log *slog.Logger) ([]Source, error) {
	getter := NewGetter(cfg.HTTP)

	var sources []Source
	seen := make(map[string]bool)
	for _, raw := range cfg.Scan.Sources {
		name := strings.ToLower(strings.TrimSpace(raw))
		if seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case SourceSheet:
			url := cfg.Sheet.URL
			if url == "" {
				url = SheetURL(cfg.Sheet.ID)
			}
			sources = append(sources, NewSheetSource(url, getter))
		case SourceRSS:
			if len(cfg.RSS.Feeds) == 0 {
				return nil, fmt.Errorf("rss source: no feeds configured")
			}
			sources = append(sources, NewRSSSource(cfg.RSS.Feeds, cfg.RSS.RateLimitPerMin, getter, log))
		case SourceAlpaca:
			if cfg.Alpaca.APIKey == "" || cfg.Alpaca.APISecret == "" {
				return nil, fmt.Errorf("alpaca source: api key and secret are required")
			}
			sources = append(sources, NewAlpacaSource(cfg.Alpaca, cfg.HTTP))
		case SourceArchive:
			if cfg.Archive.DataDir == "" {
				return nil, fmt.Errorf("archive source: data_dir is required")
			}
			sources = append(sources, NewArchiveSource(cfg.Archive.DataDir, log))
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSource, raw)
		}
	}
	return sources, nil
}

// --- HTTP ---

// Getter performs GET requests with a timeout and retries.
type Getter struct {
	Client     *http.Client
	Retries    int
	RetryDelay time.Duration
	UserAgent  string
}

// NewGetter returns a Getter configured from cfg.
func NewGetter(cfg config.HTTP) *Getter {
	return &Getter{
		Client:     &http.Client{Timeout: cfg.Timeout},
		Retries:    cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		UserAgent:  "Mozilla/5.0",
	}
}
