package news

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"ddscan/internal/config"
	"ddscan/internal/util"
)

// newsClient is the part of *marketdata.Client the alpaca source uses.
type newsClient interface {
	GetNews(req marketdata.GetNewsRequest) ([]marketdata.News, error)
}

// AlpacaSource reads headlines from the Alpaca news API.
type AlpacaSource struct {
	client     newsClient
	symbols    []string
	limit      int
	retries    int
	retryDelay time.Duration
	now        func() time.Time
}

// NewAlpacaSource returns a source using the credentials in cfg.
func NewAlpacaSource(cfg config.Alpaca, h config.HTTP) *AlpacaSource {
	opts := marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}
	if cfg.DataURL != "" {
		opts.BaseURL = cfg.DataURL
	}
	return newAlpacaSource(marketdata.NewClient(opts), cfg, h)
}

func newAlpacaSource(client newsClient, cfg config.Alpaca, h config.HTTP) *AlpacaSource {
	return &AlpacaSource{
		client:     client,
		symbols:    cfg.Symbols,
		limit:      cfg.Limit,
		retries:    h.Retries,
		retryDelay: h.RetryDelay,
		now:        time.Now,
	}
}

// Name implements Source.
func (s *AlpacaSource) Name() string { return SourceAlpaca }

// Fetch implements Source.
func (s *AlpacaSource) Fetch(ctx context.Context, since time.Time) ([]Post, error) {
	req := marketdata.GetNewsRequest{
		Symbols:    s.symbols,
		Start:      since,
		End:        s.now(),
		TotalLimit: s.limit,
		Sort:       marketdata.SortDesc,
	}

	var items []marketdata.News
	err := util.Retry(ctx, s.retries, s.retryDelay, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return util.Permanent(err)
		}
		var err error
		items, err = s.client.GetNews(req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("fetching alpaca news: %w", err)
	}

	posts := make([]Post, 0, len(items))
	for _, n := range items {
		posts = append(posts, Post{
			ID:        strconv.Itoa(n.ID),
			Title:     n.Headline,
			URL:       n.URL,
			CreatedAt: n.CreatedAt.UTC(),
			Source:    SourceAlpaca,
		})
	}
	return FilterSince(posts, since), nil
}
