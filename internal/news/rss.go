package news

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ddscan/internal/util"
)

type rssResponse struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title   string `xml:"title"`
	Link    string `xml:"link"`
	GUID    string `xml:"guid"`
	PubDate string `xml:"pubDate"`
	Source  string `xml:"source"`
}

var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 02 Jan 2006 15:04 MST",
}

// RSSSource reads posts from RSS 2.0 feeds, one request per feed.
type RSSSource struct {
	feeds   []string
	limiter *util.RateLimiter
	getter  *Getter
	log     *slog.Logger
}

// NewRSSSource returns a source over feeds, paced to perMinute requests.
func NewRSSSource(feeds []string, perMinute int, getter *Getter, log *slog.Logger) *RSSSource {
	return &RSSSource{
		feeds:   feeds,
		limiter: util.NewRateLimiter(perMinute),
		getter:  getter,
		log:     log,
	}
}

// Name implements Source.
func (s *RSSSource) Name() string { return SourceRSS }

// Fetch implements Source. A failing feed is logged and skipped; an error is
// returned only when every feed fails.
func (s *RSSSource) Fetch(ctx context.Context, since time.Time) ([]Post, error) {
	var (
		posts []Post
		errs  []error
	)
	for _, feed := range s.feeds {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		body, err := s.getter.Get(ctx, feed)
		if err == nil {
			var items []Post
			items, err = ParseRSS(body)
			posts = append(posts, items...)
		}
		if err != nil {
			s.log.Warn("rss feed failed", "feed", feed, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", feed, err))
		}
	}

	if len(errs) == len(s.feeds) && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return FilterSince(posts, since), nil
}

// ParseRSS decodes an RSS 2.0 document. Items with an unparsable pubDate are
// skipped.
func ParseRSS(body []byte) ([]Post, error) {
	var rss rssResponse
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	var posts []Post
	for _, item := range rss.Channel.Items {
		t, ok := parsePubDate(item.PubDate)
		if !ok {
			continue
		}

		title := StripHTML(item.Title)
		// Google News appends " - Publisher" to every title.
		if src := strings.TrimSpace(item.Source); src != "" {
			title = strings.TrimSuffix(title, " - "+src)
		}

		id := strings.TrimSpace(item.GUID)
		if id == "" {
			id = strings.TrimSpace(item.Link)
		}
		posts = append(posts, Post{
			ID:        id,
			Title:     title,
			URL:       strings.TrimSpace(item.Link),
			CreatedAt: t.UTC(),
			Source:    SourceRSS,
		})
	}
	return posts, nil
}

func parsePubDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
