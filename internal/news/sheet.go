package news

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// SheetURL returns the gviz JSON export URL for a public spreadsheet.
func SheetURL(id string) string {
	return "https://docs.google.com/spreadsheets/d/" + id + "/gviz/tq?tqx=out:json"
}

// SheetSource reads DD posts from a spreadsheet exported through gviz.
type SheetSource struct {
	url    string
	getter *Getter
}

// NewSheetSource returns a source reading the gviz export at url.
func NewSheetSource(url string, getter *Getter) *SheetSource {
	return &SheetSource{url: url, getter: getter}
}

// Name implements Source.
func (s *SheetSource) Name() string { return SourceSheet }

// Fetch implements Source.
func (s *SheetSource) Fetch(ctx context.Context, since time.Time) ([]Post, error) {
	body, err := s.getter.Get(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("fetching sheet: %w", err)
	}
	posts, err := ParseSheet(body)
	if err != nil {
		return nil, err
	}
	return FilterSince(posts, since), nil
}

// ParseSheet decodes a gviz response into posts. The JSON table is located
// inside the "google.visualization.Query.setResponse(...);" wrapper and its
// columns are matched by label: id, title, permalink, url and created_utc.
// Rows without a usable created_utc are dropped.
func ParseSheet(body []byte) ([]Post, error) {
	start := bytes.IndexByte(body, '{')
	end := bytes.LastIndexByte(body, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: sheet payload has no JSON object", ErrBadResponse)
	}
	payload := body[start : end+1]
	if !gjson.ValidBytes(payload) {
		return nil, fmt.Errorf("%w: sheet payload is not valid JSON", ErrBadResponse)
	}

	root := gjson.ParseBytes(payload)
	if root.Get("status").String() == "error" {
		return nil, fmt.Errorf("%w: sheet error: %s", ErrBadResponse, root.Get("errors.0.detailed_message").String())
	}
	if !root.Get("table").Exists() {
		return nil, fmt.Errorf("%w: sheet payload has no table", ErrBadResponse)
	}

	// Later columns with a repeated label win.
	cols := make(map[string]int)
	for i, col := range root.Get("table.cols").Array() {
		cols[col.Get("label").String()] = i
	}

	var posts []Post
	for _, row := range root.Get("table.rows").Array() {
		cells := row.Get("c").Array()
		cell := func(label string) gjson.Result {
			i, ok := cols[label]
			if !ok || i >= len(cells) {
				return gjson.Result{}
			}
			return cells[i].Get("v")
		}

		created, ok := parseCreated(cell("created_utc"))
		if !ok {
			continue
		}

		url := cellString(cell("permalink"))
		if url == "" {
			url = cellString(cell("url"))
		}
		posts = append(posts, Post{
			ID:        cellString(cell("id")),
			Title:     cellString(cell("title")),
			URL:       url,
			CreatedAt: created,
			Source:    SourceSheet,
		})
	}
	return posts, nil
}

func cellString(v gjson.Result) string {
	switch v.Type {
	case gjson.Null:
		return ""
	case gjson.Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return v.String()
	}
}

// parseCreated coerces a created_utc cell to a time. Strings keep only
// their digits and dots before being read as epoch seconds.
func parseCreated(v gjson.Result) (time.Time, bool) {
	var secs float64
	switch v.Type {
	case gjson.Null:
		return time.Time{}, false
	case gjson.Number:
		secs = v.Num
	default:
		digits := strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' {
				return r
			}
			return -1
		}, v.String())
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return time.Time{}, false
		}
		secs = f
	}
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, false
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC(), true
}
