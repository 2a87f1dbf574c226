package render

import (
	"encoding/json"
	"time"

	"ddscan/internal/scan"
)

type jsonResult struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	URL        string   `json:"url"`
	CreatedUTC string   `json:"created_utc"`
	Source     string   `json:"source"`
	Tickers    []string `json:"tickers"`
}

type jsonRenderer struct{}

func (r *jsonRenderer) Render(results []scan.Result) ([]byte, error) {
	out := make([]jsonResult, 0, len(results))
	for _, res := range results {
		tickers := res.Tickers
		if tickers == nil {
			tickers = []string{}
		}
		out = append(out, jsonResult{
			ID:         res.Post.ID,
			Title:      res.Post.Title,
			URL:        res.Post.URL,
			CreatedUTC: res.Post.CreatedAt.UTC().Format(time.RFC3339),
			Source:     res.Post.Source,
			Tickers:    tickers,
		})
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
