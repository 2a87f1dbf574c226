package news

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"ddscan/internal/util"
)

// maxBody caps how much of a response body is read.
const maxBody = 16 << 20

// Get fetches url and returns the response body. Transport errors, 429 and
// 5xx answers are retried; any other non-2xx status fails at once with
// ErrBadResponse.
func (g *Getter) Get(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := util.Retry(ctx, g.Retries, g.RetryDelay, func(ctx context.Context) error {
		b, err := g.get(ctx, url)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (g *Getter) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, util.Permanent(err)
	}
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("%w: GET %s: status %d", ErrBadResponse, url, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, util.Permanent(err)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}
