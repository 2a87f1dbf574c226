package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"ddscan/internal/news"
	"ddscan/internal/scan"
)

var results = []scan.Result{
	{
		Post: news.Post{
			ID:        "p1",
			Title:     "Why Tesla\nwill double",
			URL:       "https://reddit.com/p1",
			CreatedAt: time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC),
			Source:    "sheet",
		},
		Tickers: []string{"TSLA"},
	},
	{
		Post: news.Post{
			ID:        "p2",
			Title:     "AMD vs NVDA",
			URL:       "https://reddit.com/p2",
			CreatedAt: time.Date(2025, 3, 10, 5, 30, 0, 0, time.FixedZone("EST", -5*3600)),
			Source:    "rss",
		},
		Tickers: []string{"AMD", "NVDA"},
	},
	{
		Post: news.Post{
			Title:     "Markets are quiet",
			CreatedAt: time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			Source:    "archive",
		},
	},
}

func TestNewRenderer(t *testing.T) {
	for _, f := range []string{"", "text", "json"} {
		r, err := NewRenderer(f)
		require.NoError(t, err, f)
		assert.NotNil(t, r)
	}

	_, err := NewRenderer("html")
	assert.Error(t, err)
}

func TestTextRenderer(t *testing.T) {
	r, err := NewRenderer("text")
	require.NoError(t, err)

	out, err := r.Render(results)
	require.NoError(t, err)

	want := "TSLA\tWhy Tesla will double\thttps://reddit.com/p1\n" +
		"AMD NVDA\tAMD vs NVDA\thttps://reddit.com/p2\n" +
		"no ticker found\tMarkets are quiet\t\n"
	assert.Equal(t, want, string(out))
}

func TestTextRendererEmpty(t *testing.T) {
	r, _ := NewRenderer("")
	out, err := r.Render(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestJSONRenderer(t *testing.T) {
	r, err := NewRenderer("json")
	require.NoError(t, err)

	out, err := r.Render(results)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(out))

	doc := gjson.ParseBytes(out)
	assert.Equal(t, int64(3), doc.Get("#").Int())
	assert.Equal(t, "p1", doc.Get("0.id").String())
	assert.Equal(t, "Why Tesla\nwill double", doc.Get("0.title").String())
	assert.Equal(t, "2025-03-10T11:00:00Z", doc.Get("0.created_utc").String())
	assert.Equal(t, "2025-03-10T10:30:00Z", doc.Get("1.created_utc").String())
	assert.Equal(t, int64(2), doc.Get("1.tickers.#").Int())
	assert.Equal(t, "AMD", doc.Get("1.tickers.0").String())
	assert.Equal(t, "NVDA", doc.Get("1.tickers.1").String())
	assert.Equal(t, "rss", doc.Get("1.source").String())

	// Unresolved posts still carry an array.
	assert.True(t, doc.Get("2.tickers").IsArray())
	assert.Equal(t, int64(0), doc.Get("2.tickers.#").Int())
}

func TestJSONRendererEmpty(t *testing.T) {
	r, _ := NewRenderer("json")
	out, err := r.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}
