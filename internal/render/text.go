package render

import (
	"bytes"
	"strings"

	"ddscan/internal/scan"
)

// NoTicker is printed in place of the tickers of an unresolved post.
const NoTicker = "no ticker found"

type textRenderer struct{}

func (r *textRenderer) Render(results []scan.Result) ([]byte, error) {
	var buf bytes.Buffer
	for _, res := range results {
		tickers := NoTicker
		if res.Found() {
			tickers = strings.Join(res.Tickers, " ")
		}
		buf.WriteString(tickers)
		buf.WriteByte('\t')
		buf.WriteString(oneLine(res.Post.Title))
		buf.WriteByte('\t')
		buf.WriteString(res.Post.URL)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// oneLine keeps a title from breaking the one-result-per-line layout.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
