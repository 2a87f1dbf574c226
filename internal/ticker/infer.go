package ticker

import (
	"slices"
	"sort"
)

// InferTicker infers at most one ticker from the company names mentioned in
// title. Phrases are normalized and tried longest first (ties keep
// extraction order); for each phrase the directory is scanned in order and
// the first company whose normalized name equals or contains the phrase wins.
// It reports false when nothing matches, including for an empty title or an
// empty directory.
func InferTicker(title string, dir *Directory) (string, bool) {
	if dir.Len() == 0 {
		return "", false
	}
	for _, phrase := range matchOrder(title) {
		if sym, ok := dir.match(phrase); ok {
			return sym, true
		}
	}
	return "", false
}

// matchOrder returns the normalized phrases of title in the order inference
// tries them.
func matchOrder(title string) []string {
	phrases := ExtractNamePhrases(title)
	for i, p := range phrases {
		phrases[i] = Normalize(p)
	}
	sort.SliceStable(phrases, func(i, j int) bool {
		return len(phrases[i]) > len(phrases[j])
	})
	return phrases
}

// Resolve returns the tickers for title: all explicit tickers in order of
// appearance, followed by the inferred ticker when it is not already among
// them. Inference always runs, even when explicit tickers were found. The
// result is never nil; an empty slice means no ticker was found.
func Resolve(title string, dir *Directory) []string {
	tickers := ExtractSymbols(title)
	if tickers == nil {
		tickers = []string{}
	}
	if inferred, ok := InferTicker(title, dir); ok && !slices.Contains(tickers, inferred) {
		tickers = append(tickers, inferred)
	}
	return tickers
}
