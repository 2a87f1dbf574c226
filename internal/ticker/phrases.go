package ticker

import "strings"

// stopWords are never part of a name phrase, whatever their capitalization.
var stopWords = map[string]struct{}{
	"the": {}, "this": {}, "that": {}, "why": {}, "what": {}, "when": {},
	"how": {}, "who": {}, "if": {}, "all": {}, "in": {}, "on": {},
	"of": {}, "for": {}, "and": {}, "but": {}, "a": {}, "i": {},
	"we": {}, "you": {}, "my": {}, "your": {}, "it": {}, "its": {},
	"to": {}, "with": {}, "at": {}, "by": {}, "be": {}, "or": {},
	"as": {}, "is": {}, "are": {}, "was": {}, "were": {}, "from": {},
	"up": {}, "down": {}, "over": {}, "under": {}, "more": {}, "less": {},
	"bear": {}, "bull": {},
}

// IsStopWord reports whether word, with ASCII letters lowercased, is in the
// stop-word set.
func IsStopWord(word string) bool {
	_, ok := stopWords[lowerASCII(word)]
	return ok
}

// ExtractNamePhrases returns candidate company-name phrases from title in
// order of first appearance.
//
// Punctuation is dropped, the rest is split on whitespace, and each token
// that starts with an uppercase letter followed by a lowercase letter (and is
// not a stop word) qualifies. Every qualifying token is emitted on its own,
// and every maximal run of qualifying tokens is emitted again joined by
// single spaces once the run ends. A run of one word therefore shows up
// twice; duplicates are kept.
func ExtractNamePhrases(title string) []string {
	var (
		phrases []string
		run     []string
	)
	flush := func() {
		if len(run) > 0 {
			phrases = append(phrases, strings.Join(run, " "))
			run = run[:0]
		}
	}

	for _, tok := range tokenize(title) {
		if !qualifies(tok) {
			flush()
			continue
		}
		phrases = append(phrases, tok)
		run = append(run, tok)
	}
	flush()

	return phrases
}

// tokenize splits title on whitespace after removing every rune that is
// neither a word character nor whitespace. Removed runes never split a
// token: "Wal-Mart" becomes "WalMart".
func tokenize(title string) []string {
	var (
		tokens []string
		cur    strings.Builder
	)
	for _, r := range title {
		switch {
		case isSpace(r):
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		case r < 0x80 && isWordByte(byte(r)):
			cur.WriteByte(byte(r))
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// qualifies reports whether tok can be part of a name phrase: "Capitalized"
// shape and not a stop word. A lone capital such as "I" does not qualify.
func qualifies(tok string) bool {
	if len(tok) < 2 || !isUpper(tok[0]) || !isLower(tok[1]) {
		return false
	}
	return !IsStopWord(tok)
}
