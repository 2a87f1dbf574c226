package ticker

// ExtractSymbols returns every bare ticker-like token in title, left to right
// with duplicates kept. A token is a maximal run of word characters
// ([A-Za-z0-9_]); it is ticker-like when it is 2 to 5 uppercase ASCII
// letters. Acronyms such as "CEO" pass as well; no validation against a
// listing is done here.
func ExtractSymbols(title string) []string {
	var symbols []string
	for i := 0; i < len(title); {
		if !isWordByte(title[i]) {
			i++
			continue
		}
		j := i
		for j < len(title) && isWordByte(title[j]) {
			j++
		}
		if tok := title[i:j]; isSymbolShaped(tok) {
			symbols = append(symbols, tok)
		}
		i = j
	}
	return symbols
}

func isSymbolShaped(tok string) bool {
	if len(tok) < 2 || len(tok) > 5 {
		return false
	}
	for i := 0; i < len(tok); i++ {
		if !isUpper(tok[i]) {
			return false
		}
	}
	return true
}
