// Package ticker infers stock-ticker symbols from free-text post titles.
//
// Two heuristics run over a title: explicit extraction of bare uppercase
// tokens that look like tickers, and company-name inference that matches
// capitalized phrases in the title against a Directory of known companies.
// Every function in this package is pure and safe for concurrent use.
package ticker

import "strings"

// Company is a single (symbol, name) pair from the reference directory.
type Company struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// entry is a directory row with its precomputed comparison keys.
type entry struct {
	Company
	key   string   // Normalize(Name)
	words []string // key split on spaces and hyphens
}

// Directory is an ordered, read-only collection of companies. Order is
// significant: inference returns the first company that matches, so earlier
// rows take priority over later ones.
//
// Matching is a linear scan per phrase. That is fine for exchange-listing
// sized directories (a few thousand rows); an index is not worth it until the
// directory grows by orders of magnitude.
type Directory struct {
	entries []entry
}

// LoadDirectory builds a Directory from already-parsed rows. Rows with an
// empty symbol or an empty name are dropped; the remaining rows keep their
// order. Symbols are not de-duplicated.
func LoadDirectory(rows []Company) *Directory {
	d := &Directory{entries: make([]entry, 0, len(rows))}
	for _, c := range rows {
		if c.Symbol == "" || c.Name == "" {
			continue
		}
		key := Normalize(c.Name)
		d.entries = append(d.entries, entry{
			Company: c,
			key:     key,
			words:   nameWords(key),
		})
	}
	return d
}

// Len returns the number of companies in the directory. A nil Directory is
// empty.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Companies returns a copy of the directory rows in order.
func (d *Directory) Companies() []Company {
	out := make([]Company, 0, d.Len())
	if d == nil {
		return out
	}
	for _, e := range d.entries {
		out = append(out, e.Company)
	}
	return out
}

// Lookup returns the first company listed under symbol.
func (d *Directory) Lookup(symbol string) (Company, bool) {
	if d == nil {
		return Company{}, false
	}
	for _, e := range d.entries {
		if e.Symbol == symbol {
			return e.Company, true
		}
	}
	return Company{}, false
}

// match scans the directory in order for the first company whose name
// matches the normalized phrase, either as a whole name word or as a
// substring of the normalized name.
func (d *Directory) match(phrase string) (string, bool) {
	if d == nil {
		return "", false
	}
	for _, e := range d.entries {
		for _, w := range e.words {
			if w == phrase {
				return e.Symbol, true
			}
		}
		if phrase != "" && strings.Contains(e.key, phrase) {
			return e.Symbol, true
		}
	}
	return "", false
}

// nameWords splits a normalized name on spaces and hyphens. Normalize already
// removes both, so in practice this yields the whole key as a single word.
func nameWords(key string) []string {
	return strings.FieldsFunc(key, func(r rune) bool {
		return r == ' ' || r == '-'
	})
}
