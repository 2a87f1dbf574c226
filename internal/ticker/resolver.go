package ticker

// Resolver binds a Directory so callers can resolve titles without threading
// the directory through every call.
type Resolver struct {
	dir *Directory
}

// NewResolver returns a Resolver over dir. A nil dir behaves as an empty
// directory.
func NewResolver(dir *Directory) *Resolver {
	return &Resolver{dir: dir}
}

// Directory returns the directory the resolver matches against.
// A nil Resolver has a nil Directory.
func (r *Resolver) Directory() *Directory {
	if r == nil {
		return nil
	}
	return r.dir
}

// Resolve is Resolve(title, r.Directory()).
func (r *Resolver) Resolve(title string) []string {
	return Resolve(title, r.Directory())
}

// Infer is InferTicker(title, r.Directory()).
func (r *Resolver) Infer(title string) (string, bool) {
	return InferTicker(title, r.Directory())
}

// Explanation shows how a title was resolved.
type Explanation struct {
	Title    string   `json:"title"`
	Explicit []string `json:"explicit"`
	Phrases  []string `json:"phrases"` // normalized, in match order
	Inferred string   `json:"inferred,omitempty"`
	Tickers  []string `json:"tickers"`
}

// Explain resolves title and keeps the intermediate results.
func (r *Resolver) Explain(title string) Explanation {
	explicit := ExtractSymbols(title)
	if explicit == nil {
		explicit = []string{}
	}
	phrases := matchOrder(title)
	if phrases == nil {
		phrases = []string{}
	}
	inferred, _ := InferTicker(title, r.Directory())
	return Explanation{
		Title:    title,
		Explicit: explicit,
		Phrases:  phrases,
		Inferred: inferred,
		Tickers:  Resolve(title, r.Directory()),
	}
}
