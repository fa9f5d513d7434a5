package asset

import "fmt"

// Pair is a directed trading pair: Base priced in Quote.
// (A,B) and (B,A) are distinct pairs.
type Pair struct {
	Base  *Asset
	Quote *Asset
}

// NewPair creates a pair. Base and quote must differ.
func NewPair(base, quote *Asset) (Pair, error) {
	if base == nil || quote == nil {
		return Pair{}, fmt.Errorf("asset: pair requires both base and quote")
	}
	if base.Equals(quote) {
		return Pair{}, fmt.Errorf("asset: pair base and quote must differ (%s)", base.Symbol())
	}
	return Pair{Base: base, Quote: quote}, nil
}

// Symbol returns the canonical "BASE-QUOTE" identifier.
func (p Pair) Symbol() string {
	return p.Base.Symbol() + "-" + p.Quote.Symbol()
}

func (p Pair) String() string {
	return p.Symbol()
}

// EnumeratePairs returns every directed pair over the given assets,
// excluding self-pairs. Order is deterministic: input order, base-major.
func EnumeratePairs(assets []*Asset) []Pair {
	if len(assets) < 2 {
		return nil
	}

	pairs := make([]Pair, 0, len(assets)*(len(assets)-1))
	for _, base := range assets {
		for _, quote := range assets {
			if base.Equals(quote) {
				continue
			}
			pairs = append(pairs, Pair{Base: base, Quote: quote})
		}
	}
	return pairs
}

// PairsFromSymbols resolves symbols against the registry and enumerates all
// directed pairs. Unknown symbols are an error: a misspelled token in config
// should fail loudly, not silently shrink the scan universe.
func PairsFromSymbols(r *Registry, symbols []string) ([]Pair, error) {
	assets := make([]*Asset, 0, len(symbols))
	for _, sym := range symbols {
		matches := r.GetBySymbol(sym)
		if len(matches) == 0 {
			return nil, fmt.Errorf("asset: unknown symbol %q", sym)
		}
		assets = append(assets, matches[0])
	}
	return EnumeratePairs(assets), nil
}
