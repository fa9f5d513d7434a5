package asset

import "testing"

func TestNewPair(t *testing.T) {
	pair, err := NewPair(SEI, USDC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := pair.Symbol(); got != "SEI-USDC" {
		t.Errorf("symbol = %q, want SEI-USDC", got)
	}
}

func TestNewPairRejectsSelfPair(t *testing.T) {
	if _, err := NewPair(SEI, SEI); err == nil {
		t.Fatal("expected error for self pair")
	}
}

func TestNewPairRejectsNil(t *testing.T) {
	if _, err := NewPair(nil, USDC); err == nil {
		t.Fatal("expected error for nil base")
	}
	if _, err := NewPair(SEI, nil); err == nil {
		t.Fatal("expected error for nil quote")
	}
}

func TestPairsAreDirected(t *testing.T) {
	ab, _ := NewPair(SEI, USDC)
	ba, _ := NewPair(USDC, SEI)
	if ab.Symbol() == ba.Symbol() {
		t.Errorf("directed pairs collapsed: %s", ab.Symbol())
	}
}

func TestEnumeratePairs(t *testing.T) {
	pairs := EnumeratePairs([]*Asset{SEI, USDC, ETH})
	if len(pairs) != 6 {
		t.Fatalf("got %d pairs, want 6 directed pairs over 3 assets", len(pairs))
	}

	// Input order, base-major.
	if pairs[0].Symbol() != "SEI-USDC" || pairs[1].Symbol() != "SEI-ETH" {
		t.Errorf("unexpected order: %s, %s", pairs[0], pairs[1])
	}
}

func TestEnumeratePairsTooFewAssets(t *testing.T) {
	if pairs := EnumeratePairs([]*Asset{SEI}); pairs != nil {
		t.Errorf("got %d pairs for a single asset, want none", len(pairs))
	}
}

func TestPairsFromSymbols(t *testing.T) {
	r := DefaultRegistry()

	pairs, err := PairsFromSymbols(r, []string{"SEI", "USDC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("got %d pairs, want 2", len(pairs))
	}
}

func TestPairsFromSymbolsUnknownSymbol(t *testing.T) {
	r := DefaultRegistry()

	if _, err := PairsFromSymbols(r, []string{"SEI", "DOGE"}); err == nil {
		t.Fatal("expected error for unknown symbol")
	}
}
