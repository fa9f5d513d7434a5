package domain

import (
	"math"
	"math/big"
	"testing"
)

func TestGasPriceGwei(t *testing.T) {
	price := NewGasPrice(big.NewInt(2_500_000_000)) // 2.5 gwei
	if got := price.Gwei(); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("Gwei() = %v, want 2.5", got)
	}
}

func TestGasEstimateCostUSD(t *testing.T) {
	// 450k gas at 1 gwei = 0.00045 native, at $0.40 = $0.00018
	price := NewGasPrice(big.NewInt(1_000_000_000))
	estimate := NewGasEstimate(450_000, price)

	wantWei := new(big.Int).Mul(big.NewInt(450_000), big.NewInt(1_000_000_000))
	if estimate.TotalWei().Cmp(wantWei) != 0 {
		t.Errorf("TotalWei() = %s, want %s", estimate.TotalWei(), wantWei)
	}

	if got := estimate.TotalGwei(); math.Abs(got-450_000) > 1e-6 {
		t.Errorf("TotalGwei() = %v, want 450000", got)
	}

	if got := estimate.CostUSD(0.40); math.Abs(got-0.00018) > 1e-12 {
		t.Errorf("CostUSD(0.40) = %v, want 0.00018", got)
	}
}

func TestNewGasPriceCopiesWei(t *testing.T) {
	wei := big.NewInt(100)
	price := NewGasPrice(wei)

	wei.SetInt64(999)
	if price.Wei.Int64() != 100 {
		t.Error("GasPrice aliased the caller's big.Int")
	}
}
