// Package domain contains the core domain types for the blockchain context.
package domain

import (
	"math/big"
	"time"
)

var weiPerNative = new(big.Float).SetFloat64(1e18)

// GasPrice is a gas price quote from the EVM node.
type GasPrice struct {
	Wei       *big.Int
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice from wei.
func NewGasPrice(wei *big.Int) *GasPrice {
	return &GasPrice{
		Wei:       new(big.Int).Set(wei),
		Timestamp: time.Now().UTC(),
	}
}

// Gwei returns the price in gwei.
func (p *GasPrice) Gwei() float64 {
	gwei := new(big.Float).SetInt(p.Wei)
	gwei.Quo(gwei, big.NewFloat(1e9))
	f, _ := gwei.Float64()
	return f
}

// GasEstimate is the projected cost of one transaction at a given price.
type GasEstimate struct {
	GasLimit uint64
	Price    *GasPrice
}

// NewGasEstimate creates a GasEstimate.
func NewGasEstimate(gasLimit uint64, price *GasPrice) *GasEstimate {
	return &GasEstimate{
		GasLimit: gasLimit,
		Price:    price,
	}
}

// TotalWei returns gasLimit * gasPrice in wei.
func (e *GasEstimate) TotalWei() *big.Int {
	return new(big.Int).Mul(e.Price.Wei, new(big.Int).SetUint64(e.GasLimit))
}

// TotalGwei returns the total cost in gwei.
func (e *GasEstimate) TotalGwei() float64 {
	return e.Price.Gwei() * float64(e.GasLimit)
}

// CostUSD converts the total cost to USD given the native token price.
// On Sei EVM the native token is SEI.
func (e *GasEstimate) CostUSD(nativePriceUSD float64) float64 {
	native := new(big.Float).SetInt(e.TotalWei())
	native.Quo(native, weiPerNative)
	f, _ := native.Float64()
	return f * nativePriceUSD
}
