package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDSeiMainnet = 1329
	ChainIDSeiTestnet = 1328
	ChainIDEthereum   = 1
	ChainIDOffchain   = 0 // off-chain market symbols
)

// Well-known token addresses on Sei EVM mainnet (pacific-1)
var (
	AddrUSDCSei = common.HexToAddress("0x3894085Ef7Ff0f0aeDF52E2A2704928d1Ec074F1")
	AddrWSEISei = common.HexToAddress("0xE30feDd158A2e3b13e9badaeABaFc5516e95e8C7")
)

// Well-known AssetIDs
var (
	// Sei EVM mainnet
	IDSeiNative = NewNativeAssetID(ChainIDSeiMainnet)
	IDSeiUSDC   = NewTokenAssetID(ChainIDSeiMainnet, AddrUSDCSei)
	IDSeiWSEI   = NewTokenAssetID(ChainIDSeiMainnet, AddrWSEISei)

	// Off-chain market symbols quoted by venue feeds
	IDETH  = NewOffchainAssetID("ETH")
	IDBTC  = NewOffchainAssetID("BTC")
	IDATOM = NewOffchainAssetID("ATOM")
	IDOSMO = NewOffchainAssetID("OSMO")
)

// Well-known Assets (pre-created instances)
var (
	SEI  = NewAssetWithName(IDSeiNative, "SEI", "Sei", 18)
	USDC = NewAssetWithName(IDSeiUSDC, "USDC", "USD Coin", 6)
	WSEI = NewAssetWithName(IDSeiWSEI, "WSEI", "Wrapped Sei", 18)

	ETH  = NewAssetWithName(IDETH, "ETH", "Ethereum", 18)
	BTC  = NewAssetWithName(IDBTC, "BTC", "Bitcoin", 8)
	ATOM = NewAssetWithName(IDATOM, "ATOM", "Cosmos Hub", 6)
	OSMO = NewAssetWithName(IDOSMO, "OSMO", "Osmosis", 6)
)

// DefaultRegistry returns a registry pre-populated with well-known assets.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Sei EVM mainnet
	r.Register(SEI)
	r.Register(USDC)
	r.Register(WSEI)

	// Off-chain market symbols
	r.Register(ETH)
	r.Register(BTC)
	r.Register(ATOM)
	r.Register(OSMO)

	return r
}

// MustNewToken creates a new ERC20 token asset with the given parameters.
// This is a convenience function for registering custom tokens.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	id := NewTokenAssetID(chainID, address)
	return NewAssetWithName(id, symbol, name, decimals)
}

// MustNewNative creates a new native coin asset.
func MustNewNative(chainID uint64, symbol, name string, decimals uint8) *Asset {
	id := NewNativeAssetID(chainID)
	return NewAssetWithName(id, symbol, name, decimals)
}
