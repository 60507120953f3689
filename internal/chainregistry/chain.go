// Package chainregistry holds the static list of chains the explorer knows
// about, split by network, and the lookups used to resolve a chain from an
// id, a route slug or a network.
package chainregistry

import (
	"regexp"
	"strings"
)

// Family is the protocol family a chain speaks. It decides which backend
// answers data queries for the chain.
type Family string

const (
	FamilyCosmos Family = "cosmos" // Cosmos-SDK REST (LCD) endpoints
	FamilyEVM    Family = "evm"    // Ethereum JSON-RPC endpoints
)

// Network separates production chains from test chains.
type Network string

const (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
)

// Chain describes one chain entry. Values are immutable after Load.
type Chain struct {
	ChainID   string `yaml:"chainId" json:"chainId" validate:"required"`
	ChainName string `yaml:"chainName" json:"chainName" validate:"required"`
	RPC       string `yaml:"rpc" json:"rpc" validate:"required,url"`
	REST      string `yaml:"rest" json:"rest" validate:"required,url"`
	GRPC      string `yaml:"grpc,omitempty" json:"grpc,omitempty"`
	Logo      string `yaml:"logo,omitempty" json:"logo,omitempty"`
	Family    Family `yaml:"type,omitempty" json:"type" validate:"omitempty,oneof=cosmos evm"`

	// Wallet metadata. Zero values fall back to defaults at registration time.
	Bech32Prefix string `yaml:"bech32Prefix,omitempty" json:"bech32Prefix,omitempty"`
	CoinType     uint32 `yaml:"coinType,omitempty" json:"coinType,omitempty"`
	Denom        string `yaml:"denom,omitempty" json:"denom,omitempty"`
	MinimalDenom string `yaml:"minimalDenom,omitempty" json:"minimalDenom,omitempty"`
	Decimals     uint8  `yaml:"decimals,omitempty" json:"decimals,omitempty"`
}

// IsEVM reports whether the chain is served by the JSON-RPC backend.
func (c Chain) IsEVM() bool {
	return c.Family == FamilyEVM
}

// ChainData is the registry content as written in the chains file.
type ChainData struct {
	Mainnet []Chain `yaml:"mainnet" json:"mainnet" validate:"dive"`
	Testnet []Chain `yaml:"testnet" json:"testnet" validate:"dive"`
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug returns the route segment of a chain: its name lowercased with every
// run of whitespace replaced by a dash ("Cosmos Hub" -> "cosmos-hub").
func Slug(c Chain) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(c.ChainName)), "-")
}

// deriveFamily resolves a missing family from the chain id.
func deriveFamily(chainID string) Family {
	if strings.Contains(strings.ToLower(chainID), "evm") {
		return FamilyEVM
	}
	return FamilyCosmos
}

// looksLikeTestnet is the fallback used for chains that are not registered.
func looksLikeTestnet(c Chain) bool {
	id := strings.ToLower(c.ChainID)
	return strings.Contains(id, "testnet") ||
		strings.Contains(id, "test") ||
		strings.Contains(strings.ToLower(c.ChainName), "testnet")
}
