package walletsvc

import "context"

// Account is one offline-signer account of the wallet provider.
type Account struct {
	Address string `json:"address"`
	Algo    string `json:"algo"`
	PubKey  []byte `json:"pubkey"`
}

// Currency describes a coin in the provider's chain-registration schema.
type Currency struct {
	CoinDenom        string        `json:"coinDenom"`
	CoinMinimalDenom string        `json:"coinMinimalDenom"`
	CoinDecimals     uint8         `json:"coinDecimals"`
	CoinGeckoID      string        `json:"coinGeckoId,omitempty"`
	GasPriceStep     *GasPriceStep `json:"gasPriceStep,omitempty"`
}

// GasPriceStep holds the suggested gas prices of a fee currency.
type GasPriceStep struct {
	Low     float64 `json:"low"`
	Average float64 `json:"average"`
	High    float64 `json:"high"`
}

// Bech32Config lists the address prefixes of a chain.
type Bech32Config struct {
	AccAddr  string `json:"bech32PrefixAccAddr"`
	AccPub   string `json:"bech32PrefixAccPub"`
	ValAddr  string `json:"bech32PrefixValAddr"`
	ValPub   string `json:"bech32PrefixValPub"`
	ConsAddr string `json:"bech32PrefixConsAddr"`
	ConsPub  string `json:"bech32PrefixConsPub"`
}

// BIP44 holds the HD derivation coin type.
type BIP44 struct {
	CoinType uint32 `json:"coinType"`
}

// ChainInfo is the chain-registration document accepted by the provider.
type ChainInfo struct {
	ChainID       string       `json:"chainId"`
	ChainName     string       `json:"chainName"`
	RPC           string       `json:"rpc"`
	REST          string       `json:"rest"`
	BIP44         BIP44        `json:"bip44"`
	Bech32Config  Bech32Config `json:"bech32Config"`
	Currencies    []Currency   `json:"currencies"`
	FeeCurrencies []Currency   `json:"feeCurrencies"`
	StakeCurrency Currency     `json:"stakeCurrency"`
}

// Provider is the wallet extension boundary.
type Provider interface {
	// Enable asks the wallet to expose chainID to the application.
	Enable(ctx context.Context, chainID string) error

	// Accounts returns the offline-signer accounts of chainID.
	Accounts(ctx context.Context, chainID string) ([]Account, error)

	// SuggestChain registers a chain the wallet does not know yet.
	SuggestChain(ctx context.Context, info ChainInfo) error

	// Disconnect ends the wallet session.
	Disconnect(ctx context.Context) error
}
