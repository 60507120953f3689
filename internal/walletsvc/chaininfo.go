package walletsvc

import (
	"strings"

	"github.com/WHTechno/wsxplore/internal/chainregistry"
)

const (
	fallbackCoinType     = 118
	fallbackDenom        = "TOKEN"
	fallbackMinimalDenom = "utoken"
	fallbackDecimals     = 6
)

// chainDefaults are wallet parameters of chains whose registry entry may
// not carry them.
type chainDefaults struct {
	prefix       string
	coinType     uint32
	denom        string
	minimalDenom string
}

var knownChains = map[string]chainDefaults{
	"cosmoshub-4":       {prefix: "cosmos", coinType: 118, denom: "ATOM", minimalDenom: "uatom"},
	"axone-1":           {prefix: "axone", coinType: 118, denom: "AXONE", minimalDenom: "uaxone"},
	"oro_1336-1":        {prefix: "kii", coinType: 60, denom: "KII", minimalDenom: "ukii"},
	"lumera-testnet-2":  {prefix: "lumera", coinType: 118, denom: "LUMERA", minimalDenom: "ulumera"},
	"theta-testnet-001": {prefix: "cosmos", coinType: 118, denom: "ATOM", minimalDenom: "uatom"},
}

// firstNonEmpty returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ToChainInfo converts a registry chain into the provider's registration
// schema. Values come from the built-in table, then the chain's own
// metadata, then generic fallbacks.
func ToChainInfo(chain chainregistry.Chain) ChainInfo {
	known := knownChains[chain.ChainID]

	prefix := firstNonEmpty(known.prefix, chain.Bech32Prefix, strings.Split(chain.ChainID, "-")[0])

	coinType := known.coinType
	if coinType == 0 {
		coinType = chain.CoinType
	}
	if coinType == 0 {
		coinType = fallbackCoinType
	}

	decimals := chain.Decimals
	if known.denom != "" || decimals == 0 {
		decimals = fallbackDecimals
	}

	currency := Currency{
		CoinDenom:        firstNonEmpty(known.denom, chain.Denom, fallbackDenom),
		CoinMinimalDenom: firstNonEmpty(known.minimalDenom, chain.MinimalDenom, fallbackMinimalDenom),
		CoinDecimals:     decimals,
	}

	fee := currency
	fee.GasPriceStep = &GasPriceStep{Low: 0.01, Average: 0.025, High: 0.04}

	return ChainInfo{
		ChainID:   chain.ChainID,
		ChainName: chain.ChainName,
		RPC:       chain.RPC,
		REST:      chain.REST,
		BIP44:     BIP44{CoinType: coinType},
		Bech32Config: Bech32Config{
			AccAddr:  prefix,
			AccPub:   prefix + "pub",
			ValAddr:  prefix + "valoper",
			ValPub:   prefix + "valoperpub",
			ConsAddr: prefix + "valcons",
			ConsPub:  prefix + "valconspub",
		},
		Currencies:    []Currency{currency},
		FeeCurrencies: []Currency{fee},
		StakeCurrency: currency,
	}
}
