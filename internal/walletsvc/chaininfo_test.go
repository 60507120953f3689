package walletsvc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/WHTechno/wsxplore/internal/chainregistry"
)

func TestToChainInfo(t *testing.T) {
	t.Run("known chain uses the built-in table", func(t *testing.T) {
		info := ToChainInfo(testChain("oro_1336-1"))

		assert.Equal(t, "oro_1336-1", info.ChainID)
		assert.Equal(t, uint32(60), info.BIP44.CoinType)
		assert.Equal(t, Bech32Config{
			AccAddr:  "kii",
			AccPub:   "kiipub",
			ValAddr:  "kiivaloper",
			ValPub:   "kiivaloperpub",
			ConsAddr: "kiivalcons",
			ConsPub:  "kiivalconspub",
		}, info.Bech32Config)
		assert.Equal(t, Currency{CoinDenom: "KII", CoinMinimalDenom: "ukii", CoinDecimals: 6}, info.StakeCurrency)
		assert.Equal(t, []Currency{info.StakeCurrency}, info.Currencies)
		assert.Equal(t, &GasPriceStep{Low: 0.01, Average: 0.025, High: 0.04}, info.FeeCurrencies[0].GasPriceStep)
	})

	t.Run("chain metadata fills unknown chains", func(t *testing.T) {
		chain := testChain("juno-1")
		chain.Bech32Prefix = "juno"
		chain.CoinType = 118
		chain.Denom = "JUNO"
		chain.MinimalDenom = "ujuno"
		chain.Decimals = 6

		info := ToChainInfo(chain)

		assert.Equal(t, "juno", info.Bech32Config.AccAddr)
		assert.Equal(t, "JUNO", info.StakeCurrency.CoinDenom)
		assert.Equal(t, "ujuno", info.StakeCurrency.CoinMinimalDenom)
	})

	t.Run("fallbacks for bare chains", func(t *testing.T) {
		info := ToChainInfo(chainregistry.Chain{ChainID: "stargaze-1", ChainName: "Stargaze"})

		assert.Equal(t, "stargaze", info.Bech32Config.AccAddr)
		assert.Equal(t, "stargazevaloper", info.Bech32Config.ValAddr)
		assert.Equal(t, uint32(118), info.BIP44.CoinType)
		assert.Equal(t, Currency{CoinDenom: "TOKEN", CoinMinimalDenom: "utoken", CoinDecimals: 6}, info.StakeCurrency)
	})
}
