// Package localkey is a wallet provider backed by a single secp256k1 key
// held in memory. It stands in for a browser wallet extension when the
// explorer runs as a service or CLI.
package localkey

import (
	"context"
	"crypto/ecdsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // cosmos account addresses are ripemd160 hashes

	"github.com/WHTechno/wsxplore/internal/walletsvc"
)

const (
	// coinTypeEthermint selects keccak (Ethereum style) address derivation.
	coinTypeEthermint = 60

	algoSecp256k1    = "secp256k1"
	algoEthSecp256k1 = "eth_secp256k1"
)

var (
	// ErrUnknownChain is returned for chains neither built in nor suggested.
	ErrUnknownChain = errors.New("chain is not known to the wallet")

	// ErrNotEnabled is returned by Accounts before Enable.
	ErrNotEnabled = errors.New("chain is not enabled")
)

// provider implements walletsvc.Provider.
type provider struct {
	key *ecdsa.PrivateKey

	mu      sync.RWMutex
	chains  map[string]walletsvc.ChainInfo
	enabled map[string]struct{}
}

var _ walletsvc.Provider = (*provider)(nil)

// Option configures the provider.
type Option func(*provider)

// WithChains registers built-in chains.
func WithChains(infos ...walletsvc.ChainInfo) Option {
	return func(p *provider) {
		for _, info := range infos {
			p.chains[info.ChainID] = info
		}
	}
}

// New creates a provider from a hex-encoded secp256k1 private key.
func New(hexKey string, opts ...Option) (*provider, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid wallet key: %w", err)
	}

	return newProvider(key, opts...), nil
}

func newProvider(key *ecdsa.PrivateKey, opts ...Option) *provider {
	p := &provider{
		key:     key,
		chains:  make(map[string]walletsvc.ChainInfo),
		enabled: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Enable implements walletsvc.Provider.
func (p *provider) Enable(_ context.Context, chainID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.chains[chainID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChain, chainID)
	}

	p.enabled[chainID] = struct{}{}
	return nil
}

// Accounts implements walletsvc.Provider. The single account address is
// derived with the chain's prefix and coin type.
func (p *provider) Accounts(_ context.Context, chainID string) ([]walletsvc.Account, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if _, ok := p.enabled[chainID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotEnabled, chainID)
	}

	info := p.chains[chainID]
	pubKey := crypto.CompressPubkey(&p.key.PublicKey)

	var (
		raw  []byte
		algo string
	)
	if info.BIP44.CoinType == coinTypeEthermint {
		raw = crypto.PubkeyToAddress(p.key.PublicKey).Bytes()
		algo = algoEthSecp256k1
	} else {
		raw = cosmosAddress(pubKey)
		algo = algoSecp256k1
	}

	address, err := encodeBech32(info.Bech32Config.AccAddr, raw)
	if err != nil {
		return nil, err
	}

	return []walletsvc.Account{{Address: address, Algo: algo, PubKey: pubKey}}, nil
}

// SuggestChain implements walletsvc.Provider.
func (p *provider) SuggestChain(_ context.Context, info walletsvc.ChainInfo) error {
	if info.ChainID == "" || info.Bech32Config.AccAddr == "" {
		return errors.New("chain info without chain id or account prefix")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.chains[info.ChainID] = info
	return nil
}

// Disconnect implements walletsvc.Provider. Every chain has to be enabled
// again afterwards.
func (p *provider) Disconnect(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.enabled = make(map[string]struct{})
	return nil
}

// cosmosAddress is ripemd160(sha256(compressed pubkey)).
func cosmosAddress(pubKey []byte) []byte {
	sum := sha256.Sum256(pubKey)
	h := ripemd160.New()
	h.Write(sum[:])
	return h.Sum(nil)
}

func encodeBech32(prefix string, raw []byte) (string, error) {
	conv, err := bech32.ConvertBits(raw, 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(prefix, conv)
}
