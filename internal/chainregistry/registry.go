package chainregistry

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/WHTechno/wsxplore/internal/pkg/types"
	"github.com/WHTechno/wsxplore/internal/pkg/validator"
)

var (
	// ErrChainNotFound is returned by lookups when no chain matches.
	ErrChainNotFound = errors.New("chain not found")

	// ErrDuplicateChain is returned by Load when a chain id appears twice.
	ErrDuplicateChain = errors.New("duplicate chain id")
)

//go:embed chains.yaml
var defaultChains []byte

// Registry is a read-only index over a ChainData. It is safe for concurrent use.
type Registry struct {
	data    ChainData
	byID    map[string]Chain
	network map[string]Network
}

// Load reads the chains file at path. An empty path loads the embedded
// default list.
func Load(path string) (*Registry, error) {
	raw := defaultChains
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read chains file: %w", err)
		}
		raw = b
	}

	var data ChainData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse chains file: %w", err)
	}

	return New(data)
}

// New validates data and builds a Registry from it. Chains without an
// explicit type get their family derived from the chain id.
func New(data ChainData) (*Registry, error) {
	if err := validator.Validate(data); err != nil {
		return nil, err
	}

	r := &Registry{
		data: ChainData{
			Mainnet: normalize(data.Mainnet),
			Testnet: normalize(data.Testnet),
		},
		byID:    make(map[string]Chain, len(data.Mainnet)+len(data.Testnet)),
		network: make(map[string]Network, len(data.Mainnet)+len(data.Testnet)),
	}

	seen := types.NewSet[string]()
	var errs []error
	index := func(n Network, chains []Chain) {
		for _, c := range chains {
			if seen.Has(c.ChainID) {
				errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateChain, c.ChainID))
				continue
			}
			seen.Add(c.ChainID)
			r.byID[c.ChainID] = c
			r.network[c.ChainID] = n
		}
	}
	index(Mainnet, r.data.Mainnet)
	index(Testnet, r.data.Testnet)

	if len(errs) > 0 {
		return nil, errors.Join(append([]error{validator.ErrValidationFailed}, errs...)...)
	}

	return r, nil
}

func normalize(chains []Chain) []Chain {
	out := slices.Clone(chains)
	for i := range out {
		if out[i].Family == "" {
			out[i].Family = deriveFamily(out[i].ChainID)
		}
	}
	return out
}

// All returns every chain, mainnet first.
func (r *Registry) All() []Chain {
	return slices.Concat(r.data.Mainnet, r.data.Testnet)
}

// Data returns a copy of the registry content.
func (r *Registry) Data() ChainData {
	return ChainData{
		Mainnet: slices.Clone(r.data.Mainnet),
		Testnet: slices.Clone(r.data.Testnet),
	}
}

// Network returns the chains of network n in file order.
func (r *Registry) Network(n Network) []Chain {
	if n == Testnet {
		return slices.Clone(r.data.Testnet)
	}
	return slices.Clone(r.data.Mainnet)
}

// ByID returns the chain registered under id.
func (r *Registry) ByID(id string) (Chain, error) {
	c, ok := r.byID[id]
	if !ok {
		return Chain{}, fmt.Errorf("%w: %s", ErrChainNotFound, id)
	}
	return c, nil
}

// BySlug resolves a route segment. It matches either a chain id or the
// slug of a chain name, case-insensitively.
func (r *Registry) BySlug(slug string) (Chain, error) {
	if c, ok := r.byID[slug]; ok {
		return c, nil
	}

	want := strings.ToLower(slug)
	for _, c := range r.All() {
		if strings.ToLower(c.ChainID) == want || Slug(c) == want {
			return c, nil
		}
	}

	return Chain{}, fmt.Errorf("%w: %s", ErrChainNotFound, slug)
}

// NetworkOf returns the network a chain belongs to. Unregistered chains are
// classified from their id and name.
func (r *Registry) NetworkOf(c Chain) Network {
	if n, ok := r.network[c.ChainID]; ok {
		return n
	}
	if looksLikeTestnet(c) {
		return Testnet
	}
	return Mainnet
}

// IsTestnet reports whether c belongs to the testnet list.
func (r *Registry) IsTestnet(c Chain) bool {
	return r.NetworkOf(c) == Testnet
}
