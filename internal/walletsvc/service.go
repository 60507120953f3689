// Package walletsvc manages the wallet session of the explorer: connecting
// to a wallet provider, registering chains with it and tracking per-chain
// balances of the connected account.
package walletsvc

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
	"github.com/WHTechno/wsxplore/internal/pkg/logger"
)

var (
	// ErrProviderMissing is returned when no wallet provider is installed.
	ErrProviderMissing = errors.New("wallet provider is not installed")

	// ErrNotConnected is returned by balance queries before Connect.
	ErrNotConnected = errors.New("wallet is not connected")

	// ErrProviderRejected wraps a refusal of the provider, such as a declined
	// chain registration.
	ErrProviderRejected = errors.New("wallet provider rejected the request")

	// ErrNoAccounts is returned when the provider exposes no account.
	ErrNoAccounts = errors.New("wallet provider returned no accounts")

	// ErrNetworkFailure is the chain data network failure, re-exported for
	// callers that only import this package.
	ErrNetworkFailure = chaindata.ErrNetworkFailure
)

// BalanceReader queries bank balances of an address on a chain.
type BalanceReader interface {
	SearchAddress(ctx context.Context, chain chainregistry.Chain, address string) ([]chaindata.Balance, error)
}

// ChainLookup resolves chain ids.
type ChainLookup interface {
	ByID(id string) (chainregistry.Chain, error)
}

// Selection is the current chain selection.
type Selection interface {
	Current() (chainregistry.Chain, bool)
	Subscribe(ctx context.Context) <-chan chainregistry.Chain
}

// Status is a snapshot of the connection state.
type Status struct {
	Connected bool   `json:"isConnected"`
	Address   string `json:"address"`
}

// BulkResult reports a bulk chain registration.
type BulkResult struct {
	Attempted int `json:"attempted"`
	Failed    int `json:"failed"`
}

// Service defines the wallet adapter.
type Service interface {
	// IsAvailable reports whether a wallet provider is installed.
	IsAvailable() bool

	// Connect enables the default chain and takes its first account as the
	// session address. It does not fetch balances.
	//
	// Returns:
	//   - the connected address.
	//   - ErrProviderMissing, ErrProviderRejected or ErrNoAccounts on failure.
	Connect(ctx context.Context) (string, error)

	// Disconnect clears the session unconditionally. The provider-side
	// disconnect is best effort.
	Disconnect(ctx context.Context)

	// AddChain registers chain with the provider.
	AddChain(ctx context.Context, chain chainregistry.Chain) error

	// AddAllChains registers every chain concurrently. Partial failures are
	// counted, never returned.
	AddAllChains(ctx context.Context, chains []chainregistry.Chain) BulkResult

	// GetBalance returns the balances of the session account on chain.
	//
	// Returns:
	//   - ErrNotConnected before Connect.
	//   - an error wrapping ErrProviderRejected or ErrNetworkFailure.
	GetBalance(ctx context.Context, chain chainregistry.Chain) ([]chaindata.Balance, error)

	// RefreshBalance updates the stored balances of chainIDs, or of the
	// selected chain when none is given. A chain that fails is stored with
	// an empty list and its error is joined into the result. No-op while
	// disconnected.
	RefreshBalance(ctx context.Context, chainIDs ...string) error

	// WatchSelection refreshes the balance of every newly selected chain
	// while connected. It blocks until ctx is done.
	WatchSelection(ctx context.Context, sel Selection)

	// Status returns a snapshot of the connection state.
	Status() Status

	// Balances returns a copy of the stored balances keyed by chain id.
	Balances() map[string][]chaindata.Balance
}

type config struct {
	defaultChainID string
	chains         ChainLookup
	selection      Selection
	concurrency    int
}

// Option configures the service.
type Option func(*config)

// WithDefaultChainID sets the chain enabled by Connect.
//
// Default: "cosmoshub-4".
func WithDefaultChainID(id string) Option {
	return func(c *config) {
		c.defaultChainID = id
	}
}

// WithChainLookup lets RefreshBalance resolve explicit chain ids.
func WithChainLookup(l ChainLookup) Option {
	return func(c *config) {
		c.chains = l
	}
}

// WithSelection sets the selection RefreshBalance falls back to.
func WithSelection(s Selection) Option {
	return func(c *config) {
		c.selection = s
	}
}

// WithConcurrency bounds parallel provider and balance calls.
//
// Default: 5.
func WithConcurrency(n int) Option {
	return func(c *config) {
		c.concurrency = n
	}
}

// service is the concrete implementation of the Service interface.
type service struct {
	provider Provider
	reader   BalanceReader
	cfg      config

	mu        sync.RWMutex
	connected bool
	address   string
	balances  map[string][]chaindata.Balance
}

// Ensure compile-time compliance with the Service interface.
var _ Service = (*service)(nil)

// New creates the wallet adapter. A nil provider means no wallet is
// installed.
func New(provider Provider, reader BalanceReader, opts ...Option) *service {
	cfg := config{
		defaultChainID: "cosmoshub-4",
		concurrency:    5,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		provider: provider,
		reader:   reader,
		cfg:      cfg,
		balances: make(map[string][]chaindata.Balance),
	}
}

func (s *service) IsAvailable() bool {
	return s.provider != nil
}

// firstAccount enables chainID and returns the address of its first account.
func (s *service) firstAccount(ctx context.Context, chainID string) (string, error) {
	if err := s.provider.Enable(ctx, chainID); err != nil {
		return "", fmt.Errorf("%w: enable %s: %w", ErrProviderRejected, chainID, err)
	}

	accounts, err := s.provider.Accounts(ctx, chainID)
	if err != nil {
		return "", fmt.Errorf("%w: accounts of %s: %w", ErrProviderRejected, chainID, err)
	}

	if len(accounts) == 0 || accounts[0].Address == "" {
		return "", fmt.Errorf("%w: %s", ErrNoAccounts, chainID)
	}

	return accounts[0].Address, nil
}

func (s *service) Connect(ctx context.Context) (string, error) {
	if !s.IsAvailable() {
		return "", ErrProviderMissing
	}

	address, err := s.firstAccount(ctx, s.cfg.defaultChainID)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.connected = true
	s.address = address
	s.mu.Unlock()

	logger.Info(ctx, "wallet connected", "address", address, "chain.id", s.cfg.defaultChainID)
	return address, nil
}

func (s *service) Disconnect(ctx context.Context) {
	s.mu.Lock()
	s.connected = false
	s.address = ""
	s.balances = make(map[string][]chaindata.Balance)
	s.mu.Unlock()

	if s.provider == nil {
		return
	}

	if err := s.provider.Disconnect(ctx); err != nil {
		logger.Warn(ctx, "wallet provider disconnect failed", "error", err)
	}
}

func (s *service) AddChain(ctx context.Context, chain chainregistry.Chain) error {
	if !s.IsAvailable() {
		return ErrProviderMissing
	}

	if err := s.provider.SuggestChain(ctx, ToChainInfo(chain)); err != nil {
		return fmt.Errorf("%w: add %s: %w", ErrProviderRejected, chain.ChainID, err)
	}

	return nil
}

func (s *service) AddAllChains(ctx context.Context, chains []chainregistry.Chain) BulkResult {
	var (
		g      errgroup.Group
		failed atomic.Int32
	)
	g.SetLimit(s.cfg.concurrency)

	for _, chain := range chains {
		g.Go(func() error {
			if err := s.AddChain(ctx, chain); err != nil {
				failed.Add(1)
				logger.Warn(ctx, "chain registration failed", "chain.id", chain.ChainID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := BulkResult{Attempted: len(chains), Failed: int(failed.Load())}
	logger.Info(ctx, "chains added to wallet", "attempted", result.Attempted, "failed", result.Failed)

	return result
}

func (s *service) GetBalance(ctx context.Context, chain chainregistry.Chain) ([]chaindata.Balance, error) {
	if !s.Status().Connected {
		return nil, ErrNotConnected
	}

	address, err := s.firstAccount(ctx, chain.ChainID)
	if err != nil {
		return nil, err
	}

	balances, err := s.reader.SearchAddress(ctx, chain, address)
	if err != nil {
		if errors.Is(err, ErrNetworkFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrNetworkFailure, err)
	}

	return balances, nil
}

// refreshTargets resolves the chains RefreshBalance works on.
func (s *service) refreshTargets(ctx context.Context, chainIDs []string) []chainregistry.Chain {
	if len(chainIDs) == 0 {
		if s.cfg.selection == nil {
			return nil
		}
		if chain, ok := s.cfg.selection.Current(); ok {
			return []chainregistry.Chain{chain}
		}
		return nil
	}

	if s.cfg.chains == nil {
		logger.Warn(ctx, "balance refresh without chain lookup", "chains", chainIDs)
		return nil
	}

	targets := make([]chainregistry.Chain, 0, len(chainIDs))
	for _, id := range chainIDs {
		chain, err := s.cfg.chains.ByID(id)
		if err != nil {
			logger.Warn(ctx, "balance refresh of unknown chain", "chain.id", id, "error", err)
			continue
		}
		targets = append(targets, chain)
	}
	return targets
}

func (s *service) RefreshBalance(ctx context.Context, chainIDs ...string) error {
	status := s.Status()
	if !status.Connected {
		return nil
	}

	return s.refresh(ctx, status.Address, s.refreshTargets(ctx, chainIDs))
}

// refresh fetches and stores the balances of targets for the session of
// address.
func (s *service) refresh(ctx context.Context, address string, targets []chainregistry.Chain) error {
	var (
		g    errgroup.Group
		errs = make([]error, len(targets))
	)
	g.SetLimit(s.cfg.concurrency)

	for i, chain := range targets {
		g.Go(func() error {
			balances, err := s.GetBalance(ctx, chain)
			if err != nil {
				logger.Warn(ctx, "balance refresh failed", "chain.id", chain.ChainID, "error", err)
				errs[i] = err
				balances = []chaindata.Balance{}
			}

			s.store(address, chain.ChainID, balances)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// store records balances unless the session changed since address was read.
func (s *service) store(address, chainID string, balances []chaindata.Balance) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected || s.address != address {
		return
	}
	s.balances[chainID] = balances
}

func (s *service) WatchSelection(ctx context.Context, sel Selection) {
	for chain := range sel.Subscribe(ctx) {
		status := s.Status()
		if !status.Connected {
			continue
		}

		if err := s.refresh(ctx, status.Address, []chainregistry.Chain{chain}); err != nil {
			logger.Debug(ctx, "selected chain balance unavailable", "chain.id", chain.ChainID, "error", err)
		}
	}
}

func (s *service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{Connected: s.connected, Address: s.address}
}

func (s *service) Balances() map[string][]chaindata.Balance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := maps.Clone(s.balances)
	for id, balances := range out {
		out[id] = slices.Clone(balances)
	}
	return out
}
