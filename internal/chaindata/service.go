// Package chaindata answers explorer queries (blocks, transactions,
// validators, balances, search) for any registered chain, dispatching to a
// Cosmos-SDK REST or EVM JSON-RPC backend depending on the chain family.
//
// The service holds no chain selection: every operation receives the chain
// it runs against, so a single instance serves concurrent requests for
// different chains.
package chaindata

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/WHTechno/wsxplore/internal/chainregistry"
	"github.com/WHTechno/wsxplore/internal/pkg/logger"
)

const instrumentationName = "github.com/WHTechno/wsxplore/internal/chaindata"

// Service is the chain data adapter.
type Service interface {
	GetLatestBlocks(ctx context.Context, chain chainregistry.Chain) ([]Block, error)
	GetTransactions(ctx context.Context, chain chainregistry.Chain, page int) ([]Transaction, error)
	GetValidators(ctx context.Context, chain chainregistry.Chain) ([]Validator, error)
	GetValidatorStats(ctx context.Context, chain chainregistry.Chain) (ValidatorStats, error)
	GetValidatorUptime(ctx context.Context, chain chainregistry.Chain, operatorAddress string) (ValidatorUptime, error)
	SearchTransaction(ctx context.Context, chain chainregistry.Chain, hash string) (Transaction, error)
	SearchAddress(ctx context.Context, chain chainregistry.Chain, address string) ([]Balance, error)
	GetChainInfo(ctx context.Context, chain chainregistry.Chain) (json.RawMessage, error)
	GetStakingPool(ctx context.Context, chain chainregistry.Chain) (json.RawMessage, error)
	Search(ctx context.Context, chain chainregistry.Chain, query string) (SearchResult, error)
	GetDashboard(ctx context.Context, chain chainregistry.Chain) (Dashboard, error)

	// Bind returns a view that runs every operation against chain.
	Bind(chain chainregistry.Chain) ChainView
}

type service struct {
	dialer   Dialer
	identity IdentityResolver

	uptimeBlocks     int
	logoConcurrency  int
	topValidatorSize int

	mu       sync.Mutex
	backends map[string]backends

	tracer   trace.Tracer
	failures metric.Int64Counter
}

var _ Service = (*service)(nil)

type config struct {
	identity         IdentityResolver
	uptimeBlocks     int
	logoConcurrency  int
	topValidatorSize int
}

// Option configures the service.
type Option func(*config)

// WithIdentityResolver enables validator logo lookups.
func WithIdentityResolver(r IdentityResolver) Option {
	return func(c *config) {
		c.identity = r
	}
}

// WithUptimeBlocks sets how many recent blocks GetValidatorUptime inspects.
// Default: 100.
func WithUptimeBlocks(n int) Option {
	return func(c *config) {
		c.uptimeBlocks = n
	}
}

// WithLogoConcurrency bounds the parallel identity lookups. Default: 10.
func WithLogoConcurrency(n int) Option {
	return func(c *config) {
		c.logoConcurrency = n
	}
}

// New creates the service. Backends are dialed lazily, once per chain id.
func New(dialer Dialer, opts ...Option) *service {
	cfg := config{
		uptimeBlocks:     100,
		logoConcurrency:  10,
		topValidatorSize: 5,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	failures, err := otel.Meter(instrumentationName).Int64Counter(
		"wsxplore.chaindata.failures",
		metric.WithDescription("Chain data operations that failed upstream"),
	)
	if err != nil {
		logger.Warn(context.Background(), "failure counter unavailable", "error", err)
	}

	return &service{
		dialer:           dialer,
		identity:         cfg.identity,
		uptimeBlocks:     cfg.uptimeBlocks,
		logoConcurrency:  cfg.logoConcurrency,
		topValidatorSize: cfg.topValidatorSize,
		backends:         make(map[string]backends),
		tracer:           otel.Tracer(instrumentationName),
		failures:         failures,
	}
}

func (s *service) backendsFor(chain chainregistry.Chain) backends {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b, ok := s.backends[chain.ChainID]; ok {
		return b
	}

	cosmos := s.dialer.Cosmos(chain)
	b := backends{blocks: cosmos, staking: cosmos}
	if chain.IsEVM() {
		b.blocks = s.dialer.EVM(chain)
	}

	s.backends[chain.ChainID] = b
	return b
}

// observe starts the span of one operation and returns the function that
// records its outcome. Failures are classified, counted and logged.
func (s *service) observe(ctx context.Context, operation string, chain chainregistry.Chain) (context.Context, func(*error)) {
	attrs := []attribute.KeyValue{
		attribute.String("chain.id", chain.ChainID),
		attribute.String("chain.family", string(chain.Family)),
		attribute.String("operation", operation),
	}

	ctx, span := s.tracer.Start(ctx, "chaindata."+operation, trace.WithAttributes(attrs...))
	ctx = logger.Derive(ctx, "chain.id", chain.ChainID, "operation", operation)

	return ctx, func(errp *error) {
		defer span.End()

		if *errp == nil {
			return
		}

		*errp = classify(*errp)
		span.RecordError(*errp)
		span.SetStatus(codes.Error, (*errp).Error())

		if errors.Is(*errp, ErrNotFound) {
			return
		}
		if s.failures != nil {
			s.failures.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
		logger.Warn(ctx, "chain data request failed", "error", *errp)
	}
}

// GetLatestBlocks returns the latest blocks, highest first. Cosmos chains
// return a single block, EVM chains up to ten.
func (s *service) GetLatestBlocks(ctx context.Context, chain chainregistry.Chain) (blocks []Block, err error) {
	ctx, done := s.observe(ctx, "GetLatestBlocks", chain)
	defer done(&err)

	return s.backendsFor(chain).blocks.LatestBlocks(ctx)
}

// GetTransactions returns one page of recent transactions. Pages below 1
// are treated as the first page.
func (s *service) GetTransactions(ctx context.Context, chain chainregistry.Chain, page int) (txs []Transaction, err error) {
	ctx, done := s.observe(ctx, "GetTransactions", chain)
	defer done(&err)

	return s.backendsFor(chain).blocks.Transactions(ctx, max(page, 1))
}

// GetValidators returns the validator set with logos resolved best effort.
func (s *service) GetValidators(ctx context.Context, chain chainregistry.Chain) (validators []Validator, err error) {
	ctx, done := s.observe(ctx, "GetValidators", chain)
	defer done(&err)

	return s.validators(ctx, chain)
}

func (s *service) validators(ctx context.Context, chain chainregistry.Chain) ([]Validator, error) {
	if chain.IsEVM() {
		return nil, ErrUnsupported
	}

	validators, err := s.backendsFor(chain).staking.Validators(ctx)
	if err != nil {
		return nil, err
	}

	s.resolveLogos(ctx, validators)
	return validators, nil
}

// resolveLogos fills Logo in place. Lookup failures leave the logo empty.
func (s *service) resolveLogos(ctx context.Context, validators []Validator) {
	if s.identity == nil {
		return
	}

	var g errgroup.Group
	g.SetLimit(s.logoConcurrency)

	for i := range validators {
		identity := validators[i].Identity
		if identity == "" {
			continue
		}

		g.Go(func() error {
			logo, err := s.identity.Logo(ctx, identity)
			if err != nil {
				logger.Debug(ctx, "identity lookup failed", "validator.identity", identity, "error", err)
				return nil
			}
			validators[i].Logo = logo
			return nil
		})
	}

	_ = g.Wait()
}

// GetValidatorStats counts validators by status.
func (s *service) GetValidatorStats(ctx context.Context, chain chainregistry.Chain) (stats ValidatorStats, err error) {
	ctx, done := s.observe(ctx, "GetValidatorStats", chain)
	defer done(&err)

	validators, err := s.validators(ctx, chain)
	if err != nil {
		return ValidatorStats{}, err
	}

	return CountValidators(validators), nil
}

// GetValidatorUptime returns the recent signing records of one validator.
func (s *service) GetValidatorUptime(ctx context.Context, chain chainregistry.Chain, operatorAddress string) (uptime ValidatorUptime, err error) {
	ctx, done := s.observe(ctx, "GetValidatorUptime", chain)
	defer done(&err)

	if chain.IsEVM() {
		return ValidatorUptime{}, ErrUnsupported
	}

	operatorAddress = strings.TrimSpace(operatorAddress)
	if operatorAddress == "" {
		return ValidatorUptime{}, ErrNotFound
	}

	return s.backendsFor(chain).staking.ValidatorUptime(ctx, operatorAddress, s.uptimeBlocks)
}

// SearchTransaction looks a transaction up by hash.
func (s *service) SearchTransaction(ctx context.Context, chain chainregistry.Chain, hash string) (tx Transaction, err error) {
	ctx, done := s.observe(ctx, "SearchTransaction", chain)
	defer done(&err)

	return s.searchTransaction(ctx, chain, hash)
}

func (s *service) searchTransaction(ctx context.Context, chain chainregistry.Chain, hash string) (Transaction, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return Transaction{}, ErrNotFound
	}

	return s.backendsFor(chain).blocks.Transaction(ctx, hash)
}

// SearchAddress returns the bank balances of address.
func (s *service) SearchAddress(ctx context.Context, chain chainregistry.Chain, address string) (balances []Balance, err error) {
	ctx, done := s.observe(ctx, "SearchAddress", chain)
	defer done(&err)

	return s.searchAddress(ctx, chain, address)
}

func (s *service) searchAddress(ctx context.Context, chain chainregistry.Chain, address string) ([]Balance, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, ErrNotFound
	}

	return s.backendsFor(chain).staking.Balances(ctx, address)
}

// GetChainInfo returns the raw node_info document.
func (s *service) GetChainInfo(ctx context.Context, chain chainregistry.Chain) (info json.RawMessage, err error) {
	ctx, done := s.observe(ctx, "GetChainInfo", chain)
	defer done(&err)

	return s.backendsFor(chain).staking.NodeInfo(ctx)
}

// GetStakingPool returns the raw staking pool document.
func (s *service) GetStakingPool(ctx context.Context, chain chainregistry.Chain) (pool json.RawMessage, err error) {
	ctx, done := s.observe(ctx, "GetStakingPool", chain)
	defer done(&err)

	return s.backendsFor(chain).staking.StakingPool(ctx)
}

var txHashPattern = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{64}$`)

// Search resolves a free-form query. Hash-shaped queries are tried as a
// transaction first and fall back to an address lookup when not found.
func (s *service) Search(ctx context.Context, chain chainregistry.Chain, query string) (result SearchResult, err error) {
	ctx, done := s.observe(ctx, "Search", chain)
	defer done(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, ErrNotFound
	}

	if txHashPattern.MatchString(query) {
		tx, err := s.searchTransaction(ctx, chain, query)
		switch {
		case err == nil:
			return SearchResult{Kind: SearchTransaction, Transaction: &tx}, nil
		case !errors.Is(err, ErrNotFound):
			return SearchResult{}, err
		}
	}

	balances, err := s.searchAddress(ctx, chain, query)
	if err != nil {
		return SearchResult{}, err
	}

	return SearchResult{Kind: SearchAddress, Balances: balances}, nil
}

// GetDashboard fetches the chain overview concurrently. Failed parts are
// reported together while the successful ones are still returned. EVM
// chains only get their latest blocks.
func (s *service) GetDashboard(ctx context.Context, chain chainregistry.Chain) (dashboard Dashboard, err error) {
	ctx, done := s.observe(ctx, "GetDashboard", chain)
	defer done(&err)

	b := s.backendsFor(chain)

	var (
		g          errgroup.Group
		info       json.RawMessage
		blocks     []Block
		validators []Validator
		pool       json.RawMessage
		errs       [4]error
	)

	g.Go(func() error {
		blocks, errs[0] = b.blocks.LatestBlocks(ctx)
		return nil
	})
	if !chain.IsEVM() {
		g.Go(func() error {
			info, errs[1] = b.staking.NodeInfo(ctx)
			return nil
		})
		g.Go(func() error {
			validators, errs[2] = s.validators(ctx, chain)
			return nil
		})
		g.Go(func() error {
			pool, errs[3] = b.staking.StakingPool(ctx)
			return nil
		})
	}
	_ = g.Wait()

	ranked := RankByVotingPower(validators)
	dashboard = Dashboard{
		ChainInfo:      info,
		LatestBlocks:   blocks,
		TopValidators:  ranked[:min(len(ranked), s.topValidatorSize)],
		StakingPool:    pool,
		ValidatorStats: CountValidators(validators),
	}

	if pool != nil {
		if parsed, perr := ParseStakingPool(pool); perr == nil {
			dashboard.BondedRatio = BondedRatio(parsed)
		}
	}

	return dashboard, errors.Join(errs[:]...)
}

// Bind implements Service.
func (s *service) Bind(chain chainregistry.Chain) ChainView {
	return ChainView{svc: s, chain: chain}
}
