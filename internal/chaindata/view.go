package chaindata

import (
	"context"
	"encoding/json"

	"github.com/WHTechno/wsxplore/internal/chainregistry"
)

// ChainView is a Service bound to one chain. It is a value: binding a new
// chain never affects views handed out earlier.
type ChainView struct {
	svc   Service
	chain chainregistry.Chain
}

// Chain returns the bound chain.
func (v ChainView) Chain() chainregistry.Chain { return v.chain }

func (v ChainView) GetLatestBlocks(ctx context.Context) ([]Block, error) {
	return v.svc.GetLatestBlocks(ctx, v.chain)
}

func (v ChainView) GetTransactions(ctx context.Context, page int) ([]Transaction, error) {
	return v.svc.GetTransactions(ctx, v.chain, page)
}

func (v ChainView) GetValidators(ctx context.Context) ([]Validator, error) {
	return v.svc.GetValidators(ctx, v.chain)
}

func (v ChainView) GetValidatorStats(ctx context.Context) (ValidatorStats, error) {
	return v.svc.GetValidatorStats(ctx, v.chain)
}

func (v ChainView) GetValidatorUptime(ctx context.Context, operatorAddress string) (ValidatorUptime, error) {
	return v.svc.GetValidatorUptime(ctx, v.chain, operatorAddress)
}

func (v ChainView) SearchTransaction(ctx context.Context, hash string) (Transaction, error) {
	return v.svc.SearchTransaction(ctx, v.chain, hash)
}

func (v ChainView) SearchAddress(ctx context.Context, address string) ([]Balance, error) {
	return v.svc.SearchAddress(ctx, v.chain, address)
}

func (v ChainView) GetChainInfo(ctx context.Context) (json.RawMessage, error) {
	return v.svc.GetChainInfo(ctx, v.chain)
}

func (v ChainView) GetStakingPool(ctx context.Context) (json.RawMessage, error) {
	return v.svc.GetStakingPool(ctx, v.chain)
}

func (v ChainView) Search(ctx context.Context, query string) (SearchResult, error) {
	return v.svc.Search(ctx, v.chain, query)
}

func (v ChainView) GetDashboard(ctx context.Context) (Dashboard, error) {
	return v.svc.GetDashboard(ctx, v.chain)
}
