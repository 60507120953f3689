package chaindata

import (
	"context"
	"encoding/json"

	"github.com/WHTechno/wsxplore/internal/chainregistry"
)

// BlockSource answers block and transaction queries for one chain.
type BlockSource interface {
	// LatestBlocks returns the most recent blocks, highest first.
	LatestBlocks(ctx context.Context) ([]Block, error)

	// Transactions returns one page (1-based) of recent transactions.
	Transactions(ctx context.Context, page int) ([]Transaction, error)

	// Transaction looks a transaction up by hash. A missing transaction
	// returns an error wrapping ErrNotFound.
	Transaction(ctx context.Context, hash string) (Transaction, error)
}

// StakingSource answers Cosmos-SDK module queries for one chain.
type StakingSource interface {
	// Validators returns the validator set with uptime filled in when the
	// slashing module can provide it.
	Validators(ctx context.Context) ([]Validator, error)

	// ValidatorUptime returns the signing records of the last n blocks for
	// the validator. An unknown operator returns ErrNotFound.
	ValidatorUptime(ctx context.Context, operatorAddress string, n int) (ValidatorUptime, error)

	// Balances returns the bank balances of address.
	Balances(ctx context.Context, address string) ([]Balance, error)

	// NodeInfo returns the raw node_info document.
	NodeInfo(ctx context.Context) (json.RawMessage, error)

	// StakingPool returns the raw staking pool document.
	StakingPool(ctx context.Context) (json.RawMessage, error)
}

// CosmosSource is the full Cosmos-SDK REST backend.
type CosmosSource interface {
	BlockSource
	StakingSource
}

// Dialer builds protocol backends for a chain. Implementations must not
// perform I/O while dialing.
type Dialer interface {
	// Cosmos returns a backend talking to the chain's REST endpoint.
	Cosmos(chain chainregistry.Chain) CosmosSource

	// EVM returns a backend talking to the chain's JSON-RPC endpoint.
	EVM(chain chainregistry.Chain) BlockSource
}

// IdentityResolver turns a validator identity into an avatar URL.
type IdentityResolver interface {
	// Logo returns the avatar URL, or "" when the identity has none.
	Logo(ctx context.Context, identity string) (string, error)
}

// backends is the memoized pair used for one chain.
type backends struct {
	blocks  BlockSource
	staking StakingSource
}
