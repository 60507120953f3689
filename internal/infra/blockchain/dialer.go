// Package blockchain builds the protocol backends used by the chain data
// service.
package blockchain

import (
	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
	"github.com/WHTechno/wsxplore/internal/infra/blockchain/cosmos"
	"github.com/WHTechno/wsxplore/internal/infra/blockchain/ethereum"
	httpclient "github.com/WHTechno/wsxplore/internal/pkg/transport/http"
	"github.com/WHTechno/wsxplore/internal/pkg/transport/jsonrpc"
)

// dialer creates backends for registry chains. It performs no I/O.
type dialer struct {
	rest    httpclient.Client
	rpcOpts []jsonrpc.Option
	evmOpts []ethereum.Option
}

var _ chaindata.Dialer = (*dialer)(nil)

// Option configures the dialer.
type Option func(*dialer)

// WithJSONRPCOptions sets the transport options of every JSON-RPC connection.
func WithJSONRPCOptions(opts ...jsonrpc.Option) Option {
	return func(d *dialer) {
		d.rpcOpts = opts
	}
}

// WithEVMOptions sets the options of every EVM backend.
func WithEVMOptions(opts ...ethereum.Option) Option {
	return func(d *dialer) {
		d.evmOpts = opts
	}
}

// NewDialer returns a chaindata.Dialer. REST backends share rest; each EVM
// backend gets its own JSON-RPC connection to the chain's RPC endpoint.
func NewDialer(rest httpclient.Client, opts ...Option) *dialer {
	d := &dialer{rest: rest}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Cosmos implements chaindata.Dialer.
func (d *dialer) Cosmos(chain chainregistry.Chain) chaindata.CosmosSource {
	return cosmos.NewClient(d.rest, chain.REST)
}

// EVM implements chaindata.Dialer.
func (d *dialer) EVM(chain chainregistry.Chain) chaindata.BlockSource {
	return ethereum.NewClient(jsonrpc.NewClient(chain.RPC, d.rpcOpts...), d.evmOpts...)
}
