// Package ethereum implements the chain data block backend for
// EVM-compatible nodes over JSON-RPC.
package ethereum

import (
	"errors"
	"time"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/pkg/resilience/retry"
	"github.com/WHTechno/wsxplore/internal/pkg/transport/jsonrpc"
)

// client implements chaindata.BlockSource against one JSON-RPC endpoint.
type client struct {
	conn  jsonrpc.Client // Underlying JSON-RPC client used to interact with the node
	retry retry.Retry    // Retries blocks a lagging node has announced but cannot serve yet
}

// Ensure client implements the chaindata.BlockSource interface at compile time.
var _ chaindata.BlockSource = (*client)(nil)

// Option configures the client.
type Option func(*client)

// WithRetry replaces the retry policy used for null block answers.
func WithRetry(r retry.Retry) Option {
	return func(c *client) {
		c.retry = r
	}
}

// isNullResult reports whether err is a null JSON-RPC answer.
func isNullResult(err error) bool {
	return errors.Is(err, jsonrpc.ErrNullResult)
}

// NewClient creates a new EVM block backend using the provided JSON-RPC connection.
//
// By default a null block is retried up to 3 times with a short backoff,
// which covers load-balanced providers whose nodes are a block apart.
func NewClient(conn jsonrpc.Client, opts ...Option) *client {
	c := &client{
		conn: conn,
		retry: retry.New(
			retry.WithAttempts(3),
			retry.WithDelay(250*time.Millisecond),
			retry.WithMaxDelay(time.Second),
			retry.WithRetryIf(isNullResult),
		),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}
