// Package cosmos implements the chain data backends for Cosmos-SDK chains
// on top of their REST (LCD) gateway.
package cosmos

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	httpclient "github.com/WHTechno/wsxplore/internal/pkg/transport/http"
)

const (
	// transactionsPageSize is the number of transactions per page.
	transactionsPageSize = 20

	// maxTransactionsPage keeps the page offset within an int.
	maxTransactionsPage = math.MaxInt / transactionsPageSize

	// validatorsPageSize bounds the single validator listing request.
	validatorsPageSize = 500

	// blockFetchConcurrency bounds parallel block requests for uptime records.
	blockFetchConcurrency = 10
)

// client implements chaindata.CosmosSource against one REST endpoint.
type client struct {
	conn    httpclient.Client
	baseURL string
}

var _ chaindata.CosmosSource = (*client)(nil)

// NewClient creates a backend for the REST gateway at baseURL.
func NewClient(conn httpclient.Client, baseURL string) *client {
	return &client{
		conn:    conn,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// get fetches path (with optional query) and decodes the body into out.
// Answers with a status in notFound are reported as chaindata.ErrNotFound.
func (c *client) get(ctx context.Context, path string, query url.Values, out any, notFound ...int) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	err := c.conn.GetJSON(ctx, target, out)
	if err == nil {
		return nil
	}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) && slices.Contains(notFound, statusErr.StatusCode) {
		return fmt.Errorf("%w: %w", chaindata.ErrNotFound, err)
	}

	return fmt.Errorf("%w: %w", chaindata.ErrNetworkFailure, err)
}

// notFoundStatuses are the answers the gateway gives for unknown or
// malformed addresses. Transaction lookups only treat 404 as not found.
var notFoundStatuses = []int{http.StatusNotFound, http.StatusBadRequest}
