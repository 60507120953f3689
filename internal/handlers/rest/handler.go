// Package rest exposes the explorer over HTTP: chain data and wallet routes
// under /api/v1 and a live blocks feed over websocket.
package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
	"github.com/WHTechno/wsxplore/internal/walletsvc"
)

const (
	// chainKey is the gin context key of the chain resolved from the route.
	chainKey = "chain"

	// maxPage bounds the transactions page query.
	maxPage = 100_000
)

// Registry is the chain lookup the handlers need.
type Registry interface {
	All() []chainregistry.Chain
	Network(n chainregistry.Network) []chainregistry.Chain
	BySlug(slug string) (chainregistry.Chain, error)
}

// Selection is the chain selection the handlers read and update.
type Selection interface {
	Current() (chainregistry.Chain, bool)
	Network() chainregistry.Network
	SelectByRoute(slug string) (chainregistry.Chain, error)
	SwitchNetwork(n chainregistry.Network) error
}

// Handler serves every route.
type Handler struct {
	registry  Registry
	selection Selection
	data      chaindata.Service
	wallet    walletsvc.Service

	pollInterval   time.Duration
	allowedOrigins []string
}

// Option configures the handler.
type Option func(*Handler)

// WithPollInterval sets how often the blocks feed polls the chain.
//
// Default: 6 seconds.
func WithPollInterval(d time.Duration) Option {
	return func(h *Handler) {
		h.pollInterval = d
	}
}

// WithAllowedOrigins sets the browser origins accepted by CORS and the
// websocket upgrade. An empty list accepts every origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Handler) {
		h.allowedOrigins = origins
	}
}

// NewHandler wires the handler to its services.
func NewHandler(registry Registry, selection Selection, data chaindata.Service, wallet walletsvc.Service, opts ...Option) *Handler {
	h := &Handler{
		registry:     registry,
		selection:    selection,
		data:         data,
		wallet:       wallet,
		pollInterval: 6 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// resolveChain loads the :chainId route parameter (chain id or name slug).
func (h *Handler) resolveChain(c *gin.Context) {
	chain, err := h.registry.BySlug(c.Param("chainId"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Set(chainKey, chain)
	c.Next()
}

func chainOf(c *gin.Context) chainregistry.Chain {
	return c.MustGet(chainKey).(chainregistry.Chain)
}

// Health answers liveness checks.
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/v1/chains/:chainId/blocks
func (h *Handler) LatestBlocks(c *gin.Context) {
	blocks, err := h.data.GetLatestBlocks(c.Request.Context(), chainOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, blocks)
}

// GET /api/v1/chains/:chainId/transactions?page=N
func (h *Handler) Transactions(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "page must be an integer")
			return
		}
		if n < 1 || n > maxPage {
			badRequest(c, fmt.Sprintf("page must be between 1 and %d", maxPage))
			return
		}
		page = n
	}

	txs, err := h.data.GetTransactions(c.Request.Context(), chainOf(c), page)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, txs)
}

// GET /api/v1/chains/:chainId/transactions/:hash
func (h *Handler) Transaction(c *gin.Context) {
	tx, err := h.data.SearchTransaction(c.Request.Context(), chainOf(c), c.Param("hash"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, tx)
}

// GET /api/v1/chains/:chainId/validators
func (h *Handler) Validators(c *gin.Context) {
	validators, err := h.data.GetValidators(c.Request.Context(), chainOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, validators)
}

// GET /api/v1/chains/:chainId/validators/stats
func (h *Handler) ValidatorStats(c *gin.Context) {
	stats, err := h.data.GetValidatorStats(c.Request.Context(), chainOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GET /api/v1/chains/:chainId/validators/:operator/uptime
func (h *Handler) ValidatorUptime(c *gin.Context) {
	uptime, err := h.data.GetValidatorUptime(c.Request.Context(), chainOf(c), c.Param("operator"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, uptime)
}

// GET /api/v1/chains/:chainId/addresses/:address/balances
func (h *Handler) AddressBalances(c *gin.Context) {
	balances, err := h.data.SearchAddress(c.Request.Context(), chainOf(c), c.Param("address"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}

// GET /api/v1/chains/:chainId/info
func (h *Handler) ChainInfo(c *gin.Context) {
	info, err := h.data.GetChainInfo(c.Request.Context(), chainOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", info)
}

// GET /api/v1/chains/:chainId/staking/pool
func (h *Handler) StakingPool(c *gin.Context) {
	raw, err := h.data.GetStakingPool(c.Request.Context(), chainOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	pool, err := chaindata.ParseStakingPool(raw)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pool":        pool,
		"bondedRatio": chaindata.BondedRatio(pool),
	})
}

// GET /api/v1/chains/:chainId/search?q=...
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		badRequest(c, "missing search query")
		return
	}

	result, err := h.data.Search(c.Request.Context(), chainOf(c), query)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// dashboardResponse carries a dashboard whose parts may have failed.
type dashboardResponse struct {
	chaindata.Dashboard
	Errors []string `json:"errors,omitempty"`
}

// GET /api/v1/chains/:chainId/dashboard
//
// Partial failures are reported next to the parts that succeeded.
func (h *Handler) Dashboard(c *gin.Context) {
	dashboard, err := h.data.GetDashboard(c.Request.Context(), chainOf(c))

	resp := dashboardResponse{Dashboard: dashboard}
	if err != nil {
		if unwrapper, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range unwrapper.Unwrap() {
				resp.Errors = append(resp.Errors, e.Error())
			}
		} else {
			resp.Errors = []string{err.Error()}
		}
	}

	c.JSON(http.StatusOK, resp)
}
