package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
	"github.com/WHTechno/wsxplore/internal/walletsvc"
)

var errWalletUnavailable = errors.New("wallet support is disabled")

// walletResponse is the wallet session as seen by the browser.
type walletResponse struct {
	walletsvc.Status
	Available bool                           `json:"isAvailable"`
	Balances  map[string][]chaindata.Balance `json:"balances"`
}

// addChainsRequest lists the chains to register with the wallet. An empty
// list registers every known chain.
type addChainsRequest struct {
	ChainIDs []string `json:"chainIds"`
}

// requireWallet rejects wallet routes when no wallet service is configured.
func (h *Handler) requireWallet(c *gin.Context) {
	if h.wallet == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorResponse{Error: errWalletUnavailable.Error()})
		return
	}
	c.Next()
}

// GET /api/v1/wallet
func (h *Handler) WalletStatus(c *gin.Context) {
	c.JSON(http.StatusOK, walletResponse{
		Status:    h.wallet.Status(),
		Available: h.wallet.IsAvailable(),
		Balances:  h.wallet.Balances(),
	})
}

// POST /api/v1/wallet/connect
//
// Connects and refreshes the balance of the selected chain. A failed
// refresh does not fail the connection.
func (h *Handler) WalletConnect(c *gin.Context) {
	ctx := c.Request.Context()

	if _, err := h.wallet.Connect(ctx); err != nil {
		abortWithError(c, err)
		return
	}

	refreshErr := h.wallet.RefreshBalance(ctx)

	resp := gin.H{
		"wallet": walletResponse{
			Status:    h.wallet.Status(),
			Available: true,
			Balances:  h.wallet.Balances(),
		},
	}
	if refreshErr != nil {
		resp["error"] = refreshErr.Error()
	}

	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/wallet/disconnect
func (h *Handler) WalletDisconnect(c *gin.Context) {
	h.wallet.Disconnect(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// POST /api/v1/wallet/chains
func (h *Handler) WalletAddChains(c *gin.Context) {
	var req addChainsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
	}

	chains := h.registry.All()
	if len(req.ChainIDs) > 0 {
		chains = make([]chainregistry.Chain, 0, len(req.ChainIDs))
		for _, id := range req.ChainIDs {
			chain, err := h.registry.BySlug(id)
			if err != nil {
				abortWithError(c, err)
				return
			}
			chains = append(chains, chain)
		}
	}

	c.JSON(http.StatusOK, h.wallet.AddAllChains(c.Request.Context(), chains))
}

// GET /api/v1/wallet/balances/:chainId
func (h *Handler) WalletBalance(c *gin.Context) {
	balances, err := h.wallet.GetBalance(c.Request.Context(), chainOf(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, balances)
}
