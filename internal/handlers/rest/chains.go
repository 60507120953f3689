package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WHTechno/wsxplore/internal/chainregistry"
)

// selectionResponse describes the selected chain and network.
type selectionResponse struct {
	Network chainregistry.Network `json:"network"`
	Chain   *chainregistry.Chain  `json:"chain"`
	Slug    string                `json:"slug,omitempty"`
}

func parseNetwork(raw string) (chainregistry.Network, error) {
	switch n := chainregistry.Network(raw); n {
	case chainregistry.Mainnet, chainregistry.Testnet:
		return n, nil
	default:
		return "", fmt.Errorf("unknown network %q", raw)
	}
}

// GET /api/v1/chains
func (h *Handler) ListChains(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.All())
}

// GET /api/v1/networks/:network/chains
func (h *Handler) NetworkChains(c *gin.Context) {
	n, err := parseNetwork(c.Param("network"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, h.registry.Network(n))
}

func (h *Handler) selectionState() selectionResponse {
	resp := selectionResponse{Network: h.selection.Network()}
	if chain, ok := h.selection.Current(); ok {
		resp.Chain = &chain
		resp.Slug = chainregistry.Slug(chain)
	}
	return resp
}

// GET /api/v1/selection
func (h *Handler) GetSelection(c *gin.Context) {
	c.JSON(http.StatusOK, h.selectionState())
}

// PUT /api/v1/selection/chain/:slug
func (h *Handler) SelectChain(c *gin.Context) {
	if _, err := h.selection.SelectByRoute(c.Param("slug")); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.selectionState())
}

// PUT /api/v1/selection/network/:network
func (h *Handler) SwitchNetwork(c *gin.Context) {
	n, err := parseNetwork(c.Param("network"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.selection.SwitchNetwork(n); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.selectionState())
}
