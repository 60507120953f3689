package rest

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/WHTechno/wsxplore/internal/pkg/logger"
)

// requestLogger tags the request context with a request id and logs the
// outcome of every request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		ctx := logger.Derive(c.Request.Context(), "request_id", requestID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		logger.Debug(ctx, "request served",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// NewRouter builds the HTTP surface of the explorer.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(h.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = h.allowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		api.GET("/chains", h.ListChains)
		api.GET("/networks/:network/chains", h.NetworkChains)

		api.GET("/selection", h.GetSelection)
		api.PUT("/selection/chain/:slug", h.SelectChain)
		api.PUT("/selection/network/:network", h.SwitchNetwork)

		chain := api.Group("/chains/:chainId", h.resolveChain)
		chain.GET("/blocks", h.LatestBlocks)
		chain.GET("/transactions", h.Transactions)
		chain.GET("/transactions/:hash", h.Transaction)
		chain.GET("/validators", h.Validators)
		chain.GET("/validators/stats", h.ValidatorStats)
		chain.GET("/validators/:operator/uptime", h.ValidatorUptime)
		chain.GET("/addresses/:address/balances", h.AddressBalances)
		chain.GET("/info", h.ChainInfo)
		chain.GET("/staking/pool", h.StakingPool)
		chain.GET("/search", h.Search)
		chain.GET("/dashboard", h.Dashboard)

		wallet := api.Group("/wallet", h.requireWallet)
		wallet.GET("", h.WalletStatus)
		wallet.POST("/connect", h.WalletConnect)
		wallet.POST("/disconnect", h.WalletDisconnect)
		wallet.POST("/chains", h.WalletAddChains)
		wallet.GET("/balances/:chainId", h.resolveChain, h.WalletBalance)
	}

	r.GET("/ws/chains/:chainId/blocks", h.resolveChain, h.BlocksFeed)

	return r
}
