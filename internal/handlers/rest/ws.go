package rest

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 512
)

// blocksMessage is pushed to feed subscribers whenever the chain head moves.
type blocksMessage struct {
	Type   string            `json:"type"`
	Blocks []chaindata.Block `json:"blocks,omitempty"`
	Error  string            `json:"error,omitempty"`
}

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(h.allowedOrigins) == 0 {
				return true
			}
			return slices.Contains(h.allowedOrigins, origin)
		},
	}
}

// GET /ws/chains/:chainId/blocks
//
// Streams the latest blocks of the chain. A snapshot is sent on connect and
// again each time the head height changes. Fetch errors are sent as
// messages and do not close the socket.
func (h *Handler) BlocksFeed(c *gin.Context) {
	chain := chainOf(c)

	upgrader := h.upgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Incoming frames are discarded; a read error means the client is gone.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	logger.Debug(ctx, "blocks feed opened", "chain", chain.ChainID)
	defer logger.Debug(ctx, "blocks feed closed", "chain", chain.ChainID)

	ticker := time.NewTicker(h.pollInterval)
	defer ticker.Stop()

	var lastHeight string
	for {
		blocks, err := h.data.GetLatestBlocks(ctx, chain)
		if ctx.Err() != nil {
			return
		}

		var msg *blocksMessage
		switch {
		case err != nil:
			msg = &blocksMessage{Type: "error", Error: err.Error()}
		case len(blocks) > 0 && blocks[0].Height != lastHeight:
			lastHeight = blocks[0].Height
			msg = &blocksMessage{Type: "blocks", Blocks: blocks}
		}

		if msg != nil {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug(ctx, "blocks feed write failed", "error", err)
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
