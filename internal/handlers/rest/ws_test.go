package rest

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/WHTechno/wsxplore/internal/chaindata"
)

func dialFeed(t *testing.T, f *fixture, path string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	return websocket.DefaultDialer.Dial(url, header)
}

func readMessage(t *testing.T, conn *websocket.Conn) blocksMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg blocksMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestBlocksFeed(t *testing.T) {
	t.Run("pushes blocks only when the head moves", func(t *testing.T) {
		f := newFixture(t, WithPollInterval(10*time.Millisecond))
		f.data.On("GetLatestBlocks", mock.Anything, hub).
			Return([]chaindata.Block{{Height: "10"}}, nil).Twice()
		f.data.On("GetLatestBlocks", mock.Anything, hub).
			Return([]chaindata.Block{{Height: "11"}, {Height: "10"}}, nil)

		conn, _, err := dialFeed(t, f, "/ws/chains/cosmoshub-4/blocks", nil)
		require.NoError(t, err)
		defer conn.Close()

		first := readMessage(t, conn)
		assert.Equal(t, "blocks", first.Type)
		require.Len(t, first.Blocks, 1)
		assert.Equal(t, "10", first.Blocks[0].Height)

		second := readMessage(t, conn)
		assert.Equal(t, "blocks", second.Type)
		require.Len(t, second.Blocks, 2)
		assert.Equal(t, "11", second.Blocks[0].Height)
	})

	t.Run("reports fetch errors without closing", func(t *testing.T) {
		f := newFixture(t, WithPollInterval(10*time.Millisecond))
		f.data.On("GetLatestBlocks", mock.Anything, hub).
			Return(nil, errors.New("upstream down")).Once()
		f.data.On("GetLatestBlocks", mock.Anything, hub).
			Return([]chaindata.Block{{Height: "5"}}, nil)

		conn, _, err := dialFeed(t, f, "/ws/chains/cosmoshub-4/blocks", nil)
		require.NoError(t, err)
		defer conn.Close()

		msg := readMessage(t, conn)
		assert.Equal(t, "error", msg.Type)
		assert.Equal(t, "upstream down", msg.Error)

		msg = readMessage(t, conn)
		assert.Equal(t, "blocks", msg.Type)
	})

	t.Run("unknown chain refuses the upgrade", func(t *testing.T) {
		f := newFixture(t)

		_, resp, err := dialFeed(t, f, "/ws/chains/nope/blocks", nil)

		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("foreign origin is rejected", func(t *testing.T) {
		f := newFixture(t, WithAllowedOrigins("http://localhost:5173"))

		header := http.Header{}
		header.Set("Origin", "http://evil.example.com")
		_, resp, err := dialFeed(t, f, "/ws/chains/cosmoshub-4/blocks", header)

		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
