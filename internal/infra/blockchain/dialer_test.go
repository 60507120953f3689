package blockchain

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
	httpclient "github.com/WHTechno/wsxplore/internal/pkg/transport/http"
	"github.com/WHTechno/wsxplore/internal/pkg/transport/jsonrpc"
)

func TestDialer_Cosmos(t *testing.T) {
	t.Run("talks to the chain's REST endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/cosmos/base/tendermint/v1beta1/node_info", r.URL.Path)
			w.Write([]byte(`{"default_node_info":{"network":"cosmoshub-4"}}`))
		}))
		defer srv.Close()

		d := NewDialer(httpclient.NewClient(httpclient.WithRetryMax(0)))
		backend := d.Cosmos(chainregistry.Chain{ChainID: "cosmoshub-4", REST: srv.URL})

		info, err := backend.NodeInfo(t.Context())
		require.NoError(t, err)
		assert.JSONEq(t, `{"default_node_info":{"network":"cosmoshub-4"}}`, string(info))
	})
}

func TestDialer_EVM(t *testing.T) {
	t.Run("talks to the chain's JSON-RPC endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "eth_getTransactionByHash", req["method"])

			json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req["id"], "result": nil})
		}))
		defer srv.Close()

		d := NewDialer(
			httpclient.NewClient(),
			WithJSONRPCOptions(jsonrpc.WithRetryMax(0), jsonrpc.WithTimeout(time.Second)),
		)
		backend := d.EVM(chainregistry.Chain{ChainID: "oro-evm-1336", RPC: srv.URL, Family: chainregistry.FamilyEVM})

		_, err := backend.Transaction(t.Context(), "0xabc")
		assert.ErrorIs(t, err, chaindata.ErrNotFound)
	})
}
