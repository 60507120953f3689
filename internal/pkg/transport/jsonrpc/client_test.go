package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponse_Err(t *testing.T) {
	t.Run("returns nil when Error field is nil", func(t *testing.T) {
		resp := response{JsonRPC: "2.0"}

		assert.NoError(t, resp.Err(), "Err() should return nil when Error field is nil")
	})

	t.Run("returns provider error when Error field is present", func(t *testing.T) {
		resp := response{
			JsonRPC: "2.0",
			Error:   &ProviderError{Code: -32601, Message: "method not found"},
		}

		err := resp.Err()

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrProviderReturnedError, "Err() should wrap ErrProviderReturnedError")
		assert.Contains(t, err.Error(), "[-32601]")
		assert.Contains(t, err.Error(), "method not found")

		var providerErr *ProviderError
		require.True(t, errors.As(err, &providerErr))
		assert.Equal(t, -32601, providerErr.Code)
	})
}

func TestClient_Fetch(t *testing.T) {
	t.Run("sends a well formed request and returns the result", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var req map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "2.0", req["jsonrpc"])
			assert.Equal(t, "eth_getBlockByNumber", req["method"])
			assert.Equal(t, []any{"0x10", true}, req["params"])
			assert.NotEmpty(t, req["id"])

			json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"result":  map[string]any{"hello": "world"},
				"id":      req["id"],
			})
		}))
		defer mockServer.Close()

		result, err := NewClient(mockServer.URL).Fetch(t.Context(), "eth_getBlockByNumber", "0x10", true)
		require.NoError(t, err)

		var actual map[string]any
		require.NoError(t, json.Unmarshal(result, &actual))
		assert.Equal(t, map[string]any{"hello": "world"}, actual)
	})

	t.Run("encodes missing params as an empty array", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []any{}, req["params"])

			json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "result": "0x1", "id": "1"})
		}))
		defer mockServer.Close()

		result, err := NewClient(mockServer.URL).Fetch(t.Context(), "eth_blockNumber")
		require.NoError(t, err)
		assert.JSONEq(t, `"0x1"`, string(result))
	})

	t.Run("response with JSON-RPC error", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0",
				"error": map[string]any{
					"code":    -32601,
					"message": "method not found",
				},
				"id": "1",
			})
		}))
		defer mockServer.Close()

		result, err := NewClient(mockServer.URL).Fetch(t.Context(), "nonexistent_method")
		assert.ErrorIs(t, err, ErrProviderReturnedError)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "method not found")
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer mockServer.Close()

		result, err := NewClient(mockServer.URL).Fetch(t.Context(), "eth_blockNumber")
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "403")
	})

	t.Run("malformed JSON response", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("this is not json"))
		}))
		defer mockServer.Close()

		result, err := NewClient(mockServer.URL).Fetch(t.Context(), "bad_json")
		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Contains(t, err.Error(), "invalid character")
	})

	t.Run("network error when server is down", func(t *testing.T) {
		mockServer := httptest.NewServer(nil)
		mockServer.Close()

		c := NewClient(mockServer.URL,
			WithTimeout(1*time.Second),
			WithRetryMax(0),
		)

		result, err := c.Fetch(t.Context(), "network_failure")
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

// staticClient answers every Fetch with the same payload.
type staticClient struct {
	data json.RawMessage
	err  error
}

func (s staticClient) Fetch(context.Context, string, ...any) (json.RawMessage, error) {
	return s.data, s.err
}

func TestFetchInto(t *testing.T) {
	t.Run("decodes the result", func(t *testing.T) {
		var out struct {
			Hash string `json:"hash"`
		}

		err := FetchInto(t.Context(), staticClient{data: json.RawMessage(`{"hash":"0xabc"}`)}, &out, "eth_getTransactionByHash", "0xabc")
		require.NoError(t, err)
		assert.Equal(t, "0xabc", out.Hash)
	})

	t.Run("null result returns ErrNullResult", func(t *testing.T) {
		var out map[string]any

		err := FetchInto(t.Context(), staticClient{data: json.RawMessage(`null`)}, &out, "eth_getTransactionByHash", "0xabc")
		assert.ErrorIs(t, err, ErrNullResult)
		assert.Nil(t, out)
	})

	t.Run("empty result returns ErrNullResult", func(t *testing.T) {
		var out map[string]any

		err := FetchInto(t.Context(), staticClient{}, &out, "eth_getBlockByNumber")
		assert.ErrorIs(t, err, ErrNullResult)
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		var out map[string]any
		fetchErr := errors.New("boom")

		err := FetchInto(t.Context(), staticClient{err: fetchErr}, &out, "eth_blockNumber")
		assert.ErrorIs(t, err, fetchErr)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("uses default configuration when no options are provided", func(t *testing.T) {
		c := NewClient("http://localhost:8545")

		assert.Equal(t, "http://localhost:8545", c.providerEndpoint)
		require.NotNil(t, c.httpClient)
		assert.Equal(t, 5*time.Second, c.httpClient.HTTPClient.Timeout, "default timeout should be 5s")
		assert.Equal(t, 1*time.Second, c.httpClient.RetryWaitMin, "default retryWaitMin should be 1s")
		assert.Equal(t, 5*time.Second, c.httpClient.RetryWaitMax, "default retryWaitMax should be 5s")
		assert.Equal(t, 2, c.httpClient.RetryMax, "default retryMax should be 2")
	})

	t.Run("applies all custom options correctly", func(t *testing.T) {
		c := NewClient(
			"http://localhost:8545",
			WithTimeout(9*time.Second),
			WithRetryWaitMin(111*time.Millisecond),
			WithRetryWaitMax(3*time.Second),
			WithRetryMax(7),
		)

		assert.Equal(t, 9*time.Second, c.httpClient.HTTPClient.Timeout)
		assert.Equal(t, 111*time.Millisecond, c.httpClient.RetryWaitMin)
		assert.Equal(t, 3*time.Second, c.httpClient.RetryWaitMax)
		assert.Equal(t, 7, c.httpClient.RetryMax)
	})
}
