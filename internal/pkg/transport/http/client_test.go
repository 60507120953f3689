package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("uses default configuration when no options are provided", func(t *testing.T) {
		c := NewClient()

		require.NotNil(t, c)
		assert.Equal(t, 5*time.Second, c.conn.HTTPClient.Timeout, "default HTTP timeout should be 5s")
		assert.Equal(t, 1*time.Second, c.conn.RetryWaitMin, "default RetryWaitMin should be 1s")
		assert.Equal(t, 5*time.Second, c.conn.RetryWaitMax, "default RetryWaitMax should be 5s")
		assert.Equal(t, 2, c.conn.RetryMax, "default RetryMax should be 2")
		assert.Empty(t, c.userAgent)
	})

	t.Run("applies provided options correctly", func(t *testing.T) {
		c := NewClient(
			WithTimeout(10*time.Second),
			WithRetryWaitMin(200*time.Millisecond),
			WithRetryWaitMax(10*time.Second),
			WithRetryMax(5),
			WithUserAgent("wsxplore-test"),
		)

		assert.Equal(t, 10*time.Second, c.conn.HTTPClient.Timeout)
		assert.Equal(t, 200*time.Millisecond, c.conn.RetryWaitMin)
		assert.Equal(t, 10*time.Second, c.conn.RetryWaitMax)
		assert.Equal(t, 5, c.conn.RetryMax)
		assert.Equal(t, "wsxplore-test", c.userAgent)
	})
}

func TestClient_GetJSON(t *testing.T) {
	t.Run("decodes a successful response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(t, "ua", r.Header.Get("User-Agent"))
			json.NewEncoder(w).Encode(map[string]string{"hello": "world"})
		}))
		defer srv.Close()

		var out map[string]string
		err := NewClient(WithUserAgent("ua")).GetJSON(t.Context(), srv.URL, &out)

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"hello": "world"}, out)
	})

	t.Run("returns a StatusError on 404 without retrying", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		var out map[string]any
		err := NewClient().GetJSON(t.Context(), srv.URL+"/missing", &out)

		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.ErrorIs(t, err, ErrUnexpectedStatus)

		var statusErr *StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
		assert.Contains(t, statusErr.Error(), "/missing")
		assert.Equal(t, int32(1), calls.Load())
		assert.Nil(t, out)
	})

	t.Run("retries server errors up to retryMax", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		c := NewClient(
			WithRetryMax(1),
			WithRetryWaitMin(time.Millisecond),
			WithRetryWaitMax(time.Millisecond),
		)

		var out map[string]any
		err := c.GetJSON(t.Context(), srv.URL, &out)

		require.Error(t, err)
		assert.False(t, IsNotFound(err))
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("returns decode error for malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		var out map[string]any
		err := NewClient().GetJSON(t.Context(), srv.URL, &out)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid character")
	})

	t.Run("network error when server is down", func(t *testing.T) {
		srv := httptest.NewServer(nil)
		srv.Close()

		var out map[string]any
		err := NewClient(WithRetryMax(0), WithTimeout(time.Second)).GetJSON(t.Context(), srv.URL, &out)

		assert.Error(t, err)
		assert.False(t, IsNotFound(err))
	})
}

func TestIsNotFound(t *testing.T) {
	t.Run("false for unrelated errors", func(t *testing.T) {
		assert.False(t, IsNotFound(errors.New("boom")))
		assert.False(t, IsNotFound(nil))
	})

	t.Run("true for wrapped 404", func(t *testing.T) {
		err := errors.Join(errors.New("context"), &StatusError{StatusCode: http.StatusNotFound})
		assert.True(t, IsNotFound(err))
	})
}
