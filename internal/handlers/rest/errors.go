package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WHTechno/wsxplore/internal/chaindata"
	"github.com/WHTechno/wsxplore/internal/chainregistry"
	"github.com/WHTechno/wsxplore/internal/chainselect"
	"github.com/WHTechno/wsxplore/internal/pkg/logger"
	"github.com/WHTechno/wsxplore/internal/walletsvc"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// statusOf maps the domain error taxonomy to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, chaindata.ErrNotFound),
		errors.Is(err, chainregistry.ErrChainNotFound):
		return http.StatusNotFound
	case errors.Is(err, chaindata.ErrUnsupported),
		errors.Is(err, chaindata.ErrPaginationUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, walletsvc.ErrNotConnected),
		errors.Is(err, walletsvc.ErrProviderMissing),
		errors.Is(err, walletsvc.ErrNoAccounts),
		errors.Is(err, chainselect.ErrEmptyNetwork):
		return http.StatusConflict
	case errors.Is(err, walletsvc.ErrProviderRejected):
		return http.StatusForbidden
	case errors.Is(err, context.Canceled):
		return 499
	default:
		return http.StatusBadGateway
	}
}

// abortWithError writes err with its mapped status.
func abortWithError(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Warn(c.Request.Context(), "request failed", "status", status, "error", err)
	}

	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}

// badRequest rejects malformed input.
func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg})
}
