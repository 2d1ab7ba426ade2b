// Package handler exposes the testing reset endpoint. It exists for e2e test
// suites that need a clean database between runs and must not be mounted in
// production builds.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blogger-platform/internal/results"
)

// Wiper clears one data store completely.
type Wiper interface {
	DeleteAll(ctx context.Context) error
}

type Handler struct {
	stores []Wiper
	log    *zap.Logger
}

// New returns the testing handler over every store the reset must clear.
func New(log *zap.Logger, stores ...Wiper) *Handler {
	return &Handler{stores: stores, log: log}
}

// Register mounts the /testing routes.
func (h *Handler) Register(r gin.IRouter) {
	r.DELETE("/testing/all-data", h.allData)
}

func (h *Handler) allData(c *gin.Context) {
	for _, store := range h.stores {
		if err := store.DeleteAll(c.Request.Context()); err != nil {
			h.log.Error("testing reset failed", zap.Error(err))
			res := results.InternalErr()
			c.AbortWithStatusJSON(res.HTTPStatus(), res.Body())
			return
		}
	}
	c.Status(http.StatusNoContent)
}
