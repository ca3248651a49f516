package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bedboard-backend/internal/dates"
	"bedboard-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store  store.Store
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time
}

// NewHandler creates a new API handler. loc is the hospital's time zone and
// decides which calendar day counts as today.
func NewHandler(s store.Store, log *zap.Logger, loc *time.Location) *Handler {
	return &Handler{
		store:  s,
		logger: log,
		loc:    loc,
		now:    time.Now,
	}
}

func (h *Handler) today() time.Time {
	return dates.Today(h.now(), h.loc)
}

// fail writes a 404 for store.ErrNotFound and logs anything else as a 500.
func (h *Handler) fail(c *gin.Context, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": msg + " not found"})
		return
	}
	h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve " + msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
