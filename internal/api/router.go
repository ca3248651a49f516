package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bedboard-backend/internal/mw"
	"bedboard-backend/internal/store"
)

// NewRouter creates and configures a new Gin router. GET responses under
// /api are cached in responses for cacheTTL; device dates are evaluated in loc.
func NewRouter(s store.Store, responses mw.ResponseCache, limiter *mw.IPRateLimiter, cacheTTL time.Duration, loc *time.Location, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestID(), mw.RequestLogger(log))

	r.GET("/healthz", healthz(s))

	// API group
	api := r.Group("/api")
	api.Use(mw.RateLimiter(limiter))
	registerRoutes(api, NewHandler(s, log, loc), mw.Cache(responses, cacheTTL, log))

	return r
}

func registerRoutes(api *gin.RouterGroup, handler *Handler, caching gin.HandlerFunc) {
	api.GET("/units", caching, handler.GetUnits)
	api.GET("/summary", caching, handler.GetSummary)
	api.GET("/units/:unit", caching, handler.GetUnit)
	api.GET("/units/:unit/patients", caching, handler.ListPatients)
	api.GET("/units/:unit/patients/:patient_id", caching, handler.GetPatient)
	api.GET("/units/:unit/patients/:patient_id/exams", caching, handler.ListExams)

	// Device dwell figures depend on the current date.
	api.GET("/units/:unit/patients/:patient_id/devices", handler.ListDevices)
	api.GET("/units/:unit/patients/:patient_id/devices/:device_code", handler.GetDevice)

	api.GET("/isolation-profiles", caching, handler.ListIsolationProfiles)
	api.GET("/isolation-profiles/:type", caching, handler.GetIsolationProfile)

	api.GET("/export/census.xlsx", handler.ExportCensus)
}

func healthz(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := s.DB().DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
