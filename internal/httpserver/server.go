package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rajnandniparmar/Event-Finder/internal/handlers"
	"github.com/rajnandniparmar/Event-Finder/internal/metrics"
	"github.com/rajnandniparmar/Event-Finder/internal/middleware"
	"github.com/rajnandniparmar/Event-Finder/internal/search"
	"github.com/rajnandniparmar/Event-Finder/internal/store"
)

// NewRouter wires the operational endpoints and the event API.
// Operational: /health, /ready, /metrics
// API: /events, /events/find, /events/add
func NewRouter(st store.EventStore, svc *search.Service, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(m))

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the event store is usable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	handlers.RegisterMetricRoutes(r, m)
	handlers.RegisterEventRoutes(r, st, svc, m)

	return r
}
