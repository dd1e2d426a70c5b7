package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/rajnandniparmar/Event-Finder/internal/metrics"
)

// RegisterMetricRoutes exposes the Prometheus registry.
//
// GET /metrics
func RegisterMetricRoutes(r gin.IRoutes, m *metrics.Metrics) {
	r.GET("/metrics", gin.WrapH(m.Handler()))
}
