package system

import (
	"admin-panel/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// MetricsApi exposes the private Prometheus registry.
type MetricsApi struct {
	metrics *observability.Metrics
}

func NewMetricsApi(metrics *observability.Metrics) *MetricsApi {
	return &MetricsApi{metrics: metrics}
}

func (h *MetricsApi) Setup(app *fiber.App) {
	app.Get("/metrics", h.metrics.Handler())
}
