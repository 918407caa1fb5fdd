package audit

import (
	"admin-panel/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
	gate       *middleware.Gatekeeper
}

func NewAuditApi(controller *AuditController, gate *middleware.Gatekeeper) *AuditApi {
	return &AuditApi{
		controller: controller,
		gate:       gate,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit-logs")

	audit.Get("/", h.gate.RequirePermission("audit.view"), h.controller.ListLogs)
}
