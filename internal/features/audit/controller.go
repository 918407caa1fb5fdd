package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListLogs godoc
// @Summary      List audit logs
// @Description  Newest first. Filter by module, recordId or actorId.
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page      query  int     false  "Page"
// @Param        limit     query  int     false  "Page size (max 100)"
// @Param        module    query  string  false  "Entity kind"
// @Param        recordId  query  string  false  "Record id"
// @Param        actorId   query  string  false  "Actor id"
// @Success      200  {array}  models.AuditLog
// @Router       /api/audit-logs [get]
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	filter := Filter{
		Module:   c.Query("module"),
		RecordID: c.Query("recordId"),
		ActorID:  c.Query("actorId"),
	}

	logs, err := ctrl.Service.ListLogs(c.UserContext(), filter, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(logs)
}
