package middleware

import (
	"admin-panel/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

// RequirePermission allows the request only when the named permission is in the caller's
// live effective set. Token role claims are never consulted.
func (g *Gatekeeper) RequirePermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := g.verify(c)
		if err != nil {
			return g.deny(c, "permission", err)
		}

		grant, err := g.resolver.Resolve(c.UserContext(), claims.SubjectID)
		if err != nil {
			return g.deny(c, "permission", err)
		}
		if !grant.Has(permission) {
			return g.deny(c, "permission", apperr.ErrPermissionDenied(permission))
		}

		g.attach(c, claims, grant.Principal())
		g.metrics.RecordDecision("permission", "allow")
		return c.Next()
	}
}
