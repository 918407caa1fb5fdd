package middleware

import (
	"strings"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRoleName allows the request only when the caller's current role is named roleName,
// compared case-insensitively. The permission set is not consulted, so no grant satisfies it.
func (g *Gatekeeper) RequireRoleName(roleName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := g.verify(c)
		if err != nil {
			return g.deny(c, "role_name", err)
		}

		user, role, err := g.resolver.ResolveRole(c.UserContext(), claims.SubjectID)
		if err != nil {
			return g.deny(c, "role_name", err)
		}
		if strings.ToLower(role.Name) != strings.ToLower(roleName) {
			return g.deny(c, "role_name", apperr.ErrRoleMismatch(roleName))
		}

		g.attach(c, claims, &models.Principal{
			UserID:               user.ID.Hex(),
			Email:                user.Email,
			RoleName:             role.Name,
			EffectivePermissions: []string{},
		})
		g.metrics.RecordDecision("role_name", "allow")
		return c.Next()
	}
}
