package middleware

import (
	"context"
	"strings"

	"admin-panel/internal/common/apperr"
	"admin-panel/internal/common/models"
	"admin-panel/internal/features/access"
	"admin-panel/internal/observability"
	"admin-panel/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const principalLocal = string(models.PrincipalKey)

// Gatekeeper builds the per-route enforcement handlers. It keeps no state between requests;
// every gate re-reads the authorization graph from the store.
type Gatekeeper struct {
	tokens   *utils.TokenManager
	resolver access.Resolver
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewGatekeeper(tokens *utils.TokenManager, resolver access.Resolver, metrics *observability.Metrics, logger *zap.Logger) *Gatekeeper {
	return &Gatekeeper{
		tokens:   tokens,
		resolver: resolver,
		metrics:  metrics,
		logger:   logger,
	}
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

func (g *Gatekeeper) verify(c *fiber.Ctx) (*utils.UserClaims, error) {
	token := bearerToken(c)
	if token == "" {
		return nil, apperr.ErrMissingToken()
	}
	claims, err := g.tokens.ValidateToken(token)
	if err != nil {
		g.logger.Debug("token rejected", zap.String("ip", c.IP()), zap.Error(err))
		return nil, apperr.ErrInvalidToken(err)
	}
	return claims, nil
}

// Authenticate only verifies the token. The claims it exposes are the issuance snapshot.
func (g *Gatekeeper) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := g.verify(c)
		if err != nil {
			return g.deny(c, "token", err)
		}
		c.Locals(utils.UserClaimsKey, claims)
		c.SetUserContext(context.WithValue(c.UserContext(), models.ActorIDKey, claims.SubjectID))
		g.metrics.RecordDecision("token", "allow")
		return c.Next()
	}
}

func (g *Gatekeeper) attach(c *fiber.Ctx, claims *utils.UserClaims, principal *models.Principal) {
	c.Locals(utils.UserClaimsKey, claims)
	c.Locals(principalLocal, principal)
	c.SetUserContext(context.WithValue(c.UserContext(), models.ActorIDKey, principal.UserID))
}

func (g *Gatekeeper) deny(c *fiber.Ctx, gate string, err error) error {
	kind := apperr.KindOf(err)
	if kind == apperr.StoreUnavailable {
		g.metrics.RecordDecision(gate, "error")
	} else {
		g.metrics.RecordDecision(gate, string(kind))
		g.logger.Debug("request denied",
			zap.String("gate", gate),
			zap.String("kind", string(kind)),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
	}
	return err
}

// ClaimsFrom returns the verified token snapshot, if a gate ran.
func ClaimsFrom(c *fiber.Ctx) *utils.UserClaims {
	claims, _ := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	return claims
}

// PrincipalFrom returns the principal attached by RequirePermission or RequireRoleName.
func PrincipalFrom(c *fiber.Ctx) *models.Principal {
	p, _ := c.Locals(principalLocal).(*models.Principal)
	return p
}
