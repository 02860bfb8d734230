package middleware

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/anjiri1684/spacehub/models"
	"github.com/anjiri1684/spacehub/services"
	"github.com/anjiri1684/spacehub/utils"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	PrincipalLocal = "principal"
	tokenIDKey     = "jti"
	tokenExpKey    = "token_exp"
)

type Auth struct {
	svc    *services.AuthService
	secret []byte
}

func NewAuth(svc *services.AuthService, secret string) *Auth {
	return &Auth{svc: svc, secret: []byte(secret)}
}

// Protected verifies the bearer token and resolves its principal.
func (a *Auth) Protected() []fiber.Handler {
	return []fiber.Handler{
		jwtware.New(jwtware.Config{
			SigningKey:   a.secret,
			ErrorHandler: jwtError,
		}),
		a.resolve,
	}
}

// ProtectedQuery is Protected for clients that cannot set headers, such as
// browser websockets. The token is read from ?token=.
func (a *Auth) ProtectedQuery() []fiber.Handler {
	return []fiber.Handler{
		jwtware.New(jwtware.Config{
			SigningKey:   a.secret,
			TokenLookup:  "query:token",
			ErrorHandler: jwtError,
		}),
		a.resolve,
	}
}

func jwtError(c *fiber.Ctx, err error) error {
	if strings.EqualFold(err.Error(), "Missing or malformed JWT") {
		return utils.Error(c, fiber.StatusBadRequest, "Missing or malformed JWT", "")
	}
	return utils.Error(c, fiber.StatusForbidden, "Invalid or expired JWT", "")
}

func (a *Auth) resolve(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return utils.Error(c, fiber.StatusForbidden, "Invalid or expired JWT", "")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return utils.Error(c, fiber.StatusForbidden, "Invalid or expired JWT", "")
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return utils.Error(c, fiber.StatusForbidden, "Invalid or expired JWT", "")
	}
	jti, _ := claims["jti"].(string)

	revoked, err := a.svc.IsRevoked(c.UserContext(), jti)
	if err != nil {
		log.Printf("🔥 Failed to check token revocation: %v", err)
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error", "")
	}
	if revoked {
		return utils.Error(c, fiber.StatusForbidden, "Token has been revoked", "")
	}

	principal, err := a.svc.ResolvePrincipal(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return utils.Error(c, fiber.StatusForbidden, "Invalid or expired JWT", "")
		}
		log.Printf("🔥 Failed to resolve principal %s: %v", id, err)
		return utils.Error(c, fiber.StatusInternalServerError, "Internal server error", "")
	}
	if role, _ := claims["role"].(string); role != string(principal.Kind) {
		return utils.Error(c, fiber.StatusForbidden, "Invalid or expired JWT", "")
	}

	var exp time.Time
	if v, ok := claims["exp"].(float64); ok {
		exp = time.Unix(int64(v), 0)
	}
	c.Locals(PrincipalLocal, principal)
	c.Locals(tokenIDKey, jti)
	c.Locals(tokenExpKey, exp)
	return c.Next()
}

// CurrentPrincipal returns the principal stored by Protected.
func CurrentPrincipal(c *fiber.Ctx) *services.Principal {
	p, _ := c.Locals(PrincipalLocal).(*services.Principal)
	return p
}

// CurrentToken returns the id and expiry of the presented token.
func CurrentToken(c *fiber.Ctx) (string, time.Time) {
	jti, _ := c.Locals(tokenIDKey).(string)
	exp, _ := c.Locals(tokenExpKey).(time.Time)
	return jti, exp
}

func RequireRole(kind models.PrincipalKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := CurrentPrincipal(c)
		if p == nil || p.Kind != kind {
			return utils.Error(c, fiber.StatusForbidden, "Forbidden: "+string(kind)+" access required", "")
		}
		return c.Next()
	}
}

func UserOnly() fiber.Handler  { return RequireRole(models.KindUser) }
func HostOnly() fiber.Handler  { return RequireRole(models.KindHost) }
func AdminOnly() fiber.Handler { return RequireRole(models.KindAdmin) }
