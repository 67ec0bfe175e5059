package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/fieldsales-api/internal/application/auth"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// Cookies de sesión. Tenant y boss son independientes.
const (
	TenantCookie = "kora_session"
	BossCookie   = "kora_boss_session"
)

// Locals keys.
const (
	LocalSession = "session"
	LocalBoss    = "boss"
)

// tenantResolver lo implementa *auth.AuthUseCase.
type tenantResolver interface {
	Resolve(ctx context.Context, token string) (*auth.Session, error)
}

// bossResolver lo implementa *auth.BossAuthUseCase.
type bossResolver interface {
	Resolve(ctx context.Context, token string) (*entity.Boss, error)
}

// SessionMiddleware resuelve la sesión de tenant desde la cookie o el Bearer token.
// Membresía, rol y suscripción se recargan en cada petición.
func SessionMiddleware(resolver tenantResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c, TenantCookie)
		if token == "" {
			return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sesión requerida")
		}
		s, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalSession, s)
		return c.Next()
	}
}

// BossSessionMiddleware resuelve la sesión de la consola de plataforma.
func BossSessionMiddleware(resolver bossResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := sessionToken(c, BossCookie)
		if token == "" {
			return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sesión de boss requerida")
		}
		b, err := resolver.Resolve(c.UserContext(), token)
		if err != nil {
			return respondError(c, err)
		}
		c.Locals(LocalBoss, b)
		return c.Next()
	}
}

// RequireRole corta con 401 sin sesión y 403 si el rol no está en la lista.
// Debe ir después de SessionMiddleware.
func RequireRole(list access.AllowList) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := GetSession(c)
		if s == nil {
			return fail(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "sesión requerida")
		}
		if !access.Allowed(s.Actor.Role, list) {
			return fail(c, fiber.StatusForbidden, "FORBIDDEN",
				"rol "+string(s.Actor.Role)+" no autorizado; se requiere: "+strings.Join(list.Strings(), ", "))
		}
		return c.Next()
	}
}

// sessionToken cookie primero; si no hay, Authorization: Bearer.
func sessionToken(c *fiber.Ctx, cookie string) string {
	if v := strings.TrimSpace(c.Cookies(cookie)); v != "" {
		return v
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetSession sesión de tenant del contexto (nil fuera de SessionMiddleware).
func GetSession(c *fiber.Ctx) *auth.Session {
	s, _ := c.Locals(LocalSession).(*auth.Session)
	return s
}

// GetActor actor de la sesión; vacío si no hay sesión.
func GetActor(c *fiber.Ctx) access.Actor {
	if s := GetSession(c); s != nil {
		return s.Actor
	}
	return access.Actor{}
}

// GetRole rol de la sesión.
func GetRole(c *fiber.Ctx) string {
	return string(GetActor(c).Role)
}

// GetBoss boss autenticado (nil fuera de BossSessionMiddleware).
func GetBoss(c *fiber.Ctx) *entity.Boss {
	b, _ := c.Locals(LocalBoss).(*entity.Boss)
	return b
}

// ValidateID rechaza con 400 un parámetro de ruta que no es UUID.
func ValidateID(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := uuid.Parse(c.Params(param)); err != nil {
			return fail(c, fiber.StatusBadRequest, "INVALID_ID", param+" debe ser un UUID")
		}
		return c.Next()
	}
}

// CookieConfig atributos de las cookies de sesión.
type CookieConfig struct {
	Secure bool
}

func (cc CookieConfig) set(c *fiber.Ctx, name, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   cc.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (cc CookieConfig) clear(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   cc.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
