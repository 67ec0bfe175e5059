package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"

	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

// RequestLogger registra método, ruta, estado y latencia de cada petición.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return err
	}
}

// RateLimit limita por IP con un limitador de ulule. Un fallo del store deja pasar la petición.
func RateLimit(l *limiter.Limiter, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := l.Get(c.UserContext(), c.IP())
		if err != nil {
			log.Warn().Err(err).Str("path", c.Path()).Msg("rate limit no disponible")
			return c.Next()
		}
		c.Set("X-RateLimit-Limit", strconv.FormatInt(res.Limit, 10))
		c.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(res.Reset, 10))
		if res.Reached {
			return fail(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "demasiados intentos, espere un momento")
		}
		return c.Next()
	}
}
