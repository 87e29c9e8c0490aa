package middleware

import (
	"time"

	"quizhub/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestIDKey matches the default context key of fiber's requestid middleware.
const RequestIDKey = "requestid"

// RequestLogger logs one line per request once the handler chain has finished.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// Let the error handler write the response so the logged status is final.
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.Any("request_id", c.Locals(RequestIDKey)),
		}
		if authID := AuthID(c); authID != "" {
			fields = append(fields, zap.String("auth_id", authID))
		}

		status := c.Response().StatusCode()
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Get().Error("Request completed", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Get().Warn("Request completed", fields...)
		default:
			logger.Get().Info("Request completed", fields...)
		}
		return nil
	}
}
