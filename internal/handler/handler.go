package handler

import (
	"quizhub/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the JSON body into out. An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	return nil
}
