package middleware

import (
	"context"

	"quizhub/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// CurrentUserKey holds the *domain.User resolved for the caller.
const CurrentUserKey = "currentUser"

// UserResolver loads the caller's account from the verified identity subject.
type UserResolver interface {
	GetSessionUser(ctx context.Context, authID string) (*domain.User, error)
}

// LoadUser resolves the caller's account. It answers 404 when the caller has not
// signed up and 403 for the placeholder. Must run after Protected.
func LoadUser(resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolver.GetSessionUser(c.UserContext(), AuthID(c))
		if err != nil {
			return err
		}
		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// RequireActiveUser is LoadUser plus the pending-deletion lock: an account
// waiting for deletion may still read, but every other method answers 423.
func RequireActiveUser(resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolver.GetSessionUser(c.UserContext(), AuthID(c))
		if err != nil {
			return err
		}
		if user.Status() == domain.StatusPendingDeletion && c.Method() != fiber.MethodGet {
			return domain.NewAccountLockedError(user.Username)
		}
		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// SelfOnly rejects requests whose :param differs from the caller's user id.
func SelfOnly(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || user.ID != c.Params(param) {
			return domain.NewForbiddenError("You can only act on your own account")
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by LoadUser or RequireActiveUser.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(CurrentUserKey).(*domain.User)
	return user
}
