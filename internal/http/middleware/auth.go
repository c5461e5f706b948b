package middleware

import (
	"github.com/gofiber/fiber/v2"

	"snipdesk/internal/auth"
	"snipdesk/internal/model"
)

// UserLocalKey is the key under which Auth stores the caller's model.User.
const UserLocalKey = "user"

// Auth resolves the caller from an optional bearer token.
//
// Behavior:
// - No Authorization header: the caller is model.Anonymous.
// - A valid token: the caller is model.Authenticated.
// - A token that fails verification: 401, so a stale session is noticed instead of silently downgraded.
// - Verification disabled (no secret): any token is ignored and the caller is anonymous.
func Auth(v *auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user model.User = model.Anonymous{}

		if token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization)); ok && v.Enabled() {
			u, err := v.Verify(token)
			if err != nil {
				return fiber.ErrUnauthorized
			}
			user = u
		}

		c.Locals(UserLocalKey, user)
		return c.Next()
	}
}

// UserFromCtx returns the caller stored by Auth, or model.Anonymous when Auth did not run.
func UserFromCtx(c *fiber.Ctx) model.User {
	if u, ok := c.Locals(UserLocalKey).(model.User); ok {
		return u
	}
	return model.Anonymous{}
}
