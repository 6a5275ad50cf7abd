package middleware

import (
	"strconv"

	"azellar-portal/internal/access"
	"azellar-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// RetryAfterSeconds is sent while the session is still being resolved.
const RetryAfterSeconds = 1

// Guard turns access decisions into HTTP answers. Pages are redirected;
// API callers get 401/403 with the redirect target as data.
type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

func decide(c fiber.Ctx, p access.Policy) access.Decision {
	st, _ := StateFrom(c)
	return access.Decide(p.Request(st.Loading, st.Authenticated, st.Profile, c.OriginalURL()))
}

// Page guards a page route.
func (g *Guard) Page(p access.Policy) fiber.Handler {
	return func(c fiber.Ctx) error {
		d := decide(c, p)
		switch d.Kind {
		case access.Loading:
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(RetryAfterSeconds))
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"loading": true})
		case access.Redirect:
			return c.Redirect().Status(fiber.StatusFound).To(d.RedirectTo)
		default:
			return c.Next()
		}
	}
}

// API guards a JSON route.
func (g *Guard) API(p access.Policy) fiber.Handler {
	return func(c fiber.Ctx) error {
		d := decide(c, p)
		switch d.Kind {
		case access.Loading:
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(RetryAfterSeconds))
			return NewAppError(fiber.StatusServiceUnavailable, "Session is loading, retry shortly", nil, nil)
		case access.Redirect:
			st, _ := StateFrom(c)
			data := response.Redirect{RedirectTo: d.RedirectTo}
			if !st.Authenticated {
				return NewAppError(fiber.StatusUnauthorized, "Authentication required", data, nil)
			}
			return NewAppError(fiber.StatusForbidden, "You do not have access to this resource", data, nil)
		default:
			return c.Next()
		}
	}
}
