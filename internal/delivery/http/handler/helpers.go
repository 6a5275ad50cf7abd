package handler

import (
	"azellar-portal/internal/delivery/http/middleware"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/session"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

func stateOf(c fiber.Ctx) session.State {
	st, _ := middleware.StateFrom(c)
	return st
}

// actorOf returns the caller's profile. Guards have already run, so a missing
// profile means it is still loading.
func actorOf(c fiber.Ctx) (profile.Profile, error) {
	st := stateOf(c)
	if !st.Authenticated {
		return profile.Profile{}, middleware.NewAppError(fiber.StatusUnauthorized, "Authentication required", nil, nil)
	}
	if st.Profile == nil {
		c.Set(fiber.HeaderRetryAfter, "1")
		return profile.Profile{}, middleware.NewAppError(fiber.StatusServiceUnavailable, "Profile is loading, retry shortly", nil, nil)
	}
	return *st.Profile, nil
}

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return id, nil
}

func uuidQuery(c fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+name, nil, err)
	}
	return &id, nil
}

func bindBody(c fiber.Ctx, out any) error {
	if err := c.Bind().Body(out); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
	}
	return nil
}
