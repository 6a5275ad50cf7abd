package routes

import (
	"azellar-portal/internal/access"
	"azellar-portal/internal/delivery/http/handler"
	"azellar-portal/internal/delivery/http/middleware"
	"azellar-portal/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Health  *handler.HealthHandler
	Pages   *handler.PageHandler
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Admin   *handler.AdminHandler
	Support *handler.SupportHandler
	Academy *handler.AcademyHandler
	Public  *handler.PublicHandler
	Mail    *handler.MailHandler
	WS      *ws.Handler
}

type Registry struct {
	h     Handlers
	guard *middleware.Guard
}

func NewRegistry(h Handlers, guard *middleware.Guard) *Registry {
	if guard == nil {
		guard = middleware.NewGuard()
	}
	return &Registry{h: h, guard: guard}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
	r.registerRealtime(app)
	r.registerPages(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.h.Health != nil {
		r.h.Health.RegisterRoutes(app)
	}
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")

	if r.h.Mail != nil {
		r.h.Mail.RegisterRoutes(api)
	}
	if r.h.Public != nil {
		r.h.Public.RegisterRoutes(api)
	}
	if r.h.Auth != nil {
		r.h.Auth.RegisterRoutes(api.Group("/auth"))
	}
	if r.h.User != nil {
		r.h.User.RegisterRoutes(api)
	}
	if r.h.Admin != nil {
		r.h.Admin.RegisterRoutes(api.Group("/admin", r.guard.API(access.AdminOnly)))
	}
	if r.h.Support != nil {
		r.h.Support.RegisterRoutes(api.Group("/support", r.guard.API(access.SupportRoles)))
	}
	if r.h.Academy != nil {
		r.h.Academy.RegisterRoutes(api.Group("/academy", r.guard.API(access.AcademyRoles)))
	}
}

func (r *Registry) registerRealtime(app *fiber.App) {
	if r.h.WS != nil {
		r.h.WS.RegisterRoutes(app)
	}
}

func (r *Registry) registerPages(app *fiber.App) {
	if r.h.Pages != nil {
		r.h.Pages.RegisterRoutes(app)
	}
}
