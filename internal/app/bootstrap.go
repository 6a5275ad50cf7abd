package app

import (
	"context"
	"fmt"
	"strings"

	"azellar-portal/internal/config"
	"azellar-portal/internal/delivery/http/handler"
	"azellar-portal/internal/delivery/http/middleware"
	"azellar-portal/internal/delivery/http/routes"
	"azellar-portal/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the fiber app on an already wired container.
func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	sessions := middleware.NewSessionMiddleware(c.Sessions, c.Config.Session)
	registerGlobalMiddleware(f, c.Config, c.Logger, sessions)

	guard := middleware.NewGuard()
	routes.NewRegistry(routes.Handlers{
		Health:  handler.NewHealthHandler(c.DB, c.Redis),
		Pages:   handler.NewPageHandler(guard, c.AdminUC, c.SupportUC, c.AcademyUC, c.Companies),
		Auth:    handler.NewAuthHandler(c.AuthUC, sessions),
		User:    handler.NewUserHandler(c.AuthUC, c.Sessions),
		Admin:   handler.NewAdminHandler(c.AdminUC),
		Support: handler.NewSupportHandler(c.SupportUC),
		Academy: handler.NewAcademyHandler(c.AcademyUC),
		Public:  handler.NewPublicHandler(c.ContactUC),
		Mail:    handler.NewMailHandler(c.Relay),
		WS:      ws.NewHandler(c.Hub, c.Logger.Named("ws")),
	}, guard).Register(f)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container, starts the websocket hub and returns the
// app with its cleanup.
func Bootstrap(cfg config.Config, logger *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	go c.Hub.Run(hubCtx)

	app := New(c)
	cleanup := func() error {
		stopHub()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, cfg config.Config, logger *zap.Logger, sessions *middleware.SessionMiddleware) {
	if app == nil {
		return
	}

	app.Use(corsMiddleware(cfg.App.CORSAllowOrigins))
	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
	app.Use(sessions.Middleware())
}

// corsMiddleware allows credentials only for an explicit origin list.
func corsMiddleware(origins []string) fiber.Handler {
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		return cors.New()
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowCredentials: true,
	})
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
