package app

import (
	"context"
	"errors"
	"time"

	"azellar-portal/internal/config"
	"azellar-portal/internal/database"
	dbpostgres "azellar-portal/internal/database/postgres"
	"azellar-portal/internal/infrastructure/authapi"
	"azellar-portal/internal/infrastructure/cache"
	"azellar-portal/internal/infrastructure/persistence/postgres"
	"azellar-portal/internal/mail"
	"azellar-portal/internal/pkg/jwt"
	"azellar-portal/internal/session"
	"azellar-portal/internal/usecase/academy"
	"azellar-portal/internal/usecase/admin"
	"azellar-portal/internal/usecase/auth"
	"azellar-portal/internal/usecase/contact"
	"azellar-portal/internal/usecase/support"
	"azellar-portal/internal/ws"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the server.
type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Redis  *cache.Redis
	Auth   *authapi.Client
	Hub    *ws.Hub
	Relay  *mail.Relay

	Sessions *session.Store

	Companies *postgres.CompanyRepository

	AuthUC    *auth.Service
	AdminUC   *admin.Service
	SupportUC *support.Service
	AcademyUC *academy.Service
	ContactUC *contact.Service
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	rdb := cache.NewRedis(cfg.Redis, logger)
	authClient := authapi.NewClient(cfg.Backend, logger)
	hub := ws.NewHub(logger)
	relay := mail.NewRelay(mail.NewMailer(cfg.Mail.ResendAPIKey, logger), cfg.Mail, logger)

	profiles := postgres.NewProfileRepository(db)
	companies := postgres.NewCompanyRepository(db)
	tickets := postgres.NewTicketRepository(db)
	inquiries := postgres.NewInquiryRepository(db)
	courses := postgres.NewCourseRepository(db)
	enrollments := postgres.NewEnrollmentRepository(db)
	submissions := postgres.NewContactRepository(db)

	profileCache := session.NewRedisProfileCache(rdb)

	opts := session.Options{
		TTL:       cfg.Session.TTL,
		Cache:     profileCache,
		Publisher: hub,
		Logger:    logger.Named("session"),
	}
	if cfg.Backend.JWTSecret != "" {
		opts.Verifier = jwt.NewHMACVerifier(cfg.Backend.JWTSecret, cfg.Backend.JWTAudience)
	}
	store := session.NewStore(authClient, profiles, session.NewRepository(rdb), opts)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Redis:     rdb,
		Auth:      authClient,
		Hub:       hub,
		Relay:     relay,
		Sessions:  store,
		Companies: companies,

		AuthUC: auth.NewService(store),
		AdminUC: admin.NewService(admin.Deps{
			Companies: companies,
			Profiles:  profiles,
			Tickets:   tickets,
			Inquiries: inquiries,
			Users:     authClient,
			Cache:     profileCache,
			Logger:    logger.Named("admin"),
		}),
		SupportUC: support.NewService(tickets, companies, relay, logger.Named("support")),
		AcademyUC: academy.NewService(courses, enrollments, rdb, relay, logger.Named("academy")),
		ContactUC: contact.NewService(submissions, inquiries, relay, cfg.Mail.BlockedDomains, logger.Named("contact")),
	}, nil
}

// Close waits for background mail, then releases Redis and the pool.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Relay != nil {
		c.Relay.Wait()
	}

	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
