package main

import (
	"context"
	"os"

	"github.com/complianceassoc/portal/config"
	"github.com/complianceassoc/portal/internal/gateway"
	"github.com/complianceassoc/portal/internal/handler"
	"github.com/complianceassoc/portal/internal/middleware"
	"github.com/complianceassoc/portal/internal/notifier"
	"github.com/complianceassoc/portal/internal/repository"
	"github.com/complianceassoc/portal/internal/service"
	"github.com/complianceassoc/portal/pkg/database"
	"github.com/complianceassoc/portal/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN(), log)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer publisher.Close()

	consumer, err := rabbitmq.NewConsumer(cfg.RabbitURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open RabbitMQ consumer")
	}
	defer consumer.Close()

	eventRepo := repository.NewEventRepository(db)
	regRepo := repository.NewRegistrationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	stripeClient := gateway.NewStripeClient(cfg.StripeSecretKey)

	catalogSvc := service.NewCatalogService(eventRepo)
	regSvc := service.NewRegistrationService(regRepo, eventRepo, nil)
	paymentSvc := service.NewPaymentService(
		paymentRepo, regRepo, eventRepo, membershipRepo,
		stripeClient, publisher, cfg.Currency, nil, log,
	)
	membershipSvc := service.NewMembershipService(membershipRepo, cfg.MembershipFeeCents)
	adminSvc := service.NewAdminService(regRepo, eventRepo, nil, log)

	mailer := notifier.NewMailer(notifier.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPFrom,
		Password: cfg.SMTPPassword,
	}, log)

	msgs, err := consumer.Consume()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start consuming")
	}
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()
	notifier.NewWorker(mailer, log).Start(workerCtx, msgs)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Info().Str("method", v.Method).Str("uri", v.URI).Int("status", v.Status).Msg("request")
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "portal"})
	})

	handler.NewCatalogHandler(catalogSvc).RegisterRoutes(e.Group("/api/public"))
	handler.NewRegistrationHandler(regSvc).RegisterRoutes(e)
	handler.NewPaymentHandler(paymentSvc).RegisterRoutes(e)
	handler.NewMembershipHandler(membershipSvc).RegisterRoutes(e)

	admin := e.Group("/api/admin", middleware.AdminAuth(cfg.AdminJWTSecret))
	handler.NewAdminHandler(adminSvc).RegisterRoutes(admin)

	log.Info().Str("port", cfg.ServerPort).Msg("portal starting")
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
