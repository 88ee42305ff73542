package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"

	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/auth"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/caja"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/tramites"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/application/usecase"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/offline"
	infrapdf "github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/pdf"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/postgres"
	"github.com/egniscano-stack/sigma-changuinola-sub000/internal/infrastructure/realtime"
	httpRouter "github.com/egniscano-stack/sigma-changuinola-sub000/internal/interfaces/http"
	"github.com/egniscano-stack/sigma-changuinola-sub000/pkg/config"
	"github.com/egniscano-stack/sigma-changuinola-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	taxpayerRepo := postgres.NewTaxpayerRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	requestRepo := postgres.NewAdminRequestRepository(pool)
	configRepo := postgres.NewTaxConfigRepository(pool)
	operatorRepo := postgres.NewOperatorRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Bus de eventos en memoria + listener de NOTIFY de PostgreSQL.
	// Los cambios hechos por esta instancia se publican directo desde los
	// casos de uso; el listener cubre los cambios de otras instancias.
	bus := realtime.NewBus()
	listener := postgres.NewListener(pool, bus, log)
	go listener.Run(ctx)

	// Traza de auditoría ligera de los cambios que viajan por el bus.
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()
	go func() {
		for evt := range events {
			log.Debug().
				Str("entidad", string(evt.Entity)).
				Str("evento", string(evt.Type)).
				Str("id", evt.ID).
				Msg("cambio publicado")
		}
	}()

	// Cola local de pagos para operar sin conectividad con la base.
	queue, err := offline.NewFileQueue(cfg.Offline.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Offline.Dir).Msg("cola offline")
	}

	authUC := auth.NewAuthUseCase(operatorRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	taxpayerUC := usecase.NewTaxpayerUseCase(taxpayerRepo, bus)
	configUC := usecase.NewConfigUseCase(configRepo)
	debtUC := usecase.NewDebtUseCase(taxpayerRepo, transactionRepo, configRepo)
	paymentUC := caja.NewPaymentUseCase(transactionRepo, taxpayerRepo, queue, bus)
	requestUC := tramites.NewRequestUseCase(requestRepo, transactionRepo, taxpayerRepo, txRunner, bus)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.Municipio{
		Name:     cfg.Municipio.Name,
		District: cfg.Municipio.District,
		RUC:      cfg.Municipio.RUC,
	})

	// Reintento automático de la cola offline.
	sched := cron.New()
	if _, err := sched.AddFunc(cfg.Offline.DrainSchedule, func() {
		res, err := paymentUC.SyncPending()
		if err != nil {
			log.Warn().Err(err).Msg("sincronización de pagos pendientes")
			return
		}
		if res.Synced > 0 || res.Failed > 0 {
			log.Info().
				Int("sincronizados", res.Synced).
				Int("fallidos", res.Failed).
				Msg("cola offline drenada")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Offline.DrainSchedule).Msg("programar drenaje offline")
	}
	sched.Start()
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SIGMA Changuinola API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		TaxpayerUC: taxpayerUC,
		DebtUC:     debtUC,
		ConfigUC:   configUC,
		PaymentUC:  paymentUC,
		RequestUC:  requestUC,
		Bus:        bus,
		PDFGen:     pdfGenerator,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
