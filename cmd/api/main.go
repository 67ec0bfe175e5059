package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/ulule/limiter/v3"

	"github.com/jhoicas/fieldsales-api/internal/application/auth"
	"github.com/jhoicas/fieldsales-api/internal/application/orders"
	"github.com/jhoicas/fieldsales-api/internal/application/platform"
	"github.com/jhoicas/fieldsales-api/internal/application/staff"
	"github.com/jhoicas/fieldsales-api/internal/application/usecase"
	"github.com/jhoicas/fieldsales-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/fieldsales-api/internal/infrastructure/pdf"
	"github.com/jhoicas/fieldsales-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fieldsales-api/internal/infrastructure/ratelimit"
	httpRouter "github.com/jhoicas/fieldsales-api/internal/interfaces/http"
	"github.com/jhoicas/fieldsales-api/pkg/config"
	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: "api",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.MigrateOnStart {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		for _, name := range applied {
			log.Info().Str("migration", name).Msg("migración aplicada")
		}
	}

	repos := postgres.NewRepositories(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Emails: se encolan en asynq y los envía cmd/worker.
	queueClient := mail.NewClient(cfg.Redis)
	defer queueClient.Close()
	mailer := mail.NewQueue(queueClient)

	authUC := auth.NewAuthUseCase(repos, txRunner, mailer, log, auth.Config{
		Secret:     cfg.Session.TenantSecret,
		Issuer:     cfg.Session.Issuer,
		TTLMinutes: cfg.Session.TenantTTLMinutes,
		BaseURL:    cfg.App.BaseURL,
		TrialDays:  cfg.App.SignupTrialDays,
	})
	bossAuthUC := auth.NewBossAuthUseCase(repos.Bosses, auth.Config{
		Secret:     cfg.Session.BossSecret,
		Issuer:     cfg.Session.Issuer,
		TTLMinutes: cfg.Session.BossTTLMinutes,
	})
	orderUC := orders.NewOrderUseCase(repos, txRunner, infrapdf.NewMarotoPDFGenerator(), log, orders.Config{
		AllowCancelAfterShip: cfg.App.AllowCancelAfterShip,
	})

	var loginLimiter *limiter.Limiter
	if cfg.RateLimit.Enabled {
		loginLimiter = newLoginLimiter(ctx, cfg, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowCredentials: cfg.HTTP.CORSOrigins != "*",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Field Sales API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		BossAuthUC:   bossAuthUC,
		StaffUC:      staff.NewStaffUseCase(repos, txRunner, mailer, log, cfg.App.BaseURL),
		ShopUC:       usecase.NewShopUseCase(repos.Shops),
		AssignmentUC: usecase.NewAssignmentUseCase(repos, txRunner),
		LeadUC:       usecase.NewLeadUseCase(repos, txRunner),
		ProductUC:    usecase.NewProductUseCase(repos, txRunner),
		OrderUC:      orderUC,
		CompanyUC:    platform.NewCompanyUseCase(repos, txRunner, log),
		BossUC:       platform.NewBossUseCase(repos.Bosses),
		Cookies:      httpRouter.CookieConfig{Secure: cfg.Session.CookieSecure},
		LoginLimiter: loginLimiter,
		Log:          log,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newLoginLimiter usa redis para compartir contadores entre réplicas; sin redis cae a memoria.
func newLoginLimiter(ctx context.Context, cfg *config.Config, log *logger.Logger) *limiter.Limiter {
	client := ratelimit.NewRedisClient(cfg.Redis)
	l, err := ratelimit.NewRedis(ctx, client, cfg.RateLimit.Login, "login")
	if err == nil {
		return l
	}
	log.Warn().Err(err).Msg("rate limit en memoria del proceso")
	_ = client.Close()
	l, err = ratelimit.NewMemory(cfg.RateLimit.Login, "login")
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.RateLimit.Login).Msg("RATE_LIMIT_LOGIN inválido")
	}
	return l
}
