// Command createboss da de alta una cuenta de boss de plataforma.
//
//	BOSS_EMAIL=ops@example.com BOSS_FULL_NAME="Ops" BOSS_PASSWORD=... go run ./cmd/createboss
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/platform"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fieldsales-api/pkg/config"
	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "createboss"})

	in := dto.CreateBossRequest{
		Email:    os.Getenv("BOSS_EMAIL"),
		FullName: os.Getenv("BOSS_FULL_NAME"),
		Password: os.Getenv("BOSS_PASSWORD"),
	}
	if in.Email == "" || in.Password == "" {
		log.Fatal().Msg("BOSS_EMAIL y BOSS_PASSWORD son obligatorios")
	}
	if in.FullName == "" {
		in.FullName = "Boss"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if _, err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	boss, err := platform.NewBossUseCase(postgres.NewBossRepository(pool)).Create(ctx, in)
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		log.Warn().Str("email", in.Email).Msg("ya existe un boss con ese email")
	case err != nil:
		log.Fatal().Err(err).Msg("crear boss")
	default:
		log.Info().Str("id", boss.ID).Str("email", boss.Email).Msg("boss creado")
	}
}
