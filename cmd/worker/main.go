package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/jhoicas/fieldsales-api/internal/infrastructure/mail"
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
		Service: "worker",
	})

	var sender mail.Sender = mail.NewLogSender(log)
	if cfg.Mail.Enabled {
		sender = mail.NewSMTPSender(cfg.Mail)
	} else {
		log.Warn().Msg("MAIL_ENABLED=false: los emails solo se registran en el log")
	}

	srv := mail.NewServer(cfg.Redis, cfg.Worker.Concurrency, mail.AsynqLogger{Log: log.Named("asynq")})
	mux := asynq.NewServeMux()
	mail.NewHandler(sender, log).RegisterHandlers(mux)

	if err := srv.Start(mux); err != nil {
		log.Fatal().Err(err).Msg("iniciar worker")
	}
	log.Info().Int("concurrency", cfg.Worker.Concurrency).Msg("worker iniciado, esperando tareas...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando worker...")
	srv.Shutdown()
	log.Info().Msg("worker detenido")
}
