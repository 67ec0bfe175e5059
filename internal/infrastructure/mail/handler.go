package mail

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

// Handler procesa las tareas de correo en el worker.
type Handler struct {
	sender Sender
	log    *logger.Logger
}

// NewHandler construye el handler.
func NewHandler(sender Sender, log *logger.Logger) *Handler {
	return &Handler{sender: sender, log: log.Named("mail")}
}

// RegisterHandlers asocia cada tipo de tarea a su método.
func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeVerification, h.HandleVerification)
	mux.HandleFunc(TypeCredentials, h.HandleCredentials)
}

// HandleVerification envía el enlace de verificación. Un payload ilegible no se reintenta.
func (h *Handler) HandleVerification(ctx context.Context, t *asynq.Task) error {
	var p VerificationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	msg, err := RenderVerification(p)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return h.send(ctx, t.Type(), msg)
}

// HandleCredentials envía las credenciales iniciales.
func (h *Handler) HandleCredentials(ctx context.Context, t *asynq.Task) error {
	var p CredentialsPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	msg, err := RenderCredentials(p)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return h.send(ctx, t.Type(), msg)
}

func (h *Handler) send(ctx context.Context, taskType string, msg Message) error {
	if err := h.sender.Send(ctx, msg); err != nil {
		h.log.Error().Err(err).Str("task", taskType).Str("to", msg.To).Msg("envío de correo fallido")
		return err
	}
	h.log.Debug().Str("task", taskType).Str("to", msg.To).Msg("correo enviado")
	return nil
}

// AsynqLogger adapta el logger del proyecto a asynq.Logger.
type AsynqLogger struct {
	Log *logger.Logger
}

func (l AsynqLogger) Debug(args ...interface{}) { l.Log.Debug().Msg(fmt.Sprint(args...)) }
func (l AsynqLogger) Info(args ...interface{})  { l.Log.Info().Msg(fmt.Sprint(args...)) }
func (l AsynqLogger) Warn(args ...interface{})  { l.Log.Warn().Msg(fmt.Sprint(args...)) }
func (l AsynqLogger) Error(args ...interface{}) { l.Log.Error().Msg(fmt.Sprint(args...)) }
func (l AsynqLogger) Fatal(args ...interface{}) { l.Log.Fatal().Msg(fmt.Sprint(args...)) }
