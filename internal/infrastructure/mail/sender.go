package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/fieldsales-api/pkg/config"
	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

// Sender entrega un mensaje ya renderizado.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender envía por SMTP con gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender construye el sender desde MailConfig.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send arma el MIME multipart (texto + html) y lo entrega.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	m.AddAlternative("text/html", msg.HTML)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: enviar a %s: %w", msg.To, err)
	}
	return nil
}

// LogSender solo registra el envío; se usa con MAIL_ENABLED=false.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender construye el sender de desarrollo.
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

// Send registra destinatario y asunto.
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("correo no enviado: MAIL_ENABLED=false")
	return nil
}
