package mail

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/pkg/config"
)

// Enqueuer lo que Queue necesita de *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue implementa ports.Mailer encolando tareas; no espera la entrega.
type Queue struct {
	client Enqueuer
}

var _ ports.Mailer = (*Queue)(nil)

// NewQueue construye el mailer sobre un cliente asynq.
func NewQueue(client Enqueuer) *Queue {
	return &Queue{client: client}
}

// RedisOpt conexión de asynq a partir de la configuración.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr(), Password: cfg.Password, DB: cfg.DB}
}

// NewClient cliente asynq para la API.
func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}

// NewServer servidor asynq del worker; solo atiende la cola de correo.
func NewServer(cfg config.RedisConfig, concurrency int, logger asynq.Logger) *asynq.Server {
	if concurrency <= 0 {
		concurrency = 10
	}
	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueName: 1},
		Logger:      logger,
	})
}

// SendVerification encola el enlace de verificación.
func (q *Queue) SendVerification(ctx context.Context, to, fullName, link string) error {
	task, err := NewVerificationTask(VerificationPayload{To: to, FullName: fullName, Link: link})
	if err != nil {
		return fmt.Errorf("mail: armar tarea: %w", err)
	}
	return q.enqueue(ctx, task)
}

// SendCredentials encola las credenciales iniciales.
func (q *Queue) SendCredentials(ctx context.Context, to, fullName, companyName, password, loginLink string) error {
	task, err := NewCredentialsTask(CredentialsPayload{
		To: to, FullName: fullName, CompanyName: companyName, Password: password, LoginLink: loginLink,
	})
	if err != nil {
		return fmt.Errorf("mail: armar tarea: %w", err)
	}
	return q.enqueue(ctx, task)
}

func (q *Queue) enqueue(ctx context.Context, task *asynq.Task) error {
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("mail: encolar %s: %w", task.Type(), err)
	}
	return nil
}
