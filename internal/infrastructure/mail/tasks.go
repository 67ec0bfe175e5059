// Package mail entrega los correos transaccionales en segundo plano: la API encola tareas asynq
// y el worker las renderiza y envía por SMTP.
package mail

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Tipos de tarea.
const (
	TypeVerification = "mail:verification"
	TypeCredentials  = "mail:credentials"
)

// Opciones comunes de encolado.
const (
	QueueName   = "mail"
	maxRetry    = 5
	taskTimeout = 30 * time.Second
)

// VerificationPayload enlace de verificación de email.
type VerificationPayload struct {
	To       string `json:"to"`
	FullName string `json:"full_name"`
	Link     string `json:"link"`
}

// CredentialsPayload credenciales iniciales de un miembro invitado.
type CredentialsPayload struct {
	To          string `json:"to"`
	FullName    string `json:"full_name"`
	CompanyName string `json:"company_name"`
	Password    string `json:"password"`
	LoginLink   string `json:"login_link"`
}

// NewVerificationTask tarea de verificación.
func NewVerificationTask(p VerificationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeVerification, data, asynq.Queue(QueueName), asynq.MaxRetry(maxRetry), asynq.Timeout(taskTimeout)), nil
}

// NewCredentialsTask tarea de credenciales. La contraseña viaja en el payload, por eso la tarea
// no usa asynq.Retention: al completarse se borra de redis.
func NewCredentialsTask(p CredentialsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCredentials, data, asynq.Queue(QueueName), asynq.MaxRetry(maxRetry), asynq.Timeout(taskTimeout)), nil
}
