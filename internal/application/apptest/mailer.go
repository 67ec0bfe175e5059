package apptest

import (
	"context"
	"sync"
)

// SentMail correo registrado por RecordingMailer.
type SentMail struct {
	Kind     string // verification | credentials
	To       string
	Name     string
	Link     string
	Password string
}

// RecordingMailer implementa ports.Mailer guardando los envíos. Err, si no es nil, se devuelve siempre.
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

func (m *RecordingMailer) SendVerification(_ context.Context, to, fullName, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{Kind: "verification", To: to, Name: fullName, Link: link})
	return m.Err
}

func (m *RecordingMailer) SendCredentials(_ context.Context, to, fullName, _, password, loginLink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{Kind: "credentials", To: to, Name: fullName, Link: loginLink, Password: password})
	return m.Err
}

// Count envíos de un tipo.
func (m *RecordingMailer) Count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.Sent {
		if s.Kind == kind {
			n++
		}
	}
	return n
}
