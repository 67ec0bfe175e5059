package ports

import "context"

// Mailer puerto de salida para los correos transaccionales.
// Las implementaciones encolan y no esperan la entrega: un error aquí no deshace la operación de negocio.
type Mailer interface {
	// SendVerification enlace de verificación de email.
	SendVerification(ctx context.Context, to, fullName, link string) error
	// SendCredentials credenciales iniciales de un miembro invitado.
	SendCredentials(ctx context.Context, to, fullName, companyName, password, loginLink string) error
}
