package mail

import (
	"bytes"
	"fmt"
	"html/template"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`<!doctype html>
<html><body style="font-family:Arial,sans-serif;color:#1f2937">
<p>Hola {{.FullName}},</p>
<p>Confirma tu email para activar tu cuenta:</p>
<p><a href="{{.Link}}" style="background:#2563eb;color:#fff;padding:10px 16px;border-radius:6px;text-decoration:none">Verificar email</a></p>
<p style="font-size:12px;color:#6b7280">El enlace vence en 24 horas. Si no creaste esta cuenta, ignora este mensaje.</p>
</body></html>`))

var credentialsTmpl = template.Must(template.New("credentials").Parse(`<!doctype html>
<html><body style="font-family:Arial,sans-serif;color:#1f2937">
<p>Hola {{.FullName}},</p>
<p>Te dieron acceso a <strong>{{.CompanyName}}</strong>. Tus credenciales:</p>
<table cellpadding="4">
<tr><td>Email</td><td><strong>{{.To}}</strong></td></tr>
<tr><td>Contraseña</td><td><code>{{.Password}}</code></td></tr>
</table>
<p><a href="{{.LoginLink}}">Ingresar</a></p>
</body></html>`))

// Message correo listo para enviar.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// RenderVerification arma el correo de verificación.
func RenderVerification(p VerificationPayload) (Message, error) {
	html, err := render(verificationTmpl, p)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      p.To,
		Subject: "Verifica tu email",
		HTML:    html,
		Text:    fmt.Sprintf("Hola %s,\n\nConfirma tu email: %s\n\nEl enlace vence en 24 horas.\n", p.FullName, p.Link),
	}, nil
}

// RenderCredentials arma el correo de bienvenida con credenciales.
func RenderCredentials(p CredentialsPayload) (Message, error) {
	html, err := render(credentialsTmpl, p)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      p.To,
		Subject: fmt.Sprintf("Tu acceso a %s", p.CompanyName),
		HTML:    html,
		Text: fmt.Sprintf("Hola %s,\n\nTe dieron acceso a %s.\nEmail: %s\nContraseña: %s\nIngresar: %s\n",
			p.FullName, p.CompanyName, p.To, p.Password, p.LoginLink),
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
