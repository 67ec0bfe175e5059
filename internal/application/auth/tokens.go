package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

// VerificationTTL vigencia del enlace de verificación de email.
const VerificationTTL = 24 * time.Hour

// HashToken sha256 hex del token en claro; es lo único que se persiste.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// IssueVerification crea un token email_verify para userID y devuelve el valor en claro.
func IssueVerification(ctx context.Context, tokens repository.TokenRepository, userID string, now time.Time) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	raw := hex.EncodeToString(buf)
	err := tokens.Create(ctx, &entity.UserToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Purpose:   entity.TokenPurposeEmailVerify,
		TokenHash: HashToken(raw),
		ExpiresAt: now.Add(VerificationTTL),
		CreatedAt: now,
	})
	if err != nil {
		return "", err
	}
	return raw, nil
}

// VerificationLink enlace absoluto al endpoint de verificación.
func VerificationLink(baseURL, raw string) string {
	return baseURL + "/api/auth/verify-email?token=" + url.QueryEscape(raw)
}

// LoginLink página de login del frontend.
func LoginLink(baseURL string) string {
	return baseURL + "/auth/login"
}
