package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
	"github.com/jhoicas/fieldsales-api/pkg/jwt"
)

// BossAuthUseCase login y sesión de la consola de plataforma. Usa un secreto propio:
// un token de tenant nunca autentica aquí.
type BossAuthUseCase struct {
	bosses repository.BossRepository
	cfg    Config
	now    ports.Clock
}

// NewBossAuthUseCase construye el caso de uso; cfg.Secret debe ser el secreto de boss.
func NewBossAuthUseCase(bosses repository.BossRepository, cfg Config) *BossAuthUseCase {
	return &BossAuthUseCase{bosses: bosses, cfg: cfg, now: ports.SystemClock}
}

// Login verifica credenciales y emite el token de boss.
func (uc *BossAuthUseCase) Login(ctx context.Context, in dto.BossLoginRequest) (*dto.BossLoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son obligatorios", domain.ErrInvalidInput)
	}
	boss, err := uc.bosses.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if boss == nil || bcrypt.CompareHashAndPassword([]byte(boss.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	token, err := jwt.GenerateBoss(uc.cfg.Secret, uc.cfg.Issuer, uc.cfg.TTLMinutes, boss.ID)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	return &dto.BossLoginResponse{
		Token:     token,
		ExpiresAt: uc.now().Add(time.Duration(uc.cfg.TTLMinutes) * time.Minute),
		Boss:      ToBossResponse(boss),
	}, nil
}

// Resolve valida el token y carga el boss; ErrUnauthorized si ya no existe.
func (uc *BossAuthUseCase) Resolve(ctx context.Context, token string) (*entity.Boss, error) {
	bossID, err := jwt.ParseBoss(uc.cfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	boss, err := uc.bosses.GetByID(ctx, bossID)
	if err != nil {
		return nil, err
	}
	if boss == nil {
		return nil, domain.ErrUnauthorized
	}
	return boss, nil
}

// ToBossResponse mapea la entidad sin exponer el hash.
func ToBossResponse(b *entity.Boss) dto.BossResponse {
	return dto.BossResponse{ID: b.ID, Email: b.Email, FullName: b.FullName, CreatedAt: b.CreatedAt}
}
