package platform

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/fieldsales-api/internal/application/auth"
	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

const minBossPassword = 8

// BossUseCase alta, edición y baja de operadores de la plataforma.
type BossUseCase struct {
	bosses repository.BossRepository
	now    ports.Clock
}

// NewBossUseCase construye el caso de uso.
func NewBossUseCase(bosses repository.BossRepository) *BossUseCase {
	return &BossUseCase{bosses: bosses, now: ports.SystemClock}
}

// List todos los bosses.
func (uc *BossUseCase) List(ctx context.Context) ([]dto.BossResponse, error) {
	list, err := uc.bosses.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BossResponse, 0, len(list))
	for _, b := range list {
		out = append(out, auth.ToBossResponse(b))
	}
	return out, nil
}

// Create alta de un boss. También la usa el comando createboss para el primer operador.
func (uc *BossUseCase) Create(ctx context.Context, in dto.CreateBossRequest) (*dto.BossResponse, error) {
	email, err := bossEmail(in.Email)
	if err != nil {
		return nil, err
	}
	name, err := bossName(in.FullName)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	b := &entity.Boss{
		ID:           uuid.New().String(),
		Email:        email,
		FullName:     name,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.bosses.Create(ctx, b); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: ya existe un boss con ese email", domain.ErrDuplicate)
		}
		return nil, err
	}
	resp := auth.ToBossResponse(b)
	return &resp, nil
}

// Update edita email y nombre de cualquier boss; la contraseña solo la cambia su dueño.
func (uc *BossUseCase) Update(ctx context.Context, actorBossID, id string, in dto.UpdateBossRequest) (*dto.BossResponse, error) {
	b, err := uc.bosses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: boss no encontrado", domain.ErrNotFound)
	}
	if in.Email == nil && in.FullName == nil && in.Password == nil {
		return nil, fmt.Errorf("%w: nada para actualizar", domain.ErrInvalidInput)
	}
	if in.Email != nil {
		if b.Email, err = bossEmail(*in.Email); err != nil {
			return nil, err
		}
	}
	if in.FullName != nil {
		if b.FullName, err = bossName(*in.FullName); err != nil {
			return nil, err
		}
	}
	if in.Password != nil {
		if actorBossID != b.ID {
			return nil, fmt.Errorf("%w: solo el propio boss puede cambiar su contraseña", domain.ErrForbidden)
		}
		if b.PasswordHash, err = hashPassword(*in.Password); err != nil {
			return nil, err
		}
	}
	b.UpdatedAt = uc.now()
	if err := uc.bosses.Update(ctx, b); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: ya existe un boss con ese email", domain.ErrDuplicate)
		}
		return nil, err
	}
	resp := auth.ToBossResponse(b)
	return &resp, nil
}

// Delete baja de un boss. Nadie puede borrarse a sí mismo, así siempre queda al menos uno.
func (uc *BossUseCase) Delete(ctx context.Context, actorBossID, id string) error {
	if actorBossID == id {
		return fmt.Errorf("%w: no puede eliminar su propia cuenta", domain.ErrInvalidInput)
	}
	ok, err := uc.bosses.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: boss no encontrado", domain.ErrNotFound)
	}
	return nil
}

func bossEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || len(email) > 255 {
		return "", fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return email, nil
}

func bossName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if n := len([]rune(name)); n < 2 || n > 120 {
		return "", fmt.Errorf("%w: fullName debe tener entre 2 y 120 caracteres", domain.ErrInvalidInput)
	}
	return name, nil
}

func hashPassword(pw string) (string, error) {
	if len(pw) < minBossPassword || len(pw) > 72 {
		return "", fmt.Errorf("%w: password debe tener entre %d y 72 caracteres", domain.ErrInvalidInput, minBossPassword)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
