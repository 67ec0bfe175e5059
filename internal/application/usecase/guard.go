package usecase

import (
	"fmt"
	"strings"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
)

func guard(actor access.Actor, l access.AllowList) error {
	if !actor.Can(l) {
		return fmt.Errorf("%w: el rol %s no puede realizar esta operación", domain.ErrForbidden, actor.Role)
	}
	return nil
}

// text recorta v y valida su largo en runas.
func text(field, v string, min, max int) (string, error) {
	v = strings.TrimSpace(v)
	if n := len([]rune(v)); n < min || n > max {
		if min == 0 {
			return "", fmt.Errorf("%w: %s admite hasta %d caracteres", domain.ErrInvalidInput, field, max)
		}
		return "", fmt.Errorf("%w: %s debe tener entre %d y %d caracteres", domain.ErrInvalidInput, field, min, max)
	}
	return v, nil
}
