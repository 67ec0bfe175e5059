package auth

import (
	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/domain"
)

// SubscriptionExpiredError la empresa de la sesión no tiene suscripción vigente.
type SubscriptionExpiredError struct {
	CompanyName string
}

func (e *SubscriptionExpiredError) Error() string {
	return domain.ErrSubscriptionExpired.Error() + ": " + e.CompanyName
}

func (e *SubscriptionExpiredError) Unwrap() error { return domain.ErrSubscriptionExpired }

// MembershipSelectionError el usuario pertenece a varias empresas y no indicó companyId.
type MembershipSelectionError struct {
	Companies []dto.CompanyChoice
}

func (e *MembershipSelectionError) Error() string { return domain.ErrMembershipSelection.Error() }

func (e *MembershipSelectionError) Unwrap() error { return domain.ErrMembershipSelection }
