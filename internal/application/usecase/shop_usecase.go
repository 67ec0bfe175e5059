package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

// ShopUseCase alta y listado de tiendas.
type ShopUseCase struct {
	shops repository.ShopRepository
	now   ports.Clock
}

// NewShopUseCase construye el caso de uso.
func NewShopUseCase(shops repository.ShopRepository) *ShopUseCase {
	return &ShopUseCase{shops: shops, now: ports.SystemClock}
}

// List tiendas de la empresa con cantidad de asignaciones; q busca en nombre, código y dirección.
func (uc *ShopUseCase) List(ctx context.Context, actor access.Actor, q string) ([]dto.ShopResponse, error) {
	if err := guard(actor, access.ShopRead); err != nil {
		return nil, err
	}
	shops, err := uc.shops.List(ctx, actor.CompanyID, q)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShopResponse, 0, len(shops))
	for _, s := range shops {
		out = append(out, ToShopResponse(s))
	}
	return out, nil
}

// Create valida y crea la tienda. external_shop_code repetido en la empresa → ErrDuplicate.
func (uc *ShopUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateShopRequest) (*dto.ShopResponse, error) {
	if err := guard(actor, access.ShopWrite); err != nil {
		return nil, err
	}
	shop, err := NewShop(actor.CompanyID, in, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.shops.Create(ctx, shop); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: ya existe una tienda con ese externalShopCode", domain.ErrDuplicate)
		}
		return nil, err
	}
	resp := ToShopResponse(shop)
	return &resp, nil
}

// NewShop arma una tienda validada aplicando los valores por defecto de geocerca y aviso de llegada.
func NewShop(companyID string, in dto.CreateShopRequest, now time.Time) (*entity.Shop, error) {
	name, err := text("name", in.Name, 2, 150)
	if err != nil {
		return nil, err
	}
	shop := &entity.Shop{
		ID:                   uuid.New().String(),
		CompanyID:            companyID,
		Name:                 name,
		GeofenceRadiusM:      entity.DefaultGeofenceRadiusM,
		LocationSource:       entity.LocationManualPin,
		LocationVerified:     in.LocationVerified,
		ArrivalPromptEnabled: true,
		MinDwellSeconds:      entity.DefaultMinDwellSeconds,
		CooldownMinutes:      entity.DefaultCooldownMinutes,
		Timezone:             entity.DefaultShopTimezone,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if in.ExternalShopCode != nil {
		code, err := text("externalShopCode", *in.ExternalShopCode, 0, 80)
		if err != nil {
			return nil, err
		}
		if code != "" {
			shop.ExternalShopCode = &code
		}
	}
	if shop.ContactName, err = text("contactName", in.ContactName, 0, 120); err != nil {
		return nil, err
	}
	if shop.Phone, err = text("phone", in.Phone, 0, 30); err != nil {
		return nil, err
	}
	if shop.Address, err = text("address", in.Address, 0, 500); err != nil {
		return nil, err
	}
	if shop.Notes, err = text("notes", in.Notes, 0, 2000); err != nil {
		return nil, err
	}

	if in.Latitude == nil || in.Longitude == nil {
		return nil, fmt.Errorf("%w: latitude y longitude son obligatorios", domain.ErrInvalidInput)
	}
	if *in.Latitude < -90 || *in.Latitude > 90 || *in.Longitude < -180 || *in.Longitude > 180 {
		return nil, fmt.Errorf("%w: coordenadas fuera de rango", domain.ErrInvalidInput)
	}
	shop.Latitude, shop.Longitude = *in.Latitude, *in.Longitude

	if in.GeofenceRadiusM != nil {
		if *in.GeofenceRadiusM < 1 || *in.GeofenceRadiusM > entity.MaxGeofenceRadiusM {
			return nil, fmt.Errorf("%w: geofenceRadiusM debe estar entre 1 y %d", domain.ErrInvalidInput, entity.MaxGeofenceRadiusM)
		}
		shop.GeofenceRadiusM = *in.GeofenceRadiusM
	}
	switch in.LocationSource {
	case "":
	case entity.LocationManualPin, entity.LocationGPSCapture, entity.LocationImported:
		shop.LocationSource = in.LocationSource
	default:
		return nil, fmt.Errorf("%w: locationSource debe ser manual_pin, gps_capture o imported", domain.ErrInvalidInput)
	}
	if in.LocationAccuracyM != nil {
		if *in.LocationAccuracyM < 0 || *in.LocationAccuracyM > 99999 {
			return nil, fmt.Errorf("%w: locationAccuracyM fuera de rango", domain.ErrInvalidInput)
		}
		shop.LocationAccuracyM = in.LocationAccuracyM
	}
	if in.ArrivalPromptEnabled != nil {
		shop.ArrivalPromptEnabled = *in.ArrivalPromptEnabled
	}
	if in.MinDwellSeconds != nil {
		if *in.MinDwellSeconds < 0 {
			return nil, fmt.Errorf("%w: minDwellSeconds no puede ser negativo", domain.ErrInvalidInput)
		}
		shop.MinDwellSeconds = *in.MinDwellSeconds
	}
	if in.CooldownMinutes != nil {
		if *in.CooldownMinutes < 0 {
			return nil, fmt.Errorf("%w: cooldownMinutes no puede ser negativo", domain.ErrInvalidInput)
		}
		shop.CooldownMinutes = *in.CooldownMinutes
	}
	tz, err := text("timezone", in.Timezone, 0, 64)
	if err != nil {
		return nil, err
	}
	if tz != "" {
		shop.Timezone = tz
	}
	return shop, nil
}

// ToShopResponse mapea la entidad Shop.
func ToShopResponse(s *entity.Shop) dto.ShopResponse {
	return dto.ShopResponse{
		ID:                   s.ID,
		ExternalShopCode:     s.ExternalShopCode,
		Name:                 s.Name,
		ContactName:          s.ContactName,
		Phone:                s.Phone,
		Address:              s.Address,
		Notes:                s.Notes,
		Latitude:             s.Latitude,
		Longitude:            s.Longitude,
		GeofenceRadiusM:      s.GeofenceRadiusM,
		LocationSource:       s.LocationSource,
		LocationVerified:     s.LocationVerified,
		LocationAccuracyM:    s.LocationAccuracyM,
		ArrivalPromptEnabled: s.ArrivalPromptEnabled,
		MinDwellSeconds:      s.MinDwellSeconds,
		CooldownMinutes:      s.CooldownMinutes,
		Timezone:             s.Timezone,
		IsActive:             s.IsActive,
		AssignmentCount:      s.AssignmentCount,
		CreatedAt:            s.CreatedAt,
	}
}
