package dto

import "time"

// CreateLeadRequest alta de lead.
type CreateLeadRequest struct {
	Name                     string  `json:"name"`
	ContactName              string  `json:"contactName"`
	Phone                    string  `json:"phone"`
	Email                    string  `json:"email"`
	Address                  string  `json:"address"`
	Notes                    string  `json:"notes"`
	Status                   string  `json:"status"`
	AssignedRepCompanyUserID *string `json:"assignedRepCompanyUserId"`
}

// UpdateLeadRequest campos editables; nil = sin cambio.
type UpdateLeadRequest struct {
	Name                     *string `json:"name"`
	ContactName              *string `json:"contactName"`
	Phone                    *string `json:"phone"`
	Email                    *string `json:"email"`
	Address                  *string `json:"address"`
	Notes                    *string `json:"notes"`
	Status                   *string `json:"status"`
	AssignedRepCompanyUserID *string `json:"assignedRepCompanyUserId"`
}

// LeadFilterRequest filtros del listado.
type LeadFilterRequest struct {
	Q      string `query:"q"`
	Status string `query:"status"`
}

// ConvertLeadRequest datos opcionales de la tienda a crear.
type ConvertLeadRequest struct {
	Name             string   `json:"name"`
	ExternalShopCode *string  `json:"externalShopCode"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	GeofenceRadiusM  *int     `json:"geofenceRadiusM"`
}

// LeadResponse salida de lead.
type LeadResponse struct {
	ID                       string     `json:"id"`
	ShopID                   *string    `json:"shopId"`
	Name                     string     `json:"name"`
	ContactName              string     `json:"contactName"`
	Phone                    string     `json:"phone"`
	Email                    string     `json:"email"`
	Address                  string     `json:"address"`
	Notes                    string     `json:"notes"`
	Status                   string     `json:"status"`
	AssignedRepCompanyUserID *string    `json:"assignedRepCompanyUserId"`
	CreatedByCompanyUserID   *string    `json:"createdByCompanyUserId"`
	ConvertedAt              *time.Time `json:"convertedAt"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
}

// ConvertLeadResponse lead convertido + tienda creada.
type ConvertLeadResponse struct {
	Lead LeadResponse `json:"lead"`
	Shop ShopResponse `json:"shop"`
}
