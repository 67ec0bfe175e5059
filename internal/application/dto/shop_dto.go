package dto

import "time"

// CreateShopRequest alta de tienda. Latitude/Longitude obligatorios.
type CreateShopRequest struct {
	ExternalShopCode     *string  `json:"externalShopCode"`
	Name                 string   `json:"name"`
	ContactName          string   `json:"contactName"`
	Phone                string   `json:"phone"`
	Address              string   `json:"address"`
	Notes                string   `json:"notes"`
	Latitude             *float64 `json:"latitude"`
	Longitude            *float64 `json:"longitude"`
	GeofenceRadiusM      *int     `json:"geofenceRadiusM"`
	LocationSource       string   `json:"locationSource"`
	LocationVerified     bool     `json:"locationVerified"`
	LocationAccuracyM    *float64 `json:"locationAccuracyM"`
	ArrivalPromptEnabled *bool    `json:"arrivalPromptEnabled"`
	MinDwellSeconds      *int     `json:"minDwellSeconds"`
	CooldownMinutes      *int     `json:"cooldownMinutes"`
	Timezone             string   `json:"timezone"`
}

// ShopResponse salida de tienda.
type ShopResponse struct {
	ID                   string    `json:"id"`
	ExternalShopCode     *string   `json:"externalShopCode"`
	Name                 string    `json:"name"`
	ContactName          string    `json:"contactName"`
	Phone                string    `json:"phone"`
	Address              string    `json:"address"`
	Notes                string    `json:"notes"`
	Latitude             float64   `json:"latitude"`
	Longitude            float64   `json:"longitude"`
	GeofenceRadiusM      int       `json:"geofenceRadiusM"`
	LocationSource       string    `json:"locationSource"`
	LocationVerified     bool      `json:"locationVerified"`
	LocationAccuracyM    *float64  `json:"locationAccuracyM"`
	ArrivalPromptEnabled bool      `json:"arrivalPromptEnabled"`
	MinDwellSeconds      int       `json:"minDwellSeconds"`
	CooldownMinutes      int       `json:"cooldownMinutes"`
	Timezone             string    `json:"timezone"`
	IsActive             bool      `json:"isActive"`
	AssignmentCount      int       `json:"assignmentCount"`
	CreatedAt            time.Time `json:"createdAt"`
}

// AssignShopRequest asigna un rep a una tienda.
type AssignShopRequest struct {
	ShopID           string `json:"shopId"`
	RepCompanyUserID string `json:"repCompanyUserId"`
	IsPrimary        bool   `json:"isPrimary"`
}

// AssignmentResponse salida de asignación.
type AssignmentResponse struct {
	ID               string    `json:"id"`
	ShopID           string    `json:"shopId"`
	ShopName         string    `json:"shopName,omitempty"`
	RepCompanyUserID string    `json:"repCompanyUserId"`
	RepName          string    `json:"repName,omitempty"`
	IsPrimary        bool      `json:"isPrimary"`
	CreatedAt        time.Time `json:"createdAt"`
}
