package entity

import "time"

// Origen de la ubicación de una tienda.
const (
	LocationManualPin  = "manual_pin"
	LocationGPSCapture = "gps_capture"
	LocationImported   = "imported"
)

// Valores por defecto de geocerca y aviso de llegada.
const (
	DefaultGeofenceRadiusM = 60
	MaxGeofenceRadiusM     = 500
	DefaultMinDwellSeconds = 120
	DefaultCooldownMinutes = 30
	DefaultShopTimezone    = "Asia/Kathmandu"
)

// Coordenadas usadas cuando una tienda se crea sin ubicación (conversión de lead).
const (
	DefaultLatitude  = 27.7172
	DefaultLongitude = 85.3240
)

// Shop ubicación de un cliente con geocerca.
type Shop struct {
	ID                   string
	CompanyID            string
	ExternalShopCode     *string
	Name                 string
	ContactName          string
	Phone                string
	Address              string
	Notes                string
	Latitude             float64
	Longitude            float64
	GeofenceRadiusM      int
	LocationSource       string
	LocationVerified     bool
	LocationAccuracyM    *float64
	ArrivalPromptEnabled bool
	MinDwellSeconds      int
	CooldownMinutes      int
	Timezone             string
	IsActive             bool
	AssignmentCount      int // solo lectura, calculado en listados
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ShopAssignment asigna un rep a una tienda. A lo sumo un primario por tienda.
type ShopAssignment struct {
	ID               string
	CompanyID        string
	ShopID           string
	RepCompanyUserID string
	IsPrimary        bool
	ShopName         string // solo lectura
	RepName          string // solo lectura
	CreatedAt        time.Time
}
