package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// Clamp aplica valores por defecto y acota limit a [min, max].
func (p *PageRequest) Clamp(def, min, max int) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit < min {
		p.Limit = min
	}
	if p.Limit > max {
		p.Limit = max
	}
}

// Offset filas a saltar para la página actual.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPageResponse calcula el total de páginas.
func NewPageResponse(p PageRequest, total int) PageResponse {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageResponse{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}

// ErrorResponse cuerpo de error HTTP: {ok:false, error, code}.
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"error"`
}

// SubscriptionExpiredResponse 403 cuando la suscripción de la empresa no está vigente.
type SubscriptionExpiredResponse struct {
	OK                  bool   `json:"ok"`
	Code                string `json:"code"`
	Message             string `json:"error"`
	SubscriptionExpired bool   `json:"subscriptionExpired"`
	CompanyName         string `json:"companyName"`
}
