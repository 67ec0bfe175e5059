package ports

import (
	"context"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// OrderPDFGenerator genera la representación imprimible de un pedido.
type OrderPDFGenerator interface {
	GenerateOrderPDF(ctx context.Context, order *entity.Order, company *entity.Company) ([]byte, error)
}
