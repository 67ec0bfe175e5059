package repository

import (
	"context"
	"time"

	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
)

// ProductFilter filtros del catálogo. Active nil = todos.
type ProductFilter struct {
	Q      string
	Active *bool
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	// Create inserta el producto; ErrDuplicate si el SKU ya existe en la empresa.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	// List incluye precio vigente y cantidad de líneas de pedido.
	List(ctx context.Context, companyID string, f ProductFilter, now time.Time) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, companyID, id string) (bool, error)
	CountOrderItems(ctx context.Context, companyID, id string) (int, error)
	AddPrice(ctx context.Context, price *entity.ProductPrice) error
	// CloseOpenPrices cierra en at las ventanas abiertas del producto.
	CloseOpenPrices(ctx context.Context, productID string, at time.Time) error
	PriceHistory(ctx context.Context, productID string) ([]*entity.ProductPrice, error)
}
