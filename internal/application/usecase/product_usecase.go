package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

// ProductUseCase catálogo de productos con precios versionados en el tiempo.
type ProductUseCase struct {
	repos repository.Repositories
	tx    repository.TxRunner
	now   ports.Clock
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repos repository.Repositories, tx repository.TxRunner) *ProductUseCase {
	return &ProductUseCase{repos: repos, tx: tx, now: ports.SystemClock}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *ProductUseCase) WithClock(c ports.Clock) *ProductUseCase {
	uc.now = c
	return uc
}

// Currency valida un código de moneda de 3 letras; vacío = NPR.
func Currency(raw string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" {
		return entity.DefaultCurrency, nil
	}
	if len(c) != 3 {
		return "", fmt.Errorf("%w: la moneda debe tener 3 letras", domain.ErrInvalidInput)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: la moneda debe tener 3 letras", domain.ErrInvalidInput)
		}
	}
	return c, nil
}

func validPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// List catálogo con precio vigente y cantidad de líneas de pedido.
func (uc *ProductUseCase) List(ctx context.Context, actor access.Actor, in dto.ProductFilterRequest) ([]dto.ProductResponse, error) {
	if err := guard(actor, access.ProductRead); err != nil {
		return nil, err
	}
	f := repository.ProductFilter{Q: strings.TrimSpace(in.Q)}
	switch strings.ToLower(in.Status) {
	case "active":
		active := true
		f.Active = &active
	case "inactive":
		active := false
		f.Active = &active
	}
	products, err := uc.repos.Products.List(ctx, actor.CompanyID, f, uc.now())
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductResponse(p, nil))
	}
	return out, nil
}

// Get producto con historial de precios.
func (uc *ProductUseCase) Get(ctx context.Context, actor access.Actor, id string) (*dto.ProductResponse, error) {
	if err := guard(actor, access.ProductRead); err != nil {
		return nil, err
	}
	return uc.get(ctx, uc.repos, actor.CompanyID, id)
}

func (uc *ProductUseCase) get(ctx context.Context, repos repository.Repositories, companyID, id string) (*dto.ProductResponse, error) {
	p, err := repos.Products.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto no encontrado", domain.ErrNotFound)
	}
	history, err := repos.Products.PriceHistory(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.CurrentPrice = entity.CurrentPrice(history, uc.now())
	resp := ToProductResponse(p, history)
	return &resp, nil
}

// Create alta de producto; con precio abre su primera ventana desde ahora.
func (uc *ProductUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := guard(actor, access.ProductWrite); err != nil {
		return nil, err
	}
	now := uc.now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		CompanyID: actor.CompanyID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	unit := in.Unit
	if strings.TrimSpace(unit) == "" {
		unit = entity.DefaultProductUnit
	}
	if err := applyProduct(p, &in.SKU, &in.Name, &in.Description, &unit, in.IsActive); err != nil {
		return nil, err
	}
	currency, err := Currency(in.Currency)
	if err != nil {
		return nil, err
	}
	if in.Price != nil {
		if err := validPrice(*in.Price); err != nil {
			return nil, err
		}
	}

	var out *dto.ProductResponse
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%w: ya existe un producto con el SKU %q", domain.ErrDuplicate, p.SKU)
			}
			return err
		}
		if in.Price != nil {
			if err := repos.Products.AddPrice(ctx, newPrice(p, *in.Price, currency, now)); err != nil {
				return err
			}
		}
		var err error
		out, err = uc.get(ctx, repos, actor.CompanyID, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func newPrice(p *entity.Product, price decimal.Decimal, currency string, now time.Time) *entity.ProductPrice {
	return &entity.ProductPrice{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		CompanyID: p.CompanyID,
		Price:     price,
		Currency:  currency,
		StartsAt:  now,
		CreatedAt: now,
	}
}

func applyProduct(p *entity.Product, sku, name, description, unit *string, active *bool) error {
	var err error
	if sku != nil {
		if p.SKU, err = text("sku", *sku, 1, 80); err != nil {
			return err
		}
	}
	if name != nil {
		if p.Name, err = text("name", *name, 2, 200); err != nil {
			return err
		}
	}
	if description != nil {
		if p.Description, err = text("description", *description, 0, 2000); err != nil {
			return err
		}
	}
	if unit != nil {
		if p.Unit, err = text("unit", *unit, 1, 30); err != nil {
			return err
		}
	}
	if active != nil {
		p.IsActive = *active
	}
	return nil
}

// Update edita el producto. Un precio distinto del vigente cierra la ventana abierta y abre otra desde ahora.
func (uc *ProductUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := guard(actor, access.ProductWrite); err != nil {
		return nil, err
	}
	if in.SKU == nil && in.Name == nil && in.Description == nil && in.Unit == nil && in.IsActive == nil && in.Price == nil {
		return nil, fmt.Errorf("%w: no se indicó ningún campo a modificar", domain.ErrInvalidInput)
	}
	if in.Price != nil {
		if err := validPrice(*in.Price); err != nil {
			return nil, err
		}
	}
	currency, err := Currency(in.Currency)
	if err != nil {
		return nil, err
	}

	var out *dto.ProductResponse
	err = uc.tx.Run(ctx, func(repos repository.Repositories) error {
		p, err := repos.Products.GetByID(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto no encontrado", domain.ErrNotFound)
		}
		if err := applyProduct(p, in.SKU, in.Name, in.Description, in.Unit, in.IsActive); err != nil {
			return err
		}
		now := uc.now()
		p.UpdatedAt = now
		if err := repos.Products.Update(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%w: ya existe un producto con el SKU %q", domain.ErrDuplicate, p.SKU)
			}
			return err
		}
		if in.Price != nil {
			history, err := repos.Products.PriceHistory(ctx, p.ID)
			if err != nil {
				return err
			}
			current := entity.CurrentPrice(history, now)
			if current == nil || !current.Price.Equal(*in.Price) || current.Currency != currency {
				if err := repos.Products.CloseOpenPrices(ctx, p.ID, now); err != nil {
					return err
				}
				if err := repos.Products.AddPrice(ctx, newPrice(p, *in.Price, currency, now)); err != nil {
					return err
				}
			}
		}
		out, err = uc.get(ctx, repos, actor.CompanyID, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete borra el producto si ningún pedido lo referencia.
func (uc *ProductUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if err := guard(actor, access.ProductWrite); err != nil {
		return err
	}
	n, err := uc.repos.Products.CountOrderItems(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: el producto figura en %d líneas de pedido", domain.ErrConflict, n)
	}
	ok, err := uc.repos.Products.Delete(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: producto no encontrado", domain.ErrNotFound)
	}
	return nil
}

// ToPriceResponse mapea una ventana de precio.
func ToPriceResponse(p *entity.ProductPrice) dto.PriceResponse {
	return dto.PriceResponse{ID: p.ID, Price: p.Price, Currency: p.Currency, StartsAt: p.StartsAt, EndsAt: p.EndsAt}
}

// ToProductResponse mapea la entidad Product; history nil omite el historial.
func ToProductResponse(p *entity.Product, history []*entity.ProductPrice) dto.ProductResponse {
	out := dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		IsActive:    p.IsActive,
		OrderCount:  p.OrderCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CurrentPrice != nil {
		cp := ToPriceResponse(p.CurrentPrice)
		out.CurrentPrice = &cp
	}
	for _, h := range history {
		out.PriceHistory = append(out.PriceHistory, ToPriceResponse(h))
	}
	return out
}
