// Package orders implementa el ciclo de vida del pedido: alta con numeración diaria,
// listado filtrado, avance de estado paso a paso, cancelación auditada y PDF.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/fieldsales-api/internal/application/dto"
	"github.com/jhoicas/fieldsales-api/internal/application/ports"
	"github.com/jhoicas/fieldsales-api/internal/application/usecase"
	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/access"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	rules "github.com/jhoicas/fieldsales-api/internal/domain/order"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
	"github.com/jhoicas/fieldsales-api/pkg/logger"
)

const (
	maxItems      = 200
	maxOrderNotes = 2000
	maxItemNotes  = 500
)

// Config opciones del ciclo de vida.
type Config struct {
	// AllowCancelAfterShip habilita cancelar pedidos en estado shipped.
	AllowCancelAfterShip bool
}

// OrderUseCase casos de uso de pedidos.
type OrderUseCase struct {
	repos repository.Repositories
	tx    repository.TxRunner
	pdf   ports.OrderPDFGenerator
	log   *logger.Logger
	cfg   Config
	now   ports.Clock
}

// NewOrderUseCase construye el caso de uso. pdf puede ser nil si no se expone la descarga.
func NewOrderUseCase(repos repository.Repositories, tx repository.TxRunner, pdf ports.OrderPDFGenerator, log *logger.Logger, cfg Config) *OrderUseCase {
	return &OrderUseCase{repos: repos, tx: tx, pdf: pdf, log: log.Named("orders"), cfg: cfg, now: ports.SystemClock}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (uc *OrderUseCase) WithClock(c ports.Clock) *OrderUseCase {
	uc.now = c
	return uc
}

func guard(actor access.Actor, l access.AllowList) error {
	if !actor.Can(l) {
		return fmt.Errorf("%w: el rol %s no puede realizar esta operación", domain.ErrForbidden, actor.Role)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidInput}, args...)...)
}

// Create valida las líneas, numera el pedido dentro de la transacción y convierte el lead
// de origen si aún no lo estaba.
func (uc *OrderUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := guard(actor, access.OrderCreate); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, invalid("el pedido debe tener al menos una línea")
	}
	if len(in.Items) > maxItems {
		return nil, invalid("el pedido admite hasta %d líneas", maxItems)
	}
	currency, err := usecase.Currency(in.CurrencyCode)
	if err != nil {
		return nil, err
	}
	notes, err := optionalText("notes", in.Notes, maxOrderNotes)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	o := &entity.Order{
		ID:                    uuid.New().String(),
		CompanyID:             actor.CompanyID,
		PlacedByCompanyUserID: actor.CompanyUserID,
		Status:                entity.OrderReceived,
		Notes:                 notes,
		CurrencyCode:          currency,
		PlacedAt:              now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := uc.resolveRefs(ctx, actor, o, in); err != nil {
		return nil, err
	}
	lines := make([]rules.Line, 0, len(in.Items))
	for i, raw := range in.Items {
		item, err := uc.buildItem(ctx, actor.CompanyID, o.ID, i+1, raw, now)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
		lines = append(lines, rules.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}
	o.TotalAmount = rules.Total(lines)

	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		if err := r.Orders.LockDailySequence(ctx, o.CompanyID); err != nil {
			return err
		}
		from, to := rules.DayBounds(now)
		n, err := r.Orders.CountPlacedBetween(ctx, o.CompanyID, from, to)
		if err != nil {
			return err
		}
		o.OrderNumber = rules.FormatNumber(now, n+1)
		if err := r.Orders.Create(ctx, o); err != nil {
			return err
		}
		if o.LeadID != nil {
			if _, err := r.Leads.ConvertIfPending(ctx, o.CompanyID, *o.LeadID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: número de pedido en uso, reintente", domain.ErrConflict)
		}
		return nil, err
	}
	uc.log.Info().Str("company_id", o.CompanyID).Str("order_number", o.OrderNumber).
		Str("total", o.TotalAmount.String()).Msg("pedido creado")
	return uc.Get(ctx, actor, o.ID)
}

// resolveRefs verifica que la tienda y el lead existan en la empresa. Un rep solo puede
// referenciar leads propios.
func (uc *OrderUseCase) resolveRefs(ctx context.Context, actor access.Actor, o *entity.Order, in dto.CreateOrderRequest) error {
	if id := trimmed(in.ShopID); id != "" {
		shop, err := uc.repos.Shops.GetByID(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if shop == nil {
			return fmt.Errorf("%w: tienda no encontrada", domain.ErrNotFound)
		}
		o.ShopID = &shop.ID
	}
	if id := trimmed(in.LeadID); id != "" {
		lead, err := uc.repos.Leads.GetByID(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if lead == nil {
			return fmt.Errorf("%w: lead no encontrado", domain.ErrNotFound)
		}
		if !access.OwnsLead(actor.Role, actor.CompanyUserID, lead) {
			return fmt.Errorf("%w: el lead no está asignado a este usuario", domain.ErrForbidden)
		}
		o.LeadID = &lead.ID
	}
	return nil
}

func (uc *OrderUseCase) buildItem(ctx context.Context, companyID, orderID string, n int, in dto.OrderItemRequest, now time.Time) (*entity.OrderItem, error) {
	item := &entity.OrderItem{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		OrderID:     orderID,
		ProductName: strings.TrimSpace(in.ProductName),
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		CreatedAt:   now,
	}
	sku, err := optionalText(fmt.Sprintf("items[%d].productSku", n), in.ProductSKU, 80)
	if err != nil {
		return nil, err
	}
	item.ProductSKU = sku

	if id := trimmed(in.ProductID); id != "" {
		p, err := uc.repos.Products.GetByID(ctx, companyID, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, invalid("items[%d]: producto %s no existe", n, id)
		}
		item.ProductID = &p.ID
		if item.ProductName == "" {
			item.ProductName = p.Name
		}
		if item.ProductSKU == nil && p.SKU != "" {
			s := p.SKU
			item.ProductSKU = &s
		}
	}

	if l := len([]rune(item.ProductName)); l < 1 || l > 200 {
		return nil, invalid("items[%d].productName debe tener entre 1 y 200 caracteres", n)
	}
	if !item.Quantity.IsPositive() {
		return nil, invalid("items[%d].quantity debe ser mayor que cero", n)
	}
	if item.UnitPrice.IsNegative() {
		return nil, invalid("items[%d].unitPrice no puede ser negativo", n)
	}
	if item.Notes, err = optionalText(fmt.Sprintf("items[%d].notes", n), in.Notes, maxItemNotes); err != nil {
		return nil, err
	}
	item.LineTotal = rules.LineTotal(item.Quantity, item.UnitPrice)
	return item, nil
}

// List pedidos visibles para el actor. Un rep solo ve los suyos aunque pida otro rep.
func (uc *OrderUseCase) List(ctx context.Context, actor access.Actor, in dto.OrderFilterRequest) ([]dto.OrderResponse, error) {
	if err := guard(actor, access.OrderRead); err != nil {
		return nil, err
	}
	f, err := ParseFilter(in)
	if err != nil {
		return nil, err
	}
	f.PlacedBy = access.OrderScope(actor.Role, actor.CompanyUserID)
	list, err := uc.repos.Orders.List(ctx, actor.CompanyID, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, ToOrderResponse(o))
	}
	return out, nil
}

// ParseFilter traduce la query del listado. Fechas en RFC3339 o YYYY-MM-DD (UTC); date_to con
// solo fecha incluye el día completo.
func ParseFilter(in dto.OrderFilterRequest) (repository.OrderFilter, error) {
	f := repository.OrderFilter{
		Q:    strings.TrimSpace(in.Q),
		Rep:  strings.TrimSpace(in.Rep),
		Shop: strings.TrimSpace(in.Shop),
		Sort: repository.SortPlacedAtDesc,
	}
	if s := strings.TrimSpace(in.Status); s != "" && s != "all" {
		st := entity.OrderStatus(s)
		if !validStatus(st) {
			return f, invalid("status %q desconocido", s)
		}
		f.Status = st
	}
	switch in.Sort {
	case "", "newest", repository.SortPlacedAtDesc:
	case "oldest", repository.SortPlacedAtAsc:
		f.Sort = repository.SortPlacedAtAsc
	default:
		return f, invalid("sort debe ser newest u oldest")
	}
	if s := strings.TrimSpace(in.DateFrom); s != "" {
		t, _, err := parseDate(s)
		if err != nil {
			return f, invalid("date_from inválido")
		}
		f.From = &t
	}
	if s := strings.TrimSpace(in.DateTo); s != "" {
		t, dateOnly, err := parseDate(s)
		if err != nil {
			return f, invalid("date_to inválido")
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		} else {
			t = t.Add(time.Microsecond)
		}
		f.To = &t
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, invalid("date_from debe ser anterior a date_to")
	}
	return f, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse("2006-01-02", s)
	return t, true, err
}

func validStatus(s entity.OrderStatus) bool {
	for _, st := range entity.OrderStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Counts cantidad de pedidos por estado dentro del alcance del actor, más "all".
func (uc *OrderUseCase) Counts(ctx context.Context, actor access.Actor) (map[string]int, error) {
	if err := guard(actor, access.OrderRead); err != nil {
		return nil, err
	}
	counts, err := uc.repos.Orders.CountByStatus(ctx, actor.CompanyID, access.OrderScope(actor.Role, actor.CompanyUserID))
	if err != nil {
		return nil, err
	}
	out := map[string]int{"all": 0}
	for _, st := range entity.OrderStatuses {
		out[string(st)] = counts[st]
		out["all"] += counts[st]
	}
	return out, nil
}

// Get pedido con sus líneas. Un pedido ajeno para un rep se reporta como inexistente.
func (uc *OrderUseCase) Get(ctx context.Context, actor access.Actor, id string) (*dto.OrderResponse, error) {
	if err := guard(actor, access.OrderRead); err != nil {
		return nil, err
	}
	o, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

func (uc *OrderUseCase) load(ctx context.Context, actor access.Actor, id string) (*entity.Order, error) {
	o, err := uc.repos.Orders.GetByID(ctx, actor.CompanyID, id, access.OrderScope(actor.Role, actor.CompanyUserID))
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, fmt.Errorf("%w: pedido no encontrado", domain.ErrNotFound)
	}
	return o, nil
}

// Update avanza el estado un único paso y/o reemplaza las notas.
// El cambio de estado es condicional: si otro request lo movió antes, devuelve ErrConflict.
func (uc *OrderUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateOrderRequest) (*dto.OrderResponse, error) {
	if err := guard(actor, access.OrderTransition); err != nil {
		return nil, err
	}
	if in.Status == nil && in.Notes == nil {
		return nil, invalid("nada para actualizar")
	}
	notes, err := optionalText("notes", in.Notes, maxOrderNotes)
	if err != nil {
		return nil, err
	}
	var target entity.OrderStatus
	if in.Status != nil {
		target = entity.OrderStatus(strings.TrimSpace(*in.Status))
		if target == entity.OrderCancelled {
			return nil, invalid("use la acción de cancelación para cancelar un pedido")
		}
		if !validStatus(target) {
			return nil, invalid("status %q desconocido", target)
		}
	}

	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		current, found, err := r.Orders.GetStatus(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: pedido no encontrado", domain.ErrNotFound)
		}
		if target != "" {
			if err := rules.ValidateAdvance(current, target); err != nil {
				return err
			}
			ok, err := r.Orders.Transition(ctx, actor.CompanyID, id, current, target, uc.now())
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: el pedido cambió de estado, recargue", domain.ErrConflict)
			}
		}
		if in.Notes != nil {
			return r.Orders.UpdateNotes(ctx, actor.CompanyID, id, notes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, actor, id)
}

// Cancel cancela con un motivo del conjunto fijo. Desde shipped solo si la configuración lo permite.
func (uc *OrderUseCase) Cancel(ctx context.Context, actor access.Actor, id string, in dto.CancelOrderRequest) (*dto.OrderResponse, error) {
	if err := guard(actor, access.OrderTransition); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if !rules.ValidCancelReason(reason) {
		return nil, invalid("cancel_reason debe ser uno de: %s", rules.CancelReasonsText())
	}
	note, err := optionalText("cancel_note", in.Note, maxItemNotes)
	if err != nil {
		return nil, err
	}

	err = uc.tx.Run(ctx, func(r repository.Repositories) error {
		current, found, err := r.Orders.GetStatus(ctx, actor.CompanyID, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: pedido no encontrado", domain.ErrNotFound)
		}
		if err := rules.CanCancel(current, uc.cfg.AllowCancelAfterShip); err != nil {
			return err
		}
		ok, err := r.Orders.Cancel(ctx, actor.CompanyID, id, current, repository.CancelInfo{
			ByCompanyUserID: actor.CompanyUserID,
			Reason:          reason,
			Note:            note,
			At:              uc.now(),
		})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: el pedido cambió de estado, recargue", domain.ErrConflict)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", actor.CompanyID).Str("order_id", id).Str("reason", reason).Msg("pedido cancelado")
	return uc.Get(ctx, actor, id)
}

// PDF genera el documento imprimible del pedido. Devuelve también el nombre de archivo sugerido.
func (uc *OrderUseCase) PDF(ctx context.Context, actor access.Actor, id string) ([]byte, string, error) {
	if err := guard(actor, access.OrderRead); err != nil {
		return nil, "", err
	}
	if uc.pdf == nil {
		return nil, "", errors.New("orders: generador de PDF no configurado")
	}
	o, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.repos.Companies.GetByID(ctx, actor.CompanyID)
	if err != nil {
		return nil, "", err
	}
	if company == nil {
		return nil, "", fmt.Errorf("%w: empresa no encontrada", domain.ErrNotFound)
	}
	b, err := uc.pdf.GenerateOrderPDF(ctx, o, company)
	if err != nil {
		return nil, "", fmt.Errorf("orders: generar pdf %s: %w", o.OrderNumber, err)
	}
	return b, o.OrderNumber + ".pdf", nil
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// optionalText recorta v; vacío queda en nil.
func optionalText(field string, v *string, max int) (*string, error) {
	s := trimmed(v)
	if s == "" {
		return nil, nil
	}
	if len([]rune(s)) > max {
		return nil, invalid("%s admite hasta %d caracteres", field, max)
	}
	return &s, nil
}

// ToOrderResponse mapea la entidad Order.
func ToOrderResponse(o *entity.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                       o.ID,
		OrderNumber:              o.OrderNumber,
		ShopID:                   o.ShopID,
		ShopName:                 o.ShopName,
		LeadID:                   o.LeadID,
		LeadName:                 o.LeadName,
		PlacedByCompanyUserID:    o.PlacedByCompanyUserID,
		PlacedByName:             o.PlacedByName,
		Status:                   string(o.Status),
		Notes:                    o.Notes,
		TotalAmount:              o.TotalAmount,
		CurrencyCode:             o.CurrencyCode,
		PlacedAt:                 o.PlacedAt,
		ProcessedAt:              o.ProcessedAt,
		ShippedAt:                o.ShippedAt,
		ClosedAt:                 o.ClosedAt,
		CancelledAt:              o.CancelledAt,
		CancelledByCompanyUserID: o.CancelledByCompanyUserID,
		CancelledByName:          o.CancelledByName,
		CancelReason:             o.CancelReason,
		CancelNote:               o.CancelNote,
		ItemsCount:               o.ItemsCount,
		CreatedAt:                o.CreatedAt,
		UpdatedAt:                o.UpdatedAt,
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:          it.ID,
			Position:    it.Position,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
			Notes:       it.Notes,
		})
	}
	if resp.ItemsCount == 0 {
		resp.ItemsCount = len(o.Items)
	}
	return resp
}
