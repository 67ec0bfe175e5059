package apptest

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

// ─── shops & assignments ────────────────────────────────────────────────────

type shopRepo struct{ s *Store }

func (r shopRepo) Create(_ context.Context, sh *entity.Shop) error {
	defer r.s.lock()()
	if sh.ExternalShopCode != nil {
		for _, x := range r.s.Shops {
			if x.CompanyID == sh.CompanyID && x.ExternalShopCode != nil && *x.ExternalShopCode == *sh.ExternalShopCode {
				return domain.ErrDuplicate
			}
		}
	}
	cp := *sh
	r.s.Shops[sh.ID] = &cp
	return nil
}

func (r shopRepo) GetByID(_ context.Context, companyID, id string) (*entity.Shop, error) {
	defer r.s.lock()()
	if sh, ok := r.s.Shops[id]; ok && sh.CompanyID == companyID {
		cp := *sh
		return &cp, nil
	}
	return nil, nil
}

func (r shopRepo) List(_ context.Context, companyID, q string) ([]*entity.Shop, error) {
	defer r.s.lock()()
	var out []*entity.Shop
	for _, sh := range r.s.Shops {
		if sh.CompanyID != companyID || !contains(sh.Name, q) {
			continue
		}
		cp := *sh
		for _, a := range r.s.Assignments {
			if a.ShopID == sh.ID {
				cp.AssignmentCount++
			}
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type assignmentRepo struct{ s *Store }

func (r assignmentRepo) List(_ context.Context, companyID string) ([]*entity.ShopAssignment, error) {
	defer r.s.lock()()
	var out []*entity.ShopAssignment
	for _, a := range r.s.Assignments {
		if a.CompanyID == companyID {
			cp := *a
			if sh := r.s.Shops[a.ShopID]; sh != nil {
				cp.ShopName = sh.Name
			}
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r assignmentRepo) Upsert(_ context.Context, a *entity.ShopAssignment) error {
	defer r.s.lock()()
	for _, x := range r.s.Assignments {
		if x.CompanyID == a.CompanyID && x.ShopID == a.ShopID && x.RepCompanyUserID == a.RepCompanyUserID {
			x.IsPrimary = a.IsPrimary
			a.ID, a.CreatedAt = x.ID, x.CreatedAt
			return nil
		}
	}
	cp := *a
	r.s.Assignments[a.ID] = &cp
	return nil
}

func (r assignmentRepo) ClearPrimary(_ context.Context, companyID, shopID, keepRepID string) error {
	defer r.s.lock()()
	for _, x := range r.s.Assignments {
		if x.CompanyID == companyID && x.ShopID == shopID && x.RepCompanyUserID != keepRepID {
			x.IsPrimary = false
		}
	}
	return nil
}

func (r assignmentRepo) CountByRep(_ context.Context, companyID, repID string) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, x := range r.s.Assignments {
		if x.CompanyID == companyID && x.RepCompanyUserID == repID {
			n++
		}
	}
	return n, nil
}

func (r assignmentRepo) Reassign(_ context.Context, companyID, fromRep, toRep string) (int64, error) {
	defer r.s.lock()()
	var n int64
	for id, src := range r.s.Assignments {
		if src.CompanyID != companyID || src.RepCompanyUserID != fromRep {
			continue
		}
		n++
		var dst *entity.ShopAssignment
		for _, x := range r.s.Assignments {
			if x.CompanyID == companyID && x.ShopID == src.ShopID && x.RepCompanyUserID == toRep {
				dst = x
			}
		}
		if dst == nil {
			src.RepCompanyUserID = toRep
			continue
		}
		if src.IsPrimary {
			dst.IsPrimary = true
		}
		delete(r.s.Assignments, id)
	}
	return n, nil
}

// ─── leads ──────────────────────────────────────────────────────────────────

type leadRepo struct{ s *Store }

func (r leadRepo) Create(_ context.Context, l *entity.Lead) error {
	defer r.s.lock()()
	cp := *l
	r.s.Leads[l.ID] = &cp
	return nil
}

func (r leadRepo) GetByID(_ context.Context, companyID, id string) (*entity.Lead, error) {
	defer r.s.lock()()
	if l, ok := r.s.Leads[id]; ok && l.CompanyID == companyID {
		cp := *l
		return &cp, nil
	}
	return nil, nil
}

func (r leadRepo) LockByID(ctx context.Context, companyID, id string) (*entity.Lead, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r leadRepo) List(_ context.Context, companyID string, f repository.LeadFilter) ([]*entity.Lead, error) {
	defer r.s.lock()()
	var out []*entity.Lead
	for _, l := range r.s.Leads {
		if l.CompanyID != companyID || !contains(l.Name, f.Q) || (f.Status != "" && l.Status != f.Status) {
			continue
		}
		if f.OwnedBy != "" {
			owned := (l.AssignedRepCompanyUserID != nil && *l.AssignedRepCompanyUserID == f.OwnedBy) ||
				(l.CreatedByCompanyUserID != nil && *l.CreatedByCompanyUserID == f.OwnedBy)
			if !owned {
				continue
			}
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r leadRepo) Update(_ context.Context, l *entity.Lead) error {
	defer r.s.lock()()
	if _, ok := r.s.Leads[l.ID]; ok {
		cp := *l
		r.s.Leads[l.ID] = &cp
	}
	return nil
}

func (r leadRepo) MarkConverted(_ context.Context, companyID, id, shopID string) error {
	defer r.s.lock()()
	if l, ok := r.s.Leads[id]; ok && l.CompanyID == companyID {
		l.Status = entity.LeadConverted
		l.ShopID = &shopID
		if l.ConvertedAt == nil {
			now := time.Now().UTC()
			l.ConvertedAt = &now
		}
	}
	return nil
}

func (r leadRepo) ConvertIfPending(_ context.Context, companyID, id string) (bool, error) {
	defer r.s.lock()()
	l, ok := r.s.Leads[id]
	if !ok || l.CompanyID != companyID || l.Status == entity.LeadConverted {
		return false, nil
	}
	l.Status = entity.LeadConverted
	if l.ConvertedAt == nil {
		now := time.Now().UTC()
		l.ConvertedAt = &now
	}
	return true, nil
}

// ─── products ───────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lock()()
	for _, x := range r.s.Products {
		if x.CompanyID == p.CompanyID && x.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	cp.CurrentPrice = nil
	r.s.Products[p.ID] = &cp
	return nil
}

func (r productRepo) orderCount(productID string) int {
	n := 0
	for _, o := range r.s.Orders {
		for _, it := range o.Items {
			if it.ProductID != nil && *it.ProductID == productID {
				n++
			}
		}
	}
	return n
}

func (r productRepo) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	defer r.s.lock()()
	if p, ok := r.s.Products[id]; ok && p.CompanyID == companyID {
		cp := *p
		cp.OrderCount = r.orderCount(id)
		return &cp, nil
	}
	return nil, nil
}

func (r productRepo) List(_ context.Context, companyID string, f repository.ProductFilter, now time.Time) ([]*entity.Product, error) {
	defer r.s.lock()()
	var out []*entity.Product
	for _, p := range r.s.Products {
		if p.CompanyID != companyID || (!contains(p.Name, f.Q) && !contains(p.SKU, f.Q)) {
			continue
		}
		if f.Active != nil && p.IsActive != *f.Active {
			continue
		}
		cp := *p
		var prices []*entity.ProductPrice
		for _, pp := range r.s.Prices {
			if pp.ProductID == p.ID {
				prices = append(prices, pp)
			}
		}
		cp.CurrentPrice = entity.CurrentPrice(prices, now)
		cp.OrderCount = r.orderCount(p.ID)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r productRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lock()()
	for _, x := range r.s.Products {
		if x.ID != p.ID && x.CompanyID == p.CompanyID && x.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	cp.CurrentPrice = nil
	r.s.Products[p.ID] = &cp
	return nil
}

func (r productRepo) Delete(_ context.Context, companyID, id string) (bool, error) {
	defer r.s.lock()()
	p, ok := r.s.Products[id]
	if !ok || p.CompanyID != companyID {
		return false, nil
	}
	delete(r.s.Products, id)
	return true, nil
}

func (r productRepo) CountOrderItems(_ context.Context, _ string, id string) (int, error) {
	defer r.s.lock()()
	return r.orderCount(id), nil
}

func (r productRepo) AddPrice(_ context.Context, pp *entity.ProductPrice) error {
	defer r.s.lock()()
	cp := *pp
	r.s.Prices[pp.ID] = &cp
	return nil
}

func (r productRepo) CloseOpenPrices(_ context.Context, productID string, at time.Time) error {
	defer r.s.lock()()
	for _, pp := range r.s.Prices {
		if pp.ProductID == productID && !pp.StartsAt.After(at) && (pp.EndsAt == nil || pp.EndsAt.After(at)) {
			end := at
			pp.EndsAt = &end
		}
	}
	return nil
}

func (r productRepo) PriceHistory(_ context.Context, productID string) ([]*entity.ProductPrice, error) {
	defer r.s.lock()()
	var out []*entity.ProductPrice
	for _, pp := range r.s.Prices {
		if pp.ProductID == productID {
			cp := *pp
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.After(out[j].StartsAt) })
	return out, nil
}

// ─── orders ─────────────────────────────────────────────────────────────────

type orderRepo struct{ s *Store }

func (r orderRepo) LockDailySequence(context.Context, string) error { return nil }

func (r orderRepo) CountPlacedBetween(_ context.Context, companyID string, from, to time.Time) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, o := range r.s.Orders {
		if o.CompanyID == companyID && !o.PlacedAt.Before(from) && o.PlacedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (r orderRepo) Create(_ context.Context, o *entity.Order) error {
	defer r.s.lock()()
	for _, x := range r.s.Orders {
		if x.CompanyID == o.CompanyID && x.OrderNumber == o.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	for i, it := range o.Items {
		it.Position = i + 1
		it.LineTotal = it.Quantity.Mul(it.UnitPrice)
	}
	cp := *o
	r.s.Orders[o.ID] = &cp
	return nil
}

func (r orderRepo) GetByID(_ context.Context, companyID, id, placedBy string) (*entity.Order, error) {
	defer r.s.lock()()
	o, ok := r.s.Orders[id]
	if !ok || o.CompanyID != companyID || (placedBy != "" && o.PlacedByCompanyUserID != placedBy) {
		return nil, nil
	}
	cp := *o
	cp.ItemsCount = len(o.Items)
	return &cp, nil
}

func (r orderRepo) GetStatus(_ context.Context, companyID, id string) (entity.OrderStatus, bool, error) {
	defer r.s.lock()()
	o, ok := r.s.Orders[id]
	if !ok || o.CompanyID != companyID {
		return "", false, nil
	}
	return o.Status, true, nil
}

func (r orderRepo) List(_ context.Context, companyID string, f repository.OrderFilter) ([]*entity.Order, error) {
	defer r.s.lock()()
	var out []*entity.Order
	for _, o := range r.s.Orders {
		switch {
		case o.CompanyID != companyID,
			f.PlacedBy != "" && o.PlacedByCompanyUserID != f.PlacedBy,
			f.Rep != "" && o.PlacedByCompanyUserID != f.Rep,
			f.Status != "" && o.Status != f.Status,
			f.Shop != "" && (o.ShopID == nil || *o.ShopID != f.Shop),
			f.From != nil && o.PlacedAt.Before(*f.From),
			f.To != nil && !o.PlacedAt.Before(*f.To),
			!contains(o.OrderNumber, f.Q):
			continue
		}
		cp := *o
		cp.ItemsCount = len(o.Items)
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.Sort == repository.SortPlacedAtAsc {
			return out[i].PlacedAt.Before(out[j].PlacedAt)
		}
		return out[i].PlacedAt.After(out[j].PlacedAt)
	})
	if len(out) > repository.OrderListLimit {
		out = out[:repository.OrderListLimit]
	}
	return out, nil
}

func (r orderRepo) CountByStatus(_ context.Context, companyID, placedBy string) (map[entity.OrderStatus]int, error) {
	defer r.s.lock()()
	out := map[entity.OrderStatus]int{}
	for _, s := range entity.OrderStatuses {
		out[s] = 0
	}
	for _, o := range r.s.Orders {
		if o.CompanyID == companyID && (placedBy == "" || o.PlacedByCompanyUserID == placedBy) {
			out[o.Status]++
		}
	}
	return out, nil
}

func (r orderRepo) Transition(_ context.Context, companyID, id string, from, to entity.OrderStatus, at time.Time) (bool, error) {
	defer r.s.lock()()
	o, ok := r.s.Orders[id]
	if !ok || o.CompanyID != companyID || o.Status != from {
		return false, nil
	}
	o.Status = to
	stamp := func(p **time.Time) {
		if *p == nil {
			t := at
			*p = &t
		}
	}
	switch to {
	case entity.OrderProcessing:
		stamp(&o.ProcessedAt)
	case entity.OrderShipped:
		stamp(&o.ShippedAt)
	case entity.OrderClosed:
		stamp(&o.ClosedAt)
	}
	return true, nil
}

func (r orderRepo) UpdateNotes(_ context.Context, companyID, id string, notes *string) error {
	defer r.s.lock()()
	if o, ok := r.s.Orders[id]; ok && o.CompanyID == companyID {
		o.Notes = notes
	}
	return nil
}

func (r orderRepo) Cancel(_ context.Context, companyID, id string, from entity.OrderStatus, info repository.CancelInfo) (bool, error) {
	defer r.s.lock()()
	o, ok := r.s.Orders[id]
	if !ok || o.CompanyID != companyID || o.Status != from {
		return false, nil
	}
	o.Status = entity.OrderCancelled
	if o.CancelledAt == nil {
		at := info.At
		o.CancelledAt = &at
	}
	by, reason := info.ByCompanyUserID, info.Reason
	o.CancelledByCompanyUserID, o.CancelReason, o.CancelNote = &by, &reason, info.Note
	return true, nil
}

// ─── bosses & payments ──────────────────────────────────────────────────────

type bossRepo struct{ s *Store }

func (r bossRepo) Create(_ context.Context, b *entity.Boss) error {
	defer r.s.lock()()
	for _, x := range r.s.Bosses {
		if x.Email == b.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *b
	r.s.Bosses[b.ID] = &cp
	return nil
}

func (r bossRepo) GetByID(_ context.Context, id string) (*entity.Boss, error) {
	defer r.s.lock()()
	if b, ok := r.s.Bosses[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r bossRepo) GetByEmail(_ context.Context, email string) (*entity.Boss, error) {
	defer r.s.lock()()
	for _, b := range r.s.Bosses {
		if b.Email == email {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r bossRepo) List(_ context.Context) ([]*entity.Boss, error) {
	defer r.s.lock()()
	var out []*entity.Boss
	for _, b := range r.s.Bosses {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r bossRepo) Update(_ context.Context, b *entity.Boss) error {
	defer r.s.lock()()
	for _, x := range r.s.Bosses {
		if x.ID != b.ID && x.Email == b.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *b
	r.s.Bosses[b.ID] = &cp
	return nil
}

func (r bossRepo) Delete(_ context.Context, id string) (bool, error) {
	defer r.s.lock()()
	_, ok := r.s.Bosses[id]
	delete(r.s.Bosses, id)
	return ok, nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Create(_ context.Context, p *entity.CompanyPayment) error {
	defer r.s.lock()()
	cp := *p
	r.s.Payments = append(r.s.Payments, &cp)
	return nil
}

func (r paymentRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.CompanyPayment, error) {
	defer r.s.lock()()
	var out []*entity.CompanyPayment
	for _, p := range r.s.Payments {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}
