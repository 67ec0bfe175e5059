// Package apptest dobles en memoria de los puertos de persistencia y de correo, para tests de casos de uso.
// Run reproduce el rollback de una transacción: si fn falla, el estado vuelve a la foto tomada al inicio.
// No hay aislamiento entre transacciones concurrentes; eso se prueba contra Postgres.
package apptest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu          sync.Mutex
	Users       map[string]*entity.User
	Tokens      map[string]*entity.UserToken // por hash
	Companies   map[string]*entity.Company
	Memberships map[string]*entity.CompanyUser
	Shops       map[string]*entity.Shop
	Assignments map[string]*entity.ShopAssignment
	Leads       map[string]*entity.Lead
	Products    map[string]*entity.Product
	Prices      map[string]*entity.ProductPrice
	Orders      map[string]*entity.Order
	Bosses      map[string]*entity.Boss
	Payments    []*entity.CompanyPayment
	TxCount     int
}

// NewStore estado vacío.
func NewStore() *Store {
	return &Store{
		Users:       map[string]*entity.User{},
		Tokens:      map[string]*entity.UserToken{},
		Companies:   map[string]*entity.Company{},
		Memberships: map[string]*entity.CompanyUser{},
		Shops:       map[string]*entity.Shop{},
		Assignments: map[string]*entity.ShopAssignment{},
		Leads:       map[string]*entity.Lead{},
		Products:    map[string]*entity.Product{},
		Prices:      map[string]*entity.ProductPrice{},
		Orders:      map[string]*entity.Order{},
		Bosses:      map[string]*entity.Boss{},
	}
}

// Repositories puertos atados a este Store.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Users:       userRepo{s},
		Tokens:      tokenRepo{s},
		Companies:   companyRepo{s},
		Memberships: membershipRepo{s},
		Shops:       shopRepo{s},
		Assignments: assignmentRepo{s},
		Leads:       leadRepo{s},
		Products:    productRepo{s},
		Orders:      orderRepo{s},
		Bosses:      bossRepo{s},
		Payments:    paymentRepo{s},
	}
}

// Run implementa repository.TxRunner. Un error de fn deshace todos los cambios hechos dentro.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.mu.Lock()
	s.TxCount++
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(s.Repositories()); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

type snapshot struct {
	users       map[string]*entity.User
	tokens      map[string]*entity.UserToken
	companies   map[string]*entity.Company
	memberships map[string]*entity.CompanyUser
	shops       map[string]*entity.Shop
	assignments map[string]*entity.ShopAssignment
	leads       map[string]*entity.Lead
	products    map[string]*entity.Product
	prices      map[string]*entity.ProductPrice
	orders      map[string]*entity.Order
	bosses      map[string]*entity.Boss
	payments    []*entity.CompanyPayment
}

func (s *Store) snapshot() snapshot {
	orders := cloneMap(s.Orders)
	for _, o := range orders {
		items := make([]*entity.OrderItem, len(o.Items))
		for i, it := range o.Items {
			cp := *it
			items[i] = &cp
		}
		o.Items = items
	}
	return snapshot{
		users:       cloneMap(s.Users),
		tokens:      cloneMap(s.Tokens),
		companies:   cloneMap(s.Companies),
		memberships: cloneMap(s.Memberships),
		shops:       cloneMap(s.Shops),
		assignments: cloneMap(s.Assignments),
		leads:       cloneMap(s.Leads),
		products:    cloneMap(s.Products),
		prices:      cloneMap(s.Prices),
		orders:      orders,
		bosses:      cloneMap(s.Bosses),
		payments:    append([]*entity.CompanyPayment(nil), s.Payments...),
	}
}

func (s *Store) restore(snap snapshot) {
	restoreMap(s.Users, snap.users)
	restoreMap(s.Tokens, snap.tokens)
	restoreMap(s.Companies, snap.companies)
	restoreMap(s.Memberships, snap.memberships)
	restoreMap(s.Shops, snap.shops)
	restoreMap(s.Assignments, snap.assignments)
	restoreMap(s.Leads, snap.leads)
	restoreMap(s.Products, snap.products)
	restoreMap(s.Prices, snap.prices)
	restoreMap(s.Orders, snap.orders)
	restoreMap(s.Bosses, snap.bosses)
	s.Payments = snap.payments
}

func cloneMap[T any](m map[string]*T) map[string]*T {
	out := make(map[string]*T, len(m))
	for k, v := range m {
		cp := *v
		out[k] = &cp
	}
	return out
}

// restoreMap vuelve dst al contenido de snap conservando los punteros existentes,
// así las referencias que guardan los tests siguen viendo el estado real.
func restoreMap[T any](dst, snap map[string]*T) {
	for k := range dst {
		if _, ok := snap[k]; !ok {
			delete(dst, k)
		}
	}
	for k, v := range snap {
		if cur, ok := dst[k]; ok {
			*cur = *v
		} else {
			dst[k] = v
		}
	}
}

func (s *Store) lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

func contains(haystack, q string) bool {
	return q == "" || strings.Contains(strings.ToLower(haystack), strings.ToLower(q))
}

// ─── users & tokens ──────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lock()()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, x := range r.s.Users {
		if x.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	r.s.Users[u.ID] = &cp
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock()()
	if u, ok := r.s.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.lock()()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.s.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r userRepo) update(id string, fn func(u *entity.User)) error {
	defer r.s.lock()()
	if u, ok := r.s.Users[id]; ok {
		fn(u)
	}
	return nil
}

func (r userRepo) UpdateCredentials(_ context.Context, id, fullName, hash string) error {
	return r.update(id, func(u *entity.User) { u.FullName, u.PasswordHash = fullName, hash })
}

func (r userRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	return r.update(id, func(u *entity.User) { u.PasswordHash = hash })
}

func (r userRepo) UpdateFullName(_ context.Context, id, fullName string) error {
	return r.update(id, func(u *entity.User) { u.FullName = fullName })
}

func (r userRepo) UpdateEmail(_ context.Context, id, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	r.s.mu.Lock()
	for _, x := range r.s.Users {
		if x.ID != id && x.Email == email {
			r.s.mu.Unlock()
			return domain.ErrDuplicate
		}
	}
	r.s.mu.Unlock()
	return r.update(id, func(u *entity.User) { u.Email, u.EmailVerifiedAt = email, nil })
}

func (r userRepo) MarkEmailVerified(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(u *entity.User) {
		if u.EmailVerifiedAt == nil {
			u.EmailVerifiedAt = &at
		}
	})
}

func (r userRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	return r.update(id, func(u *entity.User) { u.LastLoginAt = &at })
}

type tokenRepo struct{ s *Store }

func (r tokenRepo) Create(_ context.Context, t *entity.UserToken) error {
	defer r.s.lock()()
	cp := *t
	r.s.Tokens[t.TokenHash] = &cp
	return nil
}

func (r tokenRepo) Consume(_ context.Context, hash, purpose string, now time.Time) (string, error) {
	defer r.s.lock()()
	t, ok := r.s.Tokens[hash]
	if !ok || t.Purpose != purpose || t.ConsumedAt != nil || !t.ExpiresAt.After(now) {
		return "", nil
	}
	t.ConsumedAt = &now
	return t.UserID, nil
}

// ─── companies & memberships ────────────────────────────────────────────────

type companyRepo struct{ s *Store }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	defer r.s.lock()()
	for _, x := range r.s.Companies {
		if x.Slug == c.Slug {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.Companies[c.ID] = &cp
	return nil
}

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	defer r.s.lock()()
	if c, ok := r.s.Companies[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r companyRepo) LockByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.GetByID(ctx, id)
}

func (r companyRepo) UpdateStaffLimit(_ context.Context, id string, limit int) (bool, error) {
	defer r.s.lock()()
	c, ok := r.s.Companies[id]
	if ok {
		c.StaffLimit = limit
	}
	return ok, nil
}

func (r companyRepo) ExtendSubscription(_ context.Context, id string, endsAt time.Time) error {
	defer r.s.lock()()
	if c, ok := r.s.Companies[id]; ok {
		c.SubscriptionEndsAt = &endsAt
		c.SubscriptionSuspended = false
	}
	return nil
}

func (r companyRepo) SetSuspended(_ context.Context, id string, suspended bool) (bool, error) {
	defer r.s.lock()()
	c, ok := r.s.Companies[id]
	if ok {
		c.SubscriptionSuspended = suspended
	}
	return ok, nil
}

func (r companyRepo) ListOverview(_ context.Context, f repository.CompanyFilter) ([]*entity.CompanyOverview, int, error) {
	defer r.s.lock()()
	var all []*entity.CompanyOverview
	for _, c := range r.s.Companies {
		if !contains(c.Name, f.Q) && !contains(c.Slug, f.Q) {
			continue
		}
		o := &entity.CompanyOverview{Company: *c}
		for _, m := range r.s.Memberships {
			if m.CompanyID != c.ID {
				continue
			}
			o.StaffTotal++
			switch m.Status {
			case entity.MembershipActive:
				o.StaffActive++
			case entity.MembershipInactive:
				o.StaffInactive++
			case entity.MembershipInvited:
				o.StaffInvited++
			}
		}
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := len(all)
	if f.Offset >= total {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return all[f.Offset:end], total, nil
}

func (r companyRepo) Totals(_ context.Context, now time.Time) (entity.CompanyTotals, error) {
	defer r.s.lock()()
	var t entity.CompanyTotals
	for _, c := range r.s.Companies {
		t.Companies++
		if c.SubscriptionSuspended || c.SubscriptionEndsAt == nil || c.SubscriptionEndsAt.Before(now) {
			t.ExpiredSubscription++
		} else {
			t.ActiveSubscription++
		}
	}
	return t, nil
}

func (r companyRepo) Recent(_ context.Context, limit int) ([]*entity.Company, error) {
	defer r.s.lock()()
	var out []*entity.Company
	for _, c := range r.s.Companies {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type membershipRepo struct{ s *Store }

func (r membershipRepo) Create(_ context.Context, m *entity.CompanyUser) error {
	defer r.s.lock()()
	for _, x := range r.s.Memberships {
		if x.CompanyID == m.CompanyID && x.UserID == m.UserID {
			return domain.ErrDuplicate
		}
	}
	cp := *m
	r.s.Memberships[m.ID] = &cp
	return nil
}

func (r membershipRepo) GetByID(_ context.Context, companyID, id string) (*entity.CompanyUser, error) {
	defer r.s.lock()()
	if m, ok := r.s.Memberships[id]; ok && m.CompanyID == companyID {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r membershipRepo) session(m *entity.CompanyUser) *entity.SessionMembership {
	u := r.s.Users[m.UserID]
	c := r.s.Companies[m.CompanyID]
	s := &entity.SessionMembership{
		CompanyUserID: m.ID, CompanyID: m.CompanyID, UserID: m.UserID, Role: m.Role, Status: m.Status,
	}
	if u != nil {
		s.FullName, s.Email = u.FullName, u.Email
	}
	if c != nil {
		s.CompanyName, s.CompanySlug, s.CompanyStatus = c.Name, c.Slug, c.Status
		s.StaffLimit, s.SubscriptionEndsAt, s.SubscriptionSuspended = c.StaffLimit, c.SubscriptionEndsAt, c.SubscriptionSuspended
	}
	return s
}

func (r membershipRepo) GetSession(_ context.Context, companyID, id string) (*entity.SessionMembership, error) {
	defer r.s.lock()()
	if m, ok := r.s.Memberships[id]; ok && m.CompanyID == companyID {
		return r.session(m), nil
	}
	return nil, nil
}

func (r membershipRepo) ListSessionsForUser(_ context.Context, userID string) ([]*entity.SessionMembership, error) {
	defer r.s.lock()()
	var out []*entity.SessionMembership
	for _, m := range r.s.Memberships {
		if m.UserID == userID {
			out = append(out, r.session(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompanyName < out[j].CompanyName })
	return out, nil
}

func (r membershipRepo) CountByCompany(_ context.Context, companyID string) (int, error) {
	defer r.s.lock()()
	n := 0
	for _, m := range r.s.Memberships {
		if m.CompanyID == companyID {
			n++
		}
	}
	return n, nil
}

func (r membershipRepo) CountByStatus(_ context.Context, companyID string) (map[entity.MembershipStatus]int, error) {
	defer r.s.lock()()
	out := map[entity.MembershipStatus]int{
		entity.MembershipInvited: 0, entity.MembershipActive: 0, entity.MembershipInactive: 0,
	}
	for _, m := range r.s.Memberships {
		if m.CompanyID == companyID {
			out[m.Status]++
		}
	}
	return out, nil
}

func (r membershipRepo) staff(m *entity.CompanyUser) *entity.StaffMember {
	s := &entity.StaffMember{
		CompanyUserID: m.ID, UserID: m.UserID, Role: m.Role, Status: m.Status, Phone: m.Phone,
		ManagerCompanyUserID: m.ManagerCompanyUserID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
	if u := r.s.Users[m.UserID]; u != nil {
		s.FullName, s.Email, s.EmailVerifiedAt, s.LastLoginAt = u.FullName, u.Email, u.EmailVerifiedAt, u.LastLoginAt
	}
	for _, a := range r.s.Assignments {
		if a.CompanyID == m.CompanyID && a.RepCompanyUserID == m.ID {
			s.AssignedShopsCount++
		}
	}
	return s
}

func (r membershipRepo) ListStaff(_ context.Context, companyID string, f repository.StaffFilter) ([]*entity.StaffMember, error) {
	defer r.s.lock()()
	var out []*entity.StaffMember
	for _, m := range r.s.Memberships {
		if m.CompanyID != companyID {
			continue
		}
		if f.Status != "" && m.Status != f.Status || f.Role != "" && m.Role != f.Role {
			continue
		}
		s := r.staff(m)
		if f.Q != "" && !contains(s.FullName, f.Q) && !contains(s.Email, f.Q) && !contains(s.Phone, f.Q) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r membershipRepo) GetStaff(_ context.Context, companyID, id string) (*entity.StaffMember, error) {
	defer r.s.lock()()
	if m, ok := r.s.Memberships[id]; ok && m.CompanyID == companyID {
		return r.staff(m), nil
	}
	return nil, nil
}

func (r membershipRepo) Update(_ context.Context, m *entity.CompanyUser) error {
	defer r.s.lock()()
	if x, ok := r.s.Memberships[m.ID]; ok && x.CompanyID == m.CompanyID {
		x.Role, x.Status, x.Phone, x.ManagerCompanyUserID = m.Role, m.Status, m.Phone, m.ManagerCompanyUserID
	}
	return nil
}

func (r membershipRepo) SetStatus(_ context.Context, companyID, id string, status entity.MembershipStatus) (bool, error) {
	defer r.s.lock()()
	m, ok := r.s.Memberships[id]
	if !ok || m.CompanyID != companyID {
		return false, nil
	}
	m.Status = status
	return true, nil
}

func (r membershipRepo) ActivateForUser(_ context.Context, userID string) error {
	defer r.s.lock()()
	for _, m := range r.s.Memberships {
		if m.UserID == userID && m.Status == entity.MembershipInvited {
			m.Status = entity.MembershipActive
		}
	}
	return nil
}

func (r membershipRepo) IsSupervisor(_ context.Context, companyID, id string) (bool, error) {
	defer r.s.lock()()
	m, ok := r.s.Memberships[id]
	return ok && m.CompanyID == companyID && (m.Role == entity.RoleBoss || m.Role == entity.RoleManager), nil
}

func (r membershipRepo) IsActiveRep(_ context.Context, companyID, id string) (bool, error) {
	defer r.s.lock()()
	m, ok := r.s.Memberships[id]
	return ok && m.CompanyID == companyID && m.Role == entity.RoleRep && m.Status == entity.MembershipActive, nil
}
