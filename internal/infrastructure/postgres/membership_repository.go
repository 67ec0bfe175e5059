package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/fieldsales-api/internal/domain"
	"github.com/jhoicas/fieldsales-api/internal/domain/entity"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo adaptador de company_users.
type MembershipRepo struct {
	q Querier
}

func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

// Create inserta la membresía. ErrDuplicate si el usuario ya pertenece a la empresa.
func (r *MembershipRepo) Create(ctx context.Context, m *entity.CompanyUser) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO company_users (id, company_id, user_id, role, status, phone,
			manager_company_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.CompanyID, m.UserID, string(m.Role), string(m.Status), nullIfEmpty(m.Phone),
		m.ManagerCompanyUserID, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company user: %w", err)
	}
	return nil
}

func (r *MembershipRepo) GetByID(ctx context.Context, companyID, id string) (*entity.CompanyUser, error) {
	var m entity.CompanyUser
	var role, status string
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, user_id, role, status, COALESCE(phone, ''), manager_company_user_id,
			created_at, updated_at
		FROM company_users WHERE company_id = $1 AND id = $2`, companyID, id).Scan(
		&m.ID, &m.CompanyID, &m.UserID, &role, &status, &m.Phone, &m.ManagerCompanyUserID,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company user: %w", err)
	}
	m.Role = entity.Role(role)
	m.Status = entity.MembershipStatus(status)
	return &m, nil
}

const sessionSelect = `
	SELECT cu.id, cu.company_id, cu.user_id, cu.role, cu.status, u.full_name, u.email,
		c.name, c.slug, c.status, c.staff_limit, c.subscription_ends_at, c.subscription_suspended
	FROM company_users cu
	JOIN users u ON u.id = cu.user_id
	JOIN companies c ON c.id = cu.company_id`

func scanSession(row rowScanner) (*entity.SessionMembership, error) {
	var s entity.SessionMembership
	var role, status string
	if err := row.Scan(
		&s.CompanyUserID, &s.CompanyID, &s.UserID, &role, &status, &s.FullName, &s.Email,
		&s.CompanyName, &s.CompanySlug, &s.CompanyStatus, &s.StaffLimit,
		&s.SubscriptionEndsAt, &s.SubscriptionSuspended,
	); err != nil {
		return nil, err
	}
	s.Role = entity.Role(role)
	s.Status = entity.MembershipStatus(status)
	return &s, nil
}

// GetSession resuelve membresía + usuario + empresa para una sesión de tenant.
func (r *MembershipRepo) GetSession(ctx context.Context, companyID, companyUserID string) (*entity.SessionMembership, error) {
	s, err := scanSession(r.q.QueryRow(ctx,
		sessionSelect+` WHERE cu.company_id = $1 AND cu.id = $2`, companyID, companyUserID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session membership: %w", err)
	}
	return s, nil
}

// ListSessionsForUser todas las membresías del usuario, la más antigua primero.
func (r *MembershipRepo) ListSessionsForUser(ctx context.Context, userID string) ([]*entity.SessionMembership, error) {
	rows, err := r.q.Query(ctx, sessionSelect+` WHERE cu.user_id = $1 ORDER BY cu.created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var out []*entity.SessionMembership
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// CountByCompany cuenta todas las membresías (cualquier estado): todas ocupan asiento.
func (r *MembershipRepo) CountByCompany(ctx context.Context, companyID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM company_users WHERE company_id = $1`, companyID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count company users: %w", err)
	}
	return n, nil
}

func (r *MembershipRepo) CountByStatus(ctx context.Context, companyID string) (map[entity.MembershipStatus]int, error) {
	rows, err := r.q.Query(ctx,
		`SELECT status, COUNT(*) FROM company_users WHERE company_id = $1 GROUP BY status`, companyID)
	if err != nil {
		return nil, fmt.Errorf("count company users by status: %w", err)
	}
	defer rows.Close()

	out := map[entity.MembershipStatus]int{
		entity.MembershipInvited:  0,
		entity.MembershipActive:   0,
		entity.MembershipInactive: 0,
	}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out[entity.MembershipStatus(status)] = n
	}
	return out, rows.Err()
}

const staffSelect = `
	SELECT cu.id, u.id, u.full_name, u.email, cu.role, cu.status, COALESCE(cu.phone, ''),
		cu.manager_company_user_id, u.email_verified_at, u.last_login_at,
		(SELECT COUNT(*) FROM shop_assignments sa
			WHERE sa.company_id = cu.company_id AND sa.rep_company_user_id = cu.id),
		cu.created_at, cu.updated_at
	FROM company_users cu
	JOIN users u ON u.id = cu.user_id`

func scanStaff(row rowScanner) (*entity.StaffMember, error) {
	var s entity.StaffMember
	var role, status string
	if err := row.Scan(
		&s.CompanyUserID, &s.UserID, &s.FullName, &s.Email, &role, &status, &s.Phone,
		&s.ManagerCompanyUserID, &s.EmailVerifiedAt, &s.LastLoginAt, &s.AssignedShopsCount,
		&s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Role = entity.Role(role)
	s.Status = entity.MembershipStatus(status)
	return &s, nil
}

func (r *MembershipRepo) ListStaff(ctx context.Context, companyID string, f repository.StaffFilter) ([]*entity.StaffMember, error) {
	rows, err := r.q.Query(ctx, staffSelect+`
		WHERE cu.company_id = $1
			AND ($2 = '' OR u.full_name ILIKE $2 OR u.email ILIKE $2 OR cu.phone ILIKE $2)
			AND ($3 = '' OR cu.status = $3)
			AND ($4 = '' OR cu.role = $4)
		ORDER BY cu.created_at DESC`,
		companyID, likePattern(f.Q), string(f.Status), string(f.Role))
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var out []*entity.StaffMember
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *MembershipRepo) GetStaff(ctx context.Context, companyID, id string) (*entity.StaffMember, error) {
	s, err := scanStaff(r.q.QueryRow(ctx, staffSelect+` WHERE cu.company_id = $1 AND cu.id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get staff: %w", err)
	}
	return s, nil
}

func (r *MembershipRepo) Update(ctx context.Context, m *entity.CompanyUser) error {
	_, err := r.q.Exec(ctx, `
		UPDATE company_users
		SET role = $3, status = $4, phone = $5, manager_company_user_id = $6, updated_at = NOW()
		WHERE company_id = $1 AND id = $2`,
		m.CompanyID, m.ID, string(m.Role), string(m.Status), nullIfEmpty(m.Phone), m.ManagerCompanyUserID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: supervisor inexistente", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update company user: %w", err)
	}
	return nil
}

func (r *MembershipRepo) SetStatus(ctx context.Context, companyID, id string, status entity.MembershipStatus) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE company_users SET status = $3, updated_at = NOW()
		WHERE company_id = $1 AND id = $2`, companyID, id, string(status))
	if err != nil {
		return false, fmt.Errorf("set company user status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ActivateForUser pasa a active las membresías invitadas del usuario (tras verificar email).
func (r *MembershipRepo) ActivateForUser(ctx context.Context, userID string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE company_users SET status = 'active', updated_at = NOW()
		WHERE user_id = $1 AND status = 'invited'`, userID)
	if err != nil {
		return fmt.Errorf("activate memberships: %w", err)
	}
	return nil
}

func (r *MembershipRepo) IsSupervisor(ctx context.Context, companyID, id string) (bool, error) {
	return r.exists(ctx, `
		SELECT EXISTS (SELECT 1 FROM company_users
			WHERE company_id = $1 AND id = $2 AND role IN ('boss', 'manager'))`, companyID, id)
}

func (r *MembershipRepo) IsActiveRep(ctx context.Context, companyID, id string) (bool, error) {
	return r.exists(ctx, `
		SELECT EXISTS (SELECT 1 FROM company_users
			WHERE company_id = $1 AND id = $2 AND role = 'rep' AND status = 'active')`, companyID, id)
}

func (r *MembershipRepo) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("membership exists: %w", err)
	}
	return ok, nil
}
