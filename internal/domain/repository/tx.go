package repository

import "context"

// Repositories agrupa los puertos atados a una misma conexión o transacción.
type Repositories struct {
	Users       UserRepository
	Tokens      TokenRepository
	Companies   CompanyRepository
	Memberships MembershipRepository
	Shops       ShopRepository
	Assignments AssignmentRepository
	Leads       LeadRepository
	Products    ProductRepository
	Orders      OrderRepository
	Bosses      BossRepository
	Payments    PaymentRepository
}

// TxRunner ejecuta fn dentro de una transacción; cualquier error hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
