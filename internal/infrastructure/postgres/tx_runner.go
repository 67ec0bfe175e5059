package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/fieldsales-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// NewRepositories construye todos los adaptadores sobre el mismo Querier (pool o tx).
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Users:       NewUserRepository(q),
		Tokens:      NewTokenRepository(q),
		Companies:   NewCompanyRepository(q),
		Memberships: NewMembershipRepository(q),
		Shops:       NewShopRepository(q),
		Assignments: NewAssignmentRepository(q),
		Leads:       NewLeadRepository(q),
		Products:    NewProductRepository(q),
		Orders:      NewOrderRepository(q),
		Bosses:      NewBossRepository(q),
		Payments:    NewPaymentRepository(q),
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
