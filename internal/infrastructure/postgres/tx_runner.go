package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// NewRepositories arma todos los adaptadores sobre el mismo Querier (pool o tx).
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Roles:         NewRoleRepository(q),
		Profiles:      NewProfileRepository(q),
		Categories:    NewCategoryRepository(q),
		ItemTypes:     NewItemTypeRepository(q),
		StorageAreas:  NewStorageAreaRepository(q),
		Suppliers:     NewSupplierRepository(q),
		Items:         NewItemRepository(q),
		Presentations: NewPresentationRepository(q),
		Stock:         NewStockRepository(q),
		Batches:       NewBatchRepository(q),
		Movements:     NewInventoryMovementRepository(q),
		Orders:        NewOrderRepository(q),
		Production:    NewProductionEventRepository(q),
		Losses:        NewLossEventRepository(q),
		Counts:        NewInventoryCountRepository(q),
		Alerts:        NewExpirationAlertRepository(q),
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
