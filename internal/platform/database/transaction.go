package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	billingpg "github.com/jinford/workshop-ops/internal/module/billing/adapter/pg"
	billingdomain "github.com/jinford/workshop-ops/internal/module/billing/domain"
	customerpg "github.com/jinford/workshop-ops/internal/module/customer/adapter/pg"
	customerdomain "github.com/jinford/workshop-ops/internal/module/customer/domain"
	inventorypg "github.com/jinford/workshop-ops/internal/module/inventory/adapter/pg"
	inventorydomain "github.com/jinford/workshop-ops/internal/module/inventory/domain"
	resourcepg "github.com/jinford/workshop-ops/internal/module/resource/adapter/pg"
	resourcedomain "github.com/jinford/workshop-ops/internal/module/resource/domain"
	workshoppg "github.com/jinford/workshop-ops/internal/module/workshop/adapter/pg"
	workshopdomain "github.com/jinford/workshop-ops/internal/module/workshop/domain"
)

// Locker はトランザクション内でのアドバイザリロック取得ポートです
type Locker interface {
	Acquire(ctx context.Context, lockID int64) error
}

// Adapter は1つのトランザクション内で動作するリポジトリ群をまとめます
type Adapter struct {
	Jobs         workshopdomain.JobRepository
	Products     inventorydomain.ProductRepository
	Movements    inventorydomain.MovementRepository
	Technicians  resourcedomain.TechnicianRepository
	Tools        resourcedomain.ToolRepository
	Machines     resourcedomain.MachineRepository
	WorkStations resourcedomain.WorkStationRepository
	Invoices     billingdomain.InvoiceRepository
	Settings     billingdomain.SettingsRepository
	Customers    customerdomain.CustomerRepository
	Locks        Locker
}

func newAdapter(tx pgx.Tx) *Adapter {
	return &Adapter{
		Jobs:         workshoppg.NewJobRepository(tx),
		Products:     inventorypg.NewProductRepository(tx),
		Movements:    inventorypg.NewMovementRepository(tx),
		Technicians:  resourcepg.NewTechnicianRepository(tx),
		Tools:        resourcepg.NewToolRepository(tx),
		Machines:     resourcepg.NewMachineRepository(tx),
		WorkStations: resourcepg.NewWorkStationRepository(tx),
		Invoices:     billingpg.NewInvoiceRepository(tx),
		Settings:     billingpg.NewSettingsRepository(tx),
		Customers:    customerpg.NewCustomerRepository(tx),
		Locks:        NewLockManager(tx),
	}
}

// Transactor はトランザクション実行ポートです
// テストではモックリポジトリを詰めたAdapterでfnを呼ぶ実装に差し替えられます
type Transactor interface {
	Transact(ctx context.Context, fn func(*Adapter) error) error
}

// TransactionProvider follows the pattern described in https://threedots.tech/post/database-transactions-in-go/
// It hides pgx transactions behind a callback that receives data-access adapters.
type TransactionProvider struct {
	pool *pgxpool.Pool
}

// NewTransactionProvider は新しいTransactionProviderを作成します
func NewTransactionProvider(pool *pgxpool.Pool) *TransactionProvider {
	return &TransactionProvider{pool: pool}
}

var _ Transactor = (*TransactionProvider)(nil)

// Transact はトランザクションを開始し、アダプター群を構築してfnに渡します
func (p *TransactionProvider) Transact(ctx context.Context, fn func(*Adapter) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	adapters := newAdapter(tx)

	if err := fn(adapters); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx rollback failed: %v (original err: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
