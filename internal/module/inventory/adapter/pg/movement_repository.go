package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jinford/workshop-ops/internal/module/inventory/domain"
)

// MovementRepository は在庫移動レコードの永続化アダプターです
// レコードは追記専用で、更新・削除操作は提供しません
type MovementRepository struct {
	db DBTX
}

// NewMovementRepository は新しい在庫移動リポジトリを作成します
func NewMovementRepository(db DBTX) *MovementRepository {
	return &MovementRepository{db: db}
}

var _ domain.MovementRepository = (*MovementRepository)(nil)

const movementColumns = `id, product_id, movement_type, quantity, reason, job_id, created_at`

func scanMovement(row pgx.Row) (*domain.StockMovement, error) {
	var m domain.StockMovement
	err := row.Scan(&m.ID, &m.ProductID, &m.MovementType, &m.Quantity, &m.Reason, &m.JobID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create は在庫移動レコードを作成します
func (r *MovementRepository) Create(ctx context.Context, movement *domain.StockMovement) (*domain.StockMovement, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO stock_movements (id, product_id, movement_type, quantity, reason, job_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+movementColumns,
		movement.ID, movement.ProductID, string(movement.MovementType), movement.Quantity,
		movement.Reason, movement.JobID, movement.CreatedAt,
	)
	created, err := scanMovement(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create stock movement: %w", err)
	}
	return created, nil
}

// ListByProduct は商品の在庫移動履歴を新しい順に取得します
func (r *MovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.StockMovement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+movementColumns+` FROM stock_movements WHERE product_id = $1 ORDER BY created_at DESC`,
		productID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	defer rows.Close()

	return collectMovements(rows)
}

// ListByJob はジョブに紐付く在庫移動を取得します
func (r *MovementRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*domain.StockMovement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+movementColumns+` FROM stock_movements WHERE job_id = $1 ORDER BY created_at`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	defer rows.Close()

	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*domain.StockMovement, error) {
	movements := make([]*domain.StockMovement, 0)
	for rows.Next() {
		movement, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock movement: %w", err)
		}
		movements = append(movements, movement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stock movements: %w", err)
	}
	return movements, nil
}
