package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jinford/workshop-ops/internal/module/inventory/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// DBTX はプールとトランザクションの両方を受け付けるクエリ実行インターフェースです
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ProductRepository は商品集約の永続化アダプターです
type ProductRepository struct {
	db DBTX
}

// NewProductRepository は新しい商品リポジトリを作成します
func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ domain.ProductRepository = (*ProductRepository)(nil)

const productColumns = `id, name, sku, description, current_stock, minimum_stock, unit_cost, selling_price, tax_rate, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &p.Description, &p.CurrentStock, &p.MinimumStock,
		&p.UnitCost, &p.SellingPrice, &p.TaxRate, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID はIDで商品を取得します
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("product", id.String())
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// List は商品一覧を取得します（searchは名前・SKUの部分一致）
func (r *ProductRepository) List(ctx context.Context, search string) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`
	args := []any{}
	if search != "" {
		query = `SELECT ` + productColumns + ` FROM products WHERE name ILIKE '%' || $1 || '%' OR sku ILIKE '%' || $1 || '%' ORDER BY name`
		args = append(args, search)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// Create は商品を作成します
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO products (id, name, sku, description, current_stock, minimum_stock, unit_cost, selling_price, tax_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+productColumns,
		product.ID, product.Name, product.SKU, product.Description, product.CurrentStock,
		product.MinimumStock, product.UnitCost, product.SellingPrice, product.TaxRate,
		product.CreatedAt, product.UpdatedAt,
	)
	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return created, nil
}

// AdjustStock は在庫数をdelta分増減します
// 条件付きUPDATEにより、減算で在庫が負になる更新は行にマッチせず
// InsufficientStockErrorとして報告されます
func (r *ProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET current_stock = current_stock + $2, updated_at = now()
		WHERE id = $1 AND current_stock + $2 >= 0`,
		id, delta,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		product, err := r.GetByID(ctx, id)
		if err != nil {
			return err
		}
		return &domain.InsufficientStockError{
			Shortages: []domain.Shortage{{
				ProductID: product.ID,
				Name:      product.Name,
				Available: product.CurrentStock,
				Required:  -delta,
			}},
		}
	}

	return nil
}
