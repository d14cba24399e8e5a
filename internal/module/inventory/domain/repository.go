package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository は商品集約の永続化ポートです
type ProductRepository interface {
	ProductReader
	ProductWriter
}

// ProductReader は商品の読み取り操作を定義します
type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)
	List(ctx context.Context, search string) ([]*Product, error)
}

// ProductWriter は商品の書き込み操作を定義します
type ProductWriter interface {
	Create(ctx context.Context, product *Product) (*Product, error)
	// AdjustStock は在庫数をdelta分増減します
	// 減算で在庫が負になる場合はInsufficientStockErrorを返します
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}

// MovementRepository は在庫移動レコードの永続化ポートです
type MovementRepository interface {
	MovementReader
	MovementWriter
}

// MovementReader は在庫移動の読み取り操作を定義します
type MovementReader interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*StockMovement, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]*StockMovement, error)
}

// MovementWriter は在庫移動の書き込み操作を定義します
type MovementWriter interface {
	Create(ctx context.Context, movement *StockMovement) (*StockMovement, error)
}
