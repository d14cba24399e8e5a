package testing

import (
	"context"

	"github.com/google/uuid"

	"github.com/jinford/workshop-ops/internal/module/inventory/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// MockProductRepository はテスト用のモックProductRepositoryです
type MockProductRepository struct {
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListFunc        func(ctx context.Context, search string) ([]*domain.Product, error)
	CreateFunc      func(ctx context.Context, product *domain.Product) (*domain.Product, error)
	AdjustStockFunc func(ctx context.Context, id uuid.UUID, delta int) error
}

var _ domain.ProductRepository = (*MockProductRepository)(nil)

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NewNotFound("product", id.String())
}

func (m *MockProductRepository) List(ctx context.Context, search string) ([]*domain.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, search)
	}
	return nil, nil
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, product)
	}
	return product, nil
}

func (m *MockProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	if m.AdjustStockFunc != nil {
		return m.AdjustStockFunc(ctx, id, delta)
	}
	return nil
}

// MockMovementRepository はテスト用のモックMovementRepositoryです
type MockMovementRepository struct {
	ListByProductFunc func(ctx context.Context, productID uuid.UUID) ([]*domain.StockMovement, error)
	ListByJobFunc     func(ctx context.Context, jobID uuid.UUID) ([]*domain.StockMovement, error)
	CreateFunc        func(ctx context.Context, movement *domain.StockMovement) (*domain.StockMovement, error)
}

var _ domain.MovementRepository = (*MockMovementRepository)(nil)

func (m *MockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.StockMovement, error) {
	if m.ListByProductFunc != nil {
		return m.ListByProductFunc(ctx, productID)
	}
	return nil, nil
}

func (m *MockMovementRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*domain.StockMovement, error) {
	if m.ListByJobFunc != nil {
		return m.ListByJobFunc(ctx, jobID)
	}
	return nil, nil
}

func (m *MockMovementRepository) Create(ctx context.Context, movement *domain.StockMovement) (*domain.StockMovement, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, movement)
	}
	return movement, nil
}
