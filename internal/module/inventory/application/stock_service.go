package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jinford/workshop-ops/internal/module/inventory/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// StockService は在庫管理のユースケースを提供します
type StockService struct {
	products  domain.ProductRepository
	movements domain.MovementReader
	log       *slog.Logger
}

// NewStockService は新しいStockServiceを作成します
func NewStockService(products domain.ProductRepository, movements domain.MovementReader, log *slog.Logger) *StockService {
	return &StockService{
		products:  products,
		movements: movements,
		log:       log,
	}
}

// CheckAvailability は要求された全部品の在庫を確認し、不足一覧を返します
// 不足がない場合は空スライスを返します。商品が存在しない場合はエラーです。
func (s *StockService) CheckAvailability(ctx context.Context, requests []domain.PartRequest) ([]domain.Shortage, error) {
	shortages := make([]domain.Shortage, 0)
	for _, req := range requests {
		if req.Quantity <= 0 {
			return nil, apperr.NewValidation("part quantity must be positive: %s", req.ProductID)
		}

		product, err := s.products.GetByID(ctx, req.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to check availability: %w", err)
		}

		if product.CurrentStock < req.Quantity {
			shortages = append(shortages, domain.Shortage{
				ProductID: product.ID,
				Name:      product.Name,
				Available: product.CurrentStock,
				Required:  req.Quantity,
			})
		}
	}

	return shortages, nil
}

// CreateProductInput は商品作成の入力です
type CreateProductInput struct {
	Name         string
	SKU          string
	Description  *string
	CurrentStock int
	MinimumStock int
	UnitCost     decimal.Decimal
	SellingPrice decimal.Decimal
	TaxRate      *decimal.Decimal
}

// CreateProduct は商品を作成します
func (s *StockService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperr.NewValidation("product name is required")
	}
	if input.CurrentStock < 0 {
		return nil, apperr.NewValidation("current stock must not be negative")
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:           uuid.New(),
		Name:         input.Name,
		SKU:          input.SKU,
		Description:  input.Description,
		CurrentStock: input.CurrentStock,
		MinimumStock: input.MinimumStock,
		UnitCost:     input.UnitCost,
		SellingPrice: input.SellingPrice,
		TaxRate:      input.TaxRate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.products.Create(ctx, product)
	if err != nil {
		s.log.Error("Failed to create product", "name", input.Name, "error", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return created, nil
}

// GetProduct は商品を取得します
func (s *StockService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if id == uuid.Nil {
		return nil, apperr.NewValidation("product ID is required")
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// ListProducts は商品一覧を取得します
func (s *StockService) ListProducts(ctx context.Context, search string) ([]*domain.Product, error) {
	products, err := s.products.List(ctx, search)
	if err != nil {
		s.log.Error("Failed to list products", "error", err)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// ListMovements は商品の在庫移動履歴を取得します
func (s *StockService) ListMovements(ctx context.Context, productID uuid.UUID) ([]*domain.StockMovement, error) {
	if productID == uuid.Nil {
		return nil, apperr.NewValidation("product ID is required")
	}

	movements, err := s.movements.ListByProduct(ctx, productID)
	if err != nil {
		s.log.Error("Failed to list stock movements", "productID", productID, "error", err)
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}

	return movements, nil
}
