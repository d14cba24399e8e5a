package testing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jinford/workshop-ops/internal/module/inventory/domain"
)

// TestProduct はテスト用のProductを生成します
func TestProduct(name string, stock int) *domain.Product {
	now := time.Now().UTC()
	return &domain.Product{
		ID:           uuid.New(),
		Name:         name,
		SKU:          "SKU-" + name,
		CurrentStock: stock,
		MinimumStock: 1,
		UnitCost:     decimal.NewFromInt(10),
		SellingPrice: decimal.NewFromInt(15),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
