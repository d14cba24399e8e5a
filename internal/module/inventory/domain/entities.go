package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product は在庫管理対象の商品を表します
type Product struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	SKU          string           `json:"sku"`
	Description  *string          `json:"description,omitempty"`
	CurrentStock int              `json:"currentStock"`
	MinimumStock int              `json:"minimumStock"`
	UnitCost     decimal.Decimal  `json:"unitCost"`
	SellingPrice decimal.Decimal  `json:"sellingPrice"`
	TaxRate      *decimal.Decimal `json:"taxRate,omitempty"` // %（nilの場合は設定の既定税率を使用）
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// MovementType は在庫移動の種別を表します
type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// StockMovement は在庫移動の監査レコードです（追記専用）
type StockMovement struct {
	ID           uuid.UUID    `json:"id"`
	ProductID    uuid.UUID    `json:"productID"`
	MovementType MovementType `json:"movementType"`
	Quantity     int          `json:"quantity"`
	Reason       string       `json:"reason"`
	JobID        *uuid.UUID   `json:"jobID,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// PartRequest は部品の必要数量リクエストです
type PartRequest struct {
	ProductID uuid.UUID `json:"productID"`
	Quantity  int       `json:"quantity"`
}

// Shortage は在庫不足の内訳です
type Shortage struct {
	ProductID uuid.UUID `json:"product"`
	Name      string    `json:"name"`
	Available int       `json:"available"`
	Required  int       `json:"required"`
}
