package application

import (
	"context"

	"github.com/google/uuid"

	billingapp "github.com/jinford/workshop-ops/internal/module/billing/application"
	billingdomain "github.com/jinford/workshop-ops/internal/module/billing/domain"
	customerdomain "github.com/jinford/workshop-ops/internal/module/customer/domain"
	inventorydomain "github.com/jinford/workshop-ops/internal/module/inventory/domain"
)

// CustomerResolver は顧客の find-or-guest 解決ポートです
// customerモジュールのResolverが実装します
type CustomerResolver interface {
	Resolve(ctx context.Context, explicitID *uuid.UUID, phone, name string) (customerdomain.CustomerRef, error)
}

// StockChecker は部品在庫の充足確認ポートです
// inventoryモジュールのStockServiceが実装します
type StockChecker interface {
	CheckAvailability(ctx context.Context, requests []inventorydomain.PartRequest) ([]inventorydomain.Shortage, error)
}

// ProductCatalog は部品スナップショット作成に必要な商品参照ポートです
type ProductCatalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*inventorydomain.Product, error)
}

// InvoiceCreator はジョブ完了時の請求書発行ポートです
// billingモジュールのInvoiceServiceが実装します
type InvoiceCreator interface {
	CreateFromCompletion(ctx context.Context, input billingapp.BuildInvoiceInput) (*billingdomain.Invoice, error)
}
