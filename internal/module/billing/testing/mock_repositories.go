package testing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jinford/workshop-ops/internal/module/billing/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// MockInvoiceRepository はテスト用のモックInvoiceRepositoryです
type MockInvoiceRepository struct {
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	GetByJobIDFunc func(ctx context.Context, jobID uuid.UUID) (*domain.Invoice, error)
	ListFunc       func(ctx context.Context) ([]*domain.Invoice, error)
	CreateFunc     func(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error)
}

var _ domain.InvoiceRepository = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NewNotFound("invoice", id.String())
}

func (m *MockInvoiceRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*domain.Invoice, error) {
	if m.GetByJobIDFunc != nil {
		return m.GetByJobIDFunc(ctx, jobID)
	}
	return nil, apperr.NewNotFound("invoice", jobID.String())
}

func (m *MockInvoiceRepository) List(ctx context.Context) ([]*domain.Invoice, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, invoice)
	}
	return invoice, nil
}

// MockSettingsRepository はテスト用のモックSettingsRepositoryです
// GetFuncが未設定の場合は税率10%・JPYの設定を返します
type MockSettingsRepository struct {
	GetFunc    func(ctx context.Context) (*domain.Settings, error)
	UpdateFunc func(ctx context.Context, settings *domain.Settings) (*domain.Settings, error)
}

var _ domain.SettingsRepository = (*MockSettingsRepository)(nil)

func (m *MockSettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return &domain.Settings{
		DefaultTaxRatePercent: decimal.NewFromInt(10),
		Currency:              "JPY",
	}, nil
}

func (m *MockSettingsRepository) Update(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, settings)
	}
	return settings, nil
}
