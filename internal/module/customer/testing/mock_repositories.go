package testing

import (
	"context"

	"github.com/google/uuid"

	"github.com/jinford/workshop-ops/internal/module/customer/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// MockCustomerRepository はテスト用のモックCustomerRepositoryです
type MockCustomerRepository struct {
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	FindByPhoneFunc func(ctx context.Context, phone string) (*domain.Customer, error)
	ListFunc        func(ctx context.Context, phone string) ([]*domain.Customer, error)
	CreateFunc      func(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
}

var _ domain.CustomerRepository = (*MockCustomerRepository)(nil)

func (m *MockCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NewNotFound("customer", id.String())
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	return nil, apperr.NewNotFound("customer", phone)
}

func (m *MockCustomerRepository) List(ctx context.Context, phone string) ([]*domain.Customer, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, phone)
	}
	return nil, nil
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, customer)
	}
	return customer, nil
}
