package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jinford/workshop-ops/internal/module/customer/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// CustomerService は顧客管理のユースケースを提供します
type CustomerService struct {
	customers domain.CustomerRepository
	log       *slog.Logger
}

// NewCustomerService は新しいCustomerServiceを作成します
func NewCustomerService(customers domain.CustomerRepository, log *slog.Logger) *CustomerService {
	return &CustomerService{
		customers: customers,
		log:       log,
	}
}

// CreateCustomerInput は顧客作成の入力です
type CreateCustomerInput struct {
	Name    string
	Phone   string
	Email   *string
	Address *string
}

// CreateCustomer は顧客を作成します
func (s *CustomerService) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*domain.Customer, error) {
	if input.Name == "" {
		return nil, apperr.NewValidation("customer name is required")
	}
	if input.Phone == "" {
		return nil, apperr.NewValidation("customer phone is required")
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:        uuid.New(),
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.customers.Create(ctx, customer)
	if err != nil {
		s.log.Error("Failed to create customer", "phone", input.Phone, "error", err)
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	return created, nil
}

// GetCustomer は顧客を取得します
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	if id == uuid.Nil {
		return nil, apperr.NewValidation("customer ID is required")
	}

	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return customer, nil
}

// ListCustomers は顧客一覧を取得します（phoneは任意の絞り込み）
func (s *CustomerService) ListCustomers(ctx context.Context, phone string) ([]*domain.Customer, error) {
	customers, err := s.customers.List(ctx, phone)
	if err != nil {
		s.log.Error("Failed to list customers", "error", err)
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, nil
}
