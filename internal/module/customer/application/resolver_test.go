package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/workshop-ops/internal/module/customer/domain"
	customertesting "github.com/jinford/workshop-ops/internal/module/customer/testing"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolve_ExplicitID(t *testing.T) {
	customer := &domain.Customer{ID: uuid.New(), Name: "田中", Phone: "090-1111-2222"}
	repo := &customertesting.MockCustomerRepository{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
			return customer, nil
		},
	}
	resolver := NewResolver(repo, testLogger())

	ref, err := resolver.Resolve(context.Background(), &customer.ID, "", "")

	require.NoError(t, err)
	require.NotNil(t, ref.ID)
	assert.Equal(t, customer.ID, *ref.ID)
	assert.False(t, ref.IsGuest())
}

func TestResolve_ExplicitIDNotFoundIsError(t *testing.T) {
	repo := &customertesting.MockCustomerRepository{}
	resolver := NewResolver(repo, testLogger())

	id := uuid.New()
	_, err := resolver.Resolve(context.Background(), &id, "", "")

	// 明示IDは存在しなければエラー（ゲストへはフォールバックしない）
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestResolve_FindByPhone(t *testing.T) {
	customer := &domain.Customer{ID: uuid.New(), Name: "佐藤", Phone: "090-3333-4444"}
	repo := &customertesting.MockCustomerRepository{
		FindByPhoneFunc: func(_ context.Context, phone string) (*domain.Customer, error) {
			return customer, nil
		},
	}
	resolver := NewResolver(repo, testLogger())

	ref, err := resolver.Resolve(context.Background(), nil, customer.Phone, "入力された名前")

	require.NoError(t, err)
	require.NotNil(t, ref.ID)
	// 既存顧客が見つかった場合はレコード側の名前が優先される
	assert.Equal(t, customer.Name, ref.Name)
}

func TestResolve_GuestFallback(t *testing.T) {
	repo := &customertesting.MockCustomerRepository{}
	resolver := NewResolver(repo, testLogger())

	ref, err := resolver.Resolve(context.Background(), nil, "090-9999-0000", "一見客")

	require.NoError(t, err)
	assert.Nil(t, ref.ID)
	assert.True(t, ref.IsGuest())
	assert.Equal(t, "一見客", ref.Name)
	assert.Equal(t, "090-9999-0000", ref.Phone)
}

func TestResolve_RequiresPhoneOrID(t *testing.T) {
	resolver := NewResolver(&customertesting.MockCustomerRepository{}, testLogger())

	_, err := resolver.Resolve(context.Background(), nil, "", "名前だけ")
	assert.True(t, apperr.IsValidation(err))
}
