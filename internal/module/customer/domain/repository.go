package domain

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository は顧客集約の永続化ポートです
type CustomerRepository interface {
	CustomerReader
	CustomerWriter
}

// CustomerReader は顧客の読み取り操作を定義します
type CustomerReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	List(ctx context.Context, phone string) ([]*Customer, error)
}

// CustomerWriter は顧客の書き込み操作を定義します
type CustomerWriter interface {
	Create(ctx context.Context, customer *Customer) (*Customer, error)
}
