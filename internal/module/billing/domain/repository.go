package domain

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository は請求書集約の永続化ポートです
type InvoiceRepository interface {
	InvoiceReader
	InvoiceWriter
}

// InvoiceReader は請求書の読み取り操作を定義します
type InvoiceReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*Invoice, error)
	List(ctx context.Context) ([]*Invoice, error)
}

// InvoiceWriter は請求書の書き込み操作を定義します
type InvoiceWriter interface {
	Create(ctx context.Context, invoice *Invoice) (*Invoice, error)
}

// SettingsRepository は設定の永続化ポートです
type SettingsRepository interface {
	SettingsReader
	SettingsWriter
}

// SettingsReader は設定の読み取り操作を定義します
type SettingsReader interface {
	Get(ctx context.Context) (*Settings, error)
}

// SettingsWriter は設定の書き込み操作を定義します
type SettingsWriter interface {
	Update(ctx context.Context, settings *Settings) (*Settings, error)
}
