package application

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jinford/workshop-ops/internal/module/billing/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// ServiceCharge は請求書に計上する作業料金の入力です
type ServiceCharge struct {
	Name           string
	Amount         decimal.Decimal
	TaxRatePercent *decimal.Decimal
}

// ConsumedPart は請求書に計上する使用部品の入力です
type ConsumedPart struct {
	ProductID      uuid.UUID
	Name           string
	Quantity       int
	UnitPrice      decimal.Decimal
	TaxRatePercent *decimal.Decimal // nilの場合は設定の既定税率を適用
}

// BuildInvoiceInput はジョブ完了時の請求書生成入力です
type BuildInvoiceInput struct {
	JobID         uuid.UUID
	JobNumber     string
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerPhone string
	Charges       []ServiceCharge
	Parts         []ConsumedPart
}

// InvoiceService は請求書のユースケースを提供します
type InvoiceService struct {
	invoices domain.InvoiceRepository
	settings domain.SettingsReader
	log      *slog.Logger
}

// NewInvoiceService は新しいInvoiceServiceを作成します
func NewInvoiceService(invoices domain.InvoiceRepository, settings domain.SettingsReader, log *slog.Logger) *InvoiceService {
	return &InvoiceService{
		invoices: invoices,
		settings: settings,
		log:      log,
	}
}

// BuildInvoice は作業料金と使用部品から請求書を組み立てます
// 永続化は行いません。税率未設定の項目には設定の既定税率を適用します
func BuildInvoice(input BuildInvoiceInput, settings domain.Settings) *domain.Invoice {
	lineItems := make([]domain.InvoiceLineItem, 0, len(input.Charges)+len(input.Parts))

	for _, charge := range input.Charges {
		taxRate := settings.DefaultTaxRatePercent
		if charge.TaxRatePercent != nil {
			taxRate = *charge.TaxRatePercent
		}
		lineItems = append(lineItems, domain.InvoiceLineItem{
			Description:    charge.Name,
			Quantity:       1,
			UnitPrice:      charge.Amount,
			TaxRatePercent: taxRate,
		})
	}

	for _, part := range input.Parts {
		taxRate := settings.DefaultTaxRatePercent
		if part.TaxRatePercent != nil {
			taxRate = *part.TaxRatePercent
		}
		productID := part.ProductID
		lineItems = append(lineItems, domain.InvoiceLineItem{
			Description:    part.Name,
			ProductID:      &productID,
			Quantity:       part.Quantity,
			UnitPrice:      part.UnitPrice,
			TaxRatePercent: taxRate,
		})
	}

	jobID := input.JobID
	invoice := &domain.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: generateInvoiceNumber(),
		JobID:         &jobID,
		CustomerID:    input.CustomerID,
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		LineItems:     lineItems,
		Currency:      settings.Currency,
		CreatedAt:     time.Now().UTC(),
	}
	invoice.ComputeTotals()

	return invoice
}

// CreateFromCompletion はジョブ完了内容から請求書を生成して保存します
func (s *InvoiceService) CreateFromCompletion(ctx context.Context, input BuildInvoiceInput) (*domain.Invoice, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	invoice := BuildInvoice(input, *settings)

	created, err := s.invoices.Create(ctx, invoice)
	if err != nil {
		s.log.Error("Failed to create invoice", "jobID", input.JobID, "error", err)
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.log.Info("請求書を発行しました",
		"invoiceNumber", created.InvoiceNumber,
		"jobID", input.JobID,
		"total", created.Total.String(),
	)

	return created, nil
}

// GetInvoice は請求書を取得します
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	if id == uuid.Nil {
		return nil, apperr.NewValidation("invoice ID is required")
	}

	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// ListInvoices は請求書一覧を取得します
func (s *InvoiceService) ListInvoices(ctx context.Context) ([]*domain.Invoice, error) {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		s.log.Error("Failed to list invoices", "error", err)
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func generateInvoiceNumber() string {
	return fmt.Sprintf("INV-%s-%04d", time.Now().UTC().Format("20060102"), rand.Intn(10000))
}
