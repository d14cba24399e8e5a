package application

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/workshop-ops/internal/module/billing/domain"
	billingtesting "github.com/jinford/workshop-ops/internal/module/billing/testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildInvoice_TotalsAndTaxFallback(t *testing.T) {
	settings := domain.Settings{
		DefaultTaxRatePercent: decimal.NewFromInt(10),
		Currency:              "JPY",
	}
	jobID := uuid.New()
	productID := uuid.New()

	// 部品: 2個 × 10 = 20（税率は商品側の10%）
	// 作業料: 5 × 1.10 = 5.5 相当（税率10%のフォールバック）
	invoice := BuildInvoice(BuildInvoiceInput{
		JobID:        jobID,
		JobNumber:    "JOB-20260831-0001",
		CustomerName: "田中",
		Charges: []ServiceCharge{
			{Name: "作業料", Amount: decimal.NewFromInt(5)},
		},
		Parts: []ConsumedPart{
			{ProductID: productID, Name: "パッド", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		},
	}, settings)

	require.Len(t, invoice.LineItems, 2)
	assert.True(t, invoice.Subtotal.Equal(decimal.NewFromInt(25)), "subtotal = %s", invoice.Subtotal)
	assert.True(t, invoice.TaxTotal.Equal(decimal.NewFromFloat(2.5)), "taxTotal = %s", invoice.TaxTotal)
	assert.True(t, invoice.Total.Equal(decimal.NewFromFloat(27.5)), "total = %s", invoice.Total)
	assert.Equal(t, "JPY", invoice.Currency)
	require.NotNil(t, invoice.JobID)
	assert.Equal(t, jobID, *invoice.JobID)
}

func TestBuildInvoice_ExplicitZeroRateSkipsTax(t *testing.T) {
	settings := domain.Settings{
		DefaultTaxRatePercent: decimal.NewFromInt(10),
		Currency:              "JPY",
	}
	zero := decimal.Zero

	// 部品: 2個 × 10 = 20（明示的な税率0%、フォールバックしない）
	// 作業料: 5 × 1.10 = 5.5 相当（税率10%のフォールバック）
	invoice := BuildInvoice(BuildInvoiceInput{
		JobID: uuid.New(),
		Charges: []ServiceCharge{
			{Name: "作業料", Amount: decimal.NewFromInt(5)},
		},
		Parts: []ConsumedPart{
			{ProductID: uuid.New(), Name: "非課税部品", Quantity: 2, UnitPrice: decimal.NewFromInt(10), TaxRatePercent: &zero},
		},
	}, settings)

	require.Len(t, invoice.LineItems, 2)
	assert.True(t, invoice.Subtotal.Equal(decimal.NewFromInt(25)), "subtotal = %s", invoice.Subtotal)
	assert.True(t, invoice.TaxTotal.Equal(decimal.NewFromFloat(0.5)), "taxTotal = %s", invoice.TaxTotal)
	assert.True(t, invoice.Total.Equal(decimal.NewFromFloat(25.5)), "total = %s", invoice.Total)
}

func TestBuildInvoice_ProductTaxRateOverridesDefault(t *testing.T) {
	settings := domain.Settings{
		DefaultTaxRatePercent: decimal.NewFromInt(10),
		Currency:              "JPY",
	}
	reduced := decimal.NewFromInt(8)

	invoice := BuildInvoice(BuildInvoiceInput{
		JobID: uuid.New(),
		Parts: []ConsumedPart{
			{ProductID: uuid.New(), Name: "軽減税率品", Quantity: 1, UnitPrice: decimal.NewFromInt(100), TaxRatePercent: &reduced},
		},
	}, settings)

	require.Len(t, invoice.LineItems, 1)
	assert.True(t, invoice.LineItems[0].TaxRatePercent.Equal(reduced))
	assert.True(t, invoice.TaxTotal.Equal(decimal.NewFromInt(8)))
}

func TestCreateFromCompletion_PersistsInvoice(t *testing.T) {
	var saved *domain.Invoice
	invoices := &billingtesting.MockInvoiceRepository{
		CreateFunc: func(_ context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
			saved = invoice
			return invoice, nil
		},
	}
	svc := NewInvoiceService(invoices, &billingtesting.MockSettingsRepository{}, testLogger())

	created, err := svc.CreateFromCompletion(context.Background(), BuildInvoiceInput{
		JobID:        uuid.New(),
		CustomerName: "佐藤",
		Charges:      []ServiceCharge{{Name: "点検料", Amount: decimal.NewFromInt(3000)}},
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.NotEmpty(t, created.InvoiceNumber)
	assert.True(t, created.Total.Equal(decimal.NewFromInt(3300)))
}
