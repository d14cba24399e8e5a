package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceLineItem は請求書の明細行です
type InvoiceLineItem struct {
	Description    string          `json:"description"`
	ProductID      *uuid.UUID      `json:"productID,omitempty"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TaxRatePercent decimal.Decimal `json:"taxRatePercent"`
}

// Subtotal は税抜の行合計を返します
func (li InvoiceLineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// TaxAmount は行の税額を返します
func (li InvoiceLineItem) TaxAmount() decimal.Decimal {
	return li.Subtotal().Mul(li.TaxRatePercent).Div(decimal.NewFromInt(100))
}

// Invoice は請求書集約です
// 合計金額は明細行から自身で算出します
type Invoice struct {
	ID            uuid.UUID         `json:"id"`
	InvoiceNumber string            `json:"invoiceNumber"`
	JobID         *uuid.UUID        `json:"jobID,omitempty"`
	CustomerID    *uuid.UUID        `json:"customerID,omitempty"`
	CustomerName  string            `json:"customerName"`
	CustomerPhone string            `json:"customerPhone"`
	LineItems     []InvoiceLineItem `json:"lineItems"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	TaxTotal      decimal.Decimal   `json:"taxTotal"`
	Total         decimal.Decimal   `json:"total"`
	Currency      string            `json:"currency"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// ComputeTotals は明細行から小計・税額・合計を再計算します
func (inv *Invoice) ComputeTotals() {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, li := range inv.LineItems {
		subtotal = subtotal.Add(li.Subtotal())
		taxTotal = taxTotal.Add(li.TaxAmount())
	}
	inv.Subtotal = subtotal
	inv.TaxTotal = taxTotal
	inv.Total = subtotal.Add(taxTotal)
}

// Settings は業務全体の設定スナップショットです
// 必要とするコンポーネントへ明示的に注入します
type Settings struct {
	DefaultTaxRatePercent decimal.Decimal `json:"defaultTaxRatePercent"`
	Currency              string          `json:"currency"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}
