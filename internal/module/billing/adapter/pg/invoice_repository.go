package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jinford/workshop-ops/internal/module/billing/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// DBTX はプールとトランザクションの両方を受け付けるクエリ実行インターフェースです
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// InvoiceRepository は請求書集約の永続化アダプターです
// 明細行はJSONBドキュメントとして保持します
type InvoiceRepository struct {
	db DBTX
}

// NewInvoiceRepository は新しい請求書リポジトリを作成します
func NewInvoiceRepository(db DBTX) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

var _ domain.InvoiceRepository = (*InvoiceRepository)(nil)

const invoiceColumns = `id, invoice_number, job_id, customer_id, customer_name, customer_phone, line_items, subtotal, tax_total, total, currency, created_at`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	var lineItems []byte
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.JobID, &inv.CustomerID, &inv.CustomerName,
		&inv.CustomerPhone, &lineItems, &inv.Subtotal, &inv.TaxTotal, &inv.Total,
		&inv.Currency, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(lineItems, &inv.LineItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal line items: %w", err)
	}
	return &inv, nil
}

// Create は請求書を作成します
func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) (*domain.Invoice, error) {
	lineItems, err := json.Marshal(invoice.LineItems)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal line items: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO invoices (id, invoice_number, job_id, customer_id, customer_name, customer_phone, line_items, subtotal, tax_total, total, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+invoiceColumns,
		invoice.ID, invoice.InvoiceNumber, invoice.JobID, invoice.CustomerID,
		invoice.CustomerName, invoice.CustomerPhone, lineItems,
		invoice.Subtotal, invoice.TaxTotal, invoice.Total, invoice.Currency, invoice.CreatedAt,
	)
	created, err := scanInvoice(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return created, nil
}

// GetByID はIDで請求書を取得します
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	row := r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("invoice", id.String())
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

// GetByJobID はジョブIDで請求書を取得します
func (r *InvoiceRepository) GetByJobID(ctx context.Context, jobID uuid.UUID) (*domain.Invoice, error) {
	row := r.db.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE job_id = $1 ORDER BY created_at DESC LIMIT 1`, jobID)
	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("invoice", jobID.String())
		}
		return nil, fmt.Errorf("failed to get invoice by job: %w", err)
	}
	return invoice, nil
}

// List は請求書一覧を新しい順に取得します
func (r *InvoiceRepository) List(ctx context.Context) ([]*domain.Invoice, error) {
	rows, err := r.db.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := make([]*domain.Invoice, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	return invoices, nil
}
