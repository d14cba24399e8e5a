package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/jinford/workshop-ops/internal/module/billing/application"
	inventorydomain "github.com/jinford/workshop-ops/internal/module/inventory/domain"
	"github.com/jinford/workshop-ops/internal/module/workshop/domain"
	"github.com/jinford/workshop-ops/internal/platform/database"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// CompletionService はジョブの完了とキャンセルを提供します
// 完了は在庫引き落とし・リソース解放・状態遷移を1トランザクションで行い、
// 請求書の発行だけはコミット後に行います（発行失敗で完了が巻き戻らないように）
type CompletionService struct {
	txp      database.Transactor
	invoicer InvoiceCreator
	log      *slog.Logger
}

// NewCompletionService は新しいCompletionServiceを作成します
func NewCompletionService(txp database.Transactor, invoicer InvoiceCreator, log *slog.Logger) *CompletionService {
	return &CompletionService{txp: txp, invoicer: invoicer, log: log}
}

// PartUsage は完了時の部品使用実績です
// QuantityUsedがnilの場合は必要数量をそのまま使用したとみなします。
// 返却数量だけを指定するエントリも使用数量の既定値を妨げません
type PartUsage struct {
	ProductID        uuid.UUID
	QuantityUsed     *int
	QuantityReturned int
}

// ChargeInput は完了時の作業料金入力です
type ChargeInput struct {
	Name           string
	Amount         decimal.Decimal
	TaxRatePercent *decimal.Decimal
}

// CompleteJobInput はジョブ完了の入力です
type CompleteJobInput struct {
	ActualDurationMinutes int
	Parts                 []PartUsage // 省略された部品は必要数量をそのまま使用したとみなします
	Charges               []ChargeInput
	Notes                 string
	CompletedBy           string
}

// CompleteJobResult はジョブ完了の結果です
// Invoiceは請求書発行に失敗した場合nilになります（完了自体は成立）
type CompleteJobResult struct {
	Job     *domain.Job
	Invoice *InvoiceRef
}

// InvoiceRef は発行された請求書への参照です
type InvoiceRef struct {
	ID            uuid.UUID
	InvoiceNumber string
}

// Complete はジョブを完了します
// 使用数量分の在庫を引き落とし、返却分を戻し、在庫移動を記録し、
// 割り当てリソースをすべて解放して completed / progress=100 に遷移します。
// completedのジョブへの再実行はInvalidStateになります（二重引き落とし防止）
func (s *CompletionService) Complete(ctx context.Context, jobID uuid.UUID, input CompleteJobInput) (*CompleteJobResult, error) {
	var (
		completed    *domain.Job
		invoiceInput billingapp.BuildInvoiceInput
	)

	err := s.txp.Transact(ctx, func(a *database.Adapter) error {
		job, err := a.Jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job.IsTerminal() {
			return apperr.NewInvalidState("job is already %s", job.Status)
		}

		now := time.Now().UTC()

		usageByProduct := make(map[uuid.UUID]PartUsage, len(input.Parts))
		for _, u := range input.Parts {
			usageByProduct[u.ProductID] = u
		}

		consumedParts := make([]billingapp.ConsumedPart, 0, len(job.Parts))

		for i := range job.Parts {
			part := &job.Parts[i]

			used := part.QuantityRequired
			returned := 0
			if u, ok := usageByProduct[part.ProductID]; ok {
				if u.QuantityUsed != nil {
					used = *u.QuantityUsed
				}
				returned = u.QuantityReturned
			}
			if used < 0 || returned < 0 {
				return apperr.NewValidation("part quantities must not be negative")
			}

			lockID := database.GenerateLockID("product", part.ProductID.String())
			if err := a.Locks.Acquire(ctx, lockID); err != nil {
				return fmt.Errorf("failed to acquire product lock: %w", err)
			}

			if used > 0 {
				if err := a.Products.AdjustStock(ctx, part.ProductID, -used); err != nil {
					return err
				}
				if _, err := a.Movements.Create(ctx, &inventorydomain.StockMovement{
					ID:           uuid.New(),
					ProductID:    part.ProductID,
					MovementType: inventorydomain.MovementOut,
					Quantity:     used,
					Reason:       fmt.Sprintf("Used on job %s", job.JobNumber),
					JobID:        &job.ID,
					CreatedAt:    now,
				}); err != nil {
					return fmt.Errorf("failed to record stock movement: %w", err)
				}
			}
			if returned > 0 {
				if err := a.Products.AdjustStock(ctx, part.ProductID, returned); err != nil {
					return err
				}
				if _, err := a.Movements.Create(ctx, &inventorydomain.StockMovement{
					ID:           uuid.New(),
					ProductID:    part.ProductID,
					MovementType: inventorydomain.MovementIn,
					Quantity:     returned,
					Reason:       fmt.Sprintf("Returned from job %s", job.JobNumber),
					JobID:        &job.ID,
					CreatedAt:    now,
				}); err != nil {
					return fmt.Errorf("failed to record stock movement: %w", err)
				}
			}

			part.QuantityUsed = used
			part.QuantityReturned = returned

			if used > 0 {
				// 請求単価は仕入れ値ではなく現時点の販売価格を使います
				product, err := a.Products.GetByID(ctx, part.ProductID)
				if err != nil {
					return err
				}
				consumedParts = append(consumedParts, billingapp.ConsumedPart{
					ProductID:      product.ID,
					Name:           product.Name,
					Quantity:       used,
					UnitPrice:      product.SellingPrice,
					TaxRatePercent: product.TaxRate,
				})
			}
		}

		if err := releaseAllResources(ctx, a, job); err != nil {
			return err
		}

		charges := make([]domain.Charge, 0, len(input.Charges))
		serviceCharges := make([]billingapp.ServiceCharge, 0, len(input.Charges))
		for _, c := range input.Charges {
			charges = append(charges, domain.Charge{
				Name:           c.Name,
				Amount:         c.Amount,
				TaxRatePercent: c.TaxRatePercent,
			})
			serviceCharges = append(serviceCharges, billingapp.ServiceCharge{
				Name:           c.Name,
				Amount:         c.Amount,
				TaxRatePercent: c.TaxRatePercent,
			})
		}

		job.Status = domain.JobStatusCompleted
		job.IsActive = false
		job.Completion = &domain.Completion{
			ActualDurationMinutes: input.ActualDurationMinutes,
			Charges:               charges,
			Notes:                 input.Notes,
			CompletedBy:           input.CompletedBy,
			CompletedAt:           now,
		}
		job.AppendProgress(domain.ProgressCompleted, "completed", "Job completed", actorOrSystem(input.CompletedBy), now)
		job.UpdatedAt = now

		completed, err = a.Jobs.Update(ctx, job)
		if err != nil {
			return err
		}

		invoiceInput = billingapp.BuildInvoiceInput{
			JobID:         job.ID,
			JobNumber:     job.JobNumber,
			CustomerID:    job.CustomerID,
			CustomerName:  job.CustomerName,
			CustomerPhone: job.CustomerPhone,
			Charges:       serviceCharges,
			Parts:         consumedParts,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("ジョブを完了しました", "jobID", jobID, "jobNumber", completed.JobNumber)

	result := &CompleteJobResult{Job: completed}

	// 請求書発行はトランザクション外で行い、失敗しても完了は取り消しません
	invoice, err := s.invoicer.CreateFromCompletion(ctx, invoiceInput)
	if err != nil {
		s.log.Error("請求書の発行に失敗しました。手動での再発行が必要です",
			"jobID", jobID,
			"jobNumber", completed.JobNumber,
			"error", err,
		)
		return result, nil
	}

	result.Invoice = &InvoiceRef{ID: invoice.ID, InvoiceNumber: invoice.InvoiceNumber}
	return result, nil
}

// Cancel はジョブをキャンセルします
// 削除と同じ解放セットで技術者・工具・機械・作業場所をすべて解放します。
// 在庫はジョブ作成時に引き落とされていないため、戻し処理はありません
func (s *CompletionService) Cancel(ctx context.Context, jobID uuid.UUID, reason, actor string) (*domain.Job, error) {
	var cancelled *domain.Job

	err := s.txp.Transact(ctx, func(a *database.Adapter) error {
		job, err := a.Jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job.IsTerminal() {
			return apperr.NewInvalidState("job is already %s", job.Status)
		}

		if err := releaseAllResources(ctx, a, job); err != nil {
			return err
		}

		now := time.Now().UTC()
		job.Status = domain.JobStatusCancelled
		job.IsActive = false
		message := "Job cancelled"
		if reason != "" {
			message = fmt.Sprintf("Job cancelled: %s", reason)
		}
		job.AppendProgress(job.Progress, "cancelled", message, actorOrSystem(actor), now)
		job.UpdatedAt = now

		cancelled, err = a.Jobs.Update(ctx, job)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("ジョブをキャンセルしました", "jobID", jobID)
	return cancelled, nil
}
