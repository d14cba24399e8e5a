package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingapp "github.com/jinford/workshop-ops/internal/module/billing/application"
	billingdomain "github.com/jinford/workshop-ops/internal/module/billing/domain"
	inventorydomain "github.com/jinford/workshop-ops/internal/module/inventory/domain"
	inventorytesting "github.com/jinford/workshop-ops/internal/module/inventory/testing"
	resourcetesting "github.com/jinford/workshop-ops/internal/module/resource/testing"
	"github.com/jinford/workshop-ops/internal/module/workshop/domain"
	workshoptesting "github.com/jinford/workshop-ops/internal/module/workshop/testing"
	"github.com/jinford/workshop-ops/internal/platform/database"
	dbtesting "github.com/jinford/workshop-ops/internal/platform/database/testing"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// stubInvoiceCreator はテスト用のInvoiceCreatorです
type stubInvoiceCreator struct {
	CreateFunc func(ctx context.Context, input billingapp.BuildInvoiceInput) (*billingdomain.Invoice, error)
	Inputs     []billingapp.BuildInvoiceInput
}

func (s *stubInvoiceCreator) CreateFromCompletion(ctx context.Context, input billingapp.BuildInvoiceInput) (*billingdomain.Invoice, error) {
	s.Inputs = append(s.Inputs, input)
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, input)
	}
	return &billingdomain.Invoice{ID: uuid.New(), InvoiceNumber: "INV-20260831-0001"}, nil
}

func intPtr(v int) *int {
	return &v
}

type completionFixture struct {
	jobRepo     *workshoptesting.InMemoryJobRepository
	adjustments map[uuid.UUID]int
	movements   []*inventorydomain.StockMovement
	released    *[]string
	invoicer    *stubInvoiceCreator
	svc         *CompletionService
}

func newCompletionFixture(t *testing.T, job *domain.Job, product *inventorydomain.Product) *completionFixture {
	t.Helper()

	f := &completionFixture{
		jobRepo:     workshoptesting.NewInMemoryJobRepository(),
		adjustments: map[uuid.UUID]int{},
		released:    &[]string{},
		invoicer:    &stubInvoiceCreator{},
	}
	_, err := f.jobRepo.Create(context.Background(), job)
	require.NoError(t, err)

	adapter := &database.Adapter{
		Jobs: f.jobRepo,
		Products: &inventorytesting.MockProductRepository{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*inventorydomain.Product, error) {
				return product, nil
			},
			AdjustStockFunc: func(_ context.Context, id uuid.UUID, delta int) error {
				f.adjustments[id] += delta
				return nil
			},
		},
		Movements: &inventorytesting.MockMovementRepository{
			CreateFunc: func(_ context.Context, movement *inventorydomain.StockMovement) (*inventorydomain.StockMovement, error) {
				f.movements = append(f.movements, movement)
				return movement, nil
			},
		},
		Technicians: &resourcetesting.MockTechnicianRepository{
			RemoveJobFunc: func(_ context.Context, technicianID, jobID uuid.UUID) error {
				*f.released = append(*f.released, "technician")
				return nil
			},
		},
		Tools: &resourcetesting.MockToolRepository{
			SetAvailabilityFunc: func(_ context.Context, id uuid.UUID, available bool, _ *time.Time) error {
				if available {
					*f.released = append(*f.released, "tool")
				}
				return nil
			},
		},
		Machines: &resourcetesting.MockMachineRepository{
			SetAvailabilityFunc: func(_ context.Context, id uuid.UUID, available bool, _ *time.Time) error {
				if available {
					*f.released = append(*f.released, "machine")
				}
				return nil
			},
		},
		WorkStations: &resourcetesting.MockWorkStationRepository{
			SetAvailabilityFunc: func(_ context.Context, id uuid.UUID, available bool) error {
				if available {
					*f.released = append(*f.released, "workstation")
				}
				return nil
			},
		},
	}

	f.svc = NewCompletionService(dbtesting.NewStubTransactor(adapter), f.invoicer, testLogger())
	return f
}

func TestComplete_DeductsStockAndRecordsMovements(t *testing.T) {
	product := inventorytesting.TestProduct("ブレーキパッド", 10)
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	job.Parts = []domain.Part{workshoptesting.TestPart(product.ID, product.Name, 4)}

	f := newCompletionFixture(t, job, product)

	result, err := f.svc.Complete(context.Background(), job.ID, CompleteJobInput{
		ActualDurationMinutes: 90,
		CompletedBy:           "山田",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, result.Job.Status)
	assert.Equal(t, domain.ProgressCompleted, result.Job.Progress)
	assert.False(t, result.Job.IsActive)
	require.NotNil(t, result.Job.Completion)
	assert.Equal(t, "山田", result.Job.Completion.CompletedBy)

	// 数量未指定の部品は必要数量がそのまま使用扱いになる
	assert.Equal(t, -4, f.adjustments[product.ID])
	require.Len(t, f.movements, 1)
	assert.Equal(t, inventorydomain.MovementOut, f.movements[0].MovementType)
	assert.Equal(t, 4, f.movements[0].Quantity)
	require.NotNil(t, f.movements[0].JobID)
	assert.Equal(t, job.ID, *f.movements[0].JobID)

	// 請求書には使用部品が販売価格で計上される
	require.Len(t, f.invoicer.Inputs, 1)
	require.Len(t, f.invoicer.Inputs[0].Parts, 1)
	assert.True(t, f.invoicer.Inputs[0].Parts[0].UnitPrice.Equal(product.SellingPrice))
	require.NotNil(t, result.Invoice)
}

func TestComplete_ReturnFlowCreatesBothMovements(t *testing.T) {
	product := inventorytesting.TestProduct("ガスケット", 10)
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	job.Parts = []domain.Part{workshoptesting.TestPart(product.ID, product.Name, 5)}

	f := newCompletionFixture(t, job, product)

	_, err := f.svc.Complete(context.Background(), job.ID, CompleteJobInput{
		Parts: []PartUsage{{ProductID: product.ID, QuantityUsed: intPtr(3), QuantityReturned: 2}},
	})

	require.NoError(t, err)
	// -3 + 2 = -1
	assert.Equal(t, -1, f.adjustments[product.ID])
	require.Len(t, f.movements, 2)
	assert.Equal(t, inventorydomain.MovementOut, f.movements[0].MovementType)
	assert.Equal(t, 3, f.movements[0].Quantity)
	assert.Equal(t, inventorydomain.MovementIn, f.movements[1].MovementType)
	assert.Equal(t, 2, f.movements[1].Quantity)

	saved, err := f.jobRepo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Parts[0].QuantityUsed)
	assert.Equal(t, 2, saved.Parts[0].QuantityReturned)
}

func TestComplete_ReturnOnlyEntryKeepsDefaultUsage(t *testing.T) {
	product := inventorytesting.TestProduct("オイルフィルター", 10)
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	job.Parts = []domain.Part{workshoptesting.TestPart(product.ID, product.Name, 5)}

	f := newCompletionFixture(t, job, product)

	// 返却数量だけを指定したエントリでも、使用数量は必要数量の既定値のまま
	_, err := f.svc.Complete(context.Background(), job.ID, CompleteJobInput{
		Parts: []PartUsage{{ProductID: product.ID, QuantityReturned: 2}},
	})

	require.NoError(t, err)
	// -5 + 2 = -3
	assert.Equal(t, -3, f.adjustments[product.ID])
	require.Len(t, f.movements, 2)
	assert.Equal(t, inventorydomain.MovementOut, f.movements[0].MovementType)
	assert.Equal(t, 5, f.movements[0].Quantity)
	assert.Equal(t, inventorydomain.MovementIn, f.movements[1].MovementType)
	assert.Equal(t, 2, f.movements[1].Quantity)

	saved, err := f.jobRepo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, saved.Parts[0].QuantityUsed)
	assert.Equal(t, 2, saved.Parts[0].QuantityReturned)
}

func TestComplete_ReleasesAllResources(t *testing.T) {
	product := inventorytesting.TestProduct("部品", 10)
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	job.Technicians = []domain.AssignedTechnician{workshoptesting.TestAssignedTechnician(uuid.New(), "山田")}
	job.Tools = []domain.ReservedTool{{ToolID: uuid.New(), Name: "トルクレンチ"}}
	job.Machines = []domain.ReservedMachine{{MachineID: uuid.New(), Name: "リフト"}}
	job.WorkStations = []domain.ReservedWorkStation{{WorkStationID: uuid.New(), Name: "ベイ1"}}

	f := newCompletionFixture(t, job, product)

	_, err := f.svc.Complete(context.Background(), job.ID, CompleteJobInput{})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"technician", "tool", "machine", "workstation"}, *f.released)
}

func TestComplete_SecondCompleteIsInvalidState(t *testing.T) {
	product := inventorytesting.TestProduct("部品", 10)
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	job.Parts = []domain.Part{workshoptesting.TestPart(product.ID, product.Name, 2)}

	f := newCompletionFixture(t, job, product)

	_, err := f.svc.Complete(context.Background(), job.ID, CompleteJobInput{})
	require.NoError(t, err)

	// 再実行は拒否され、在庫が二重に引き落とされない
	_, err = f.svc.Complete(context.Background(), job.ID, CompleteJobInput{})
	assert.True(t, apperr.IsInvalidState(err))
	assert.Equal(t, -2, f.adjustments[product.ID])
}

func TestComplete_InvoiceFailureDoesNotRollBackCompletion(t *testing.T) {
	product := inventorytesting.TestProduct("部品", 10)
	job := workshoptesting.TestJob(domain.JobStatusInProgress)

	f := newCompletionFixture(t, job, product)
	f.invoicer.CreateFunc = func(_ context.Context, _ billingapp.BuildInvoiceInput) (*billingdomain.Invoice, error) {
		return nil, errors.New("billing backend down")
	}

	result, err := f.svc.Complete(context.Background(), job.ID, CompleteJobInput{
		Charges: []ChargeInput{{Name: "作業料", Amount: decimal.NewFromInt(5000)}},
	})

	// 請求書発行の失敗は飲み込まれ、完了自体は成立する
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, result.Job.Status)
	assert.Nil(t, result.Invoice)

	saved, err := f.jobRepo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCompleted, saved.Status)
}

func TestCancel_ReleasesResourcesAndIsIdempotentGuarded(t *testing.T) {
	product := inventorytesting.TestProduct("部品", 10)
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	job.Technicians = []domain.AssignedTechnician{workshoptesting.TestAssignedTechnician(uuid.New(), "山田")}
	job.Tools = []domain.ReservedTool{{ToolID: uuid.New(), Name: "レンチ"}}
	job.Machines = []domain.ReservedMachine{{MachineID: uuid.New(), Name: "リフト"}}

	f := newCompletionFixture(t, job, product)

	cancelled, err := f.svc.Cancel(context.Background(), job.ID, "customer request", "受付")

	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCancelled, cancelled.Status)
	assert.False(t, cancelled.IsActive)
	// キャンセルは削除と同じ解放セット（技術者・工具・機械）を解放する
	assert.ElementsMatch(t, []string{"technician", "tool", "machine"}, *f.released)
	// 在庫は作成時に引き落とされていないため変化しない
	assert.Empty(t, f.adjustments)

	// 2回目のキャンセルはInvalidState
	_, err = f.svc.Cancel(context.Background(), job.ID, "", "")
	assert.True(t, apperr.IsInvalidState(err))
}
