package application

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerapp "github.com/jinford/workshop-ops/internal/module/customer/application"
	customerdomain "github.com/jinford/workshop-ops/internal/module/customer/domain"
	customertesting "github.com/jinford/workshop-ops/internal/module/customer/testing"
	inventoryapp "github.com/jinford/workshop-ops/internal/module/inventory/application"
	inventorydomain "github.com/jinford/workshop-ops/internal/module/inventory/domain"
	inventorytesting "github.com/jinford/workshop-ops/internal/module/inventory/testing"
	resourcetesting "github.com/jinford/workshop-ops/internal/module/resource/testing"
	"github.com/jinford/workshop-ops/internal/module/workshop/domain"
	workshoptesting "github.com/jinford/workshop-ops/internal/module/workshop/testing"
	"github.com/jinford/workshop-ops/internal/platform/database"
	dbtesting "github.com/jinford/workshop-ops/internal/platform/database/testing"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newJobService(
	jobs domain.JobRepository,
	products inventorydomain.ProductRepository,
	customers customerdomain.CustomerRepository,
	txp database.Transactor,
) *JobService {
	log := testLogger()
	resolver := customerapp.NewResolver(customers, log)
	stock := inventoryapp.NewStockService(products, &inventorytesting.MockMovementRepository{}, log)
	return NewJobService(jobs, resolver, stock, products, txp, domain.RatioPolicy{}, log)
}

func TestCreateJob_RejectsOnShortage(t *testing.T) {
	product := inventorytesting.TestProduct("ブレーキパッド", 2)
	products := &inventorytesting.MockProductRepository{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*inventorydomain.Product, error) {
			return product, nil
		},
	}

	created := false
	jobs := &workshoptesting.MockJobRepository{
		CreateFunc: func(_ context.Context, job *domain.Job) (*domain.Job, error) {
			created = true
			return job, nil
		},
	}

	svc := newJobService(jobs, products, &customertesting.MockCustomerRepository{}, dbtesting.NewStubTransactor(&database.Adapter{}))

	_, err := svc.CreateJob(context.Background(), CreateJobInput{
		CustomerPhone: "090-0000-0000",
		CustomerName:  "田中",
		Title:         "Brake pad replacement",
		Parts:         []PartInput{{ProductID: product.ID, Quantity: 5}},
	})

	// 不足があれば作成全体が拒否され、在庫もジョブも変化しない
	require.Error(t, err)
	ise, ok := inventorydomain.IsInsufficientStock(err)
	require.True(t, ok)
	require.Len(t, ise.Shortages, 1)
	assert.Equal(t, 2, ise.Shortages[0].Available)
	assert.Equal(t, 5, ise.Shortages[0].Required)
	assert.False(t, created)
}

func TestCreateJob_SeedsProgressAndSnapshot(t *testing.T) {
	product := inventorytesting.TestProduct("オイルフィルター", 10)
	products := &inventorytesting.MockProductRepository{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*inventorydomain.Product, error) {
			return product, nil
		},
	}

	var saved *domain.Job
	jobs := &workshoptesting.MockJobRepository{
		CreateFunc: func(_ context.Context, job *domain.Job) (*domain.Job, error) {
			saved = job
			return job, nil
		},
	}

	svc := newJobService(jobs, products, &customertesting.MockCustomerRepository{}, dbtesting.NewStubTransactor(&database.Adapter{}))

	job, err := svc.CreateJob(context.Background(), CreateJobInput{
		CustomerPhone: "090-1111-2222",
		CustomerName:  "佐藤",
		Title:         "Oil change",
		Parts:         []PartInput{{ProductID: product.ID, Quantity: 2}},
		Tasks:         []TaskInput{{Title: "Drain oil", EstimatedMinutes: 20}},
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, domain.JobStatusDraft, job.Status)
	assert.Equal(t, domain.ProgressQualityChecked, job.Progress)
	require.Len(t, job.ProgressHistory, 1)
	assert.Equal(t, "quality_check", job.ProgressHistory[0].Step)

	// 顧客レコードがないため電話番号によるゲスト参照になる
	assert.Nil(t, job.CustomerID)
	assert.Equal(t, "佐藤", job.CustomerName)

	// 部品は商品スナップショットとして保持される
	require.Len(t, job.Parts, 1)
	assert.Equal(t, product.Name, job.Parts[0].Name)
	assert.Equal(t, 2, job.Parts[0].QuantityRequired)
	assert.Equal(t, 0, job.Parts[0].QuantityUsed)

	require.Len(t, job.Tasks, 1)
	assert.Equal(t, domain.TaskStatusTodo, job.Tasks[0].Status)
}

func TestUpdateJob_RejectsTerminal(t *testing.T) {
	completed := workshoptesting.TestJob(domain.JobStatusCompleted)
	jobs := &workshoptesting.MockJobRepository{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Job, error) {
			return completed, nil
		},
	}

	svc := newJobService(jobs, &inventorytesting.MockProductRepository{}, &customertesting.MockCustomerRepository{}, dbtesting.NewStubTransactor(&database.Adapter{}))

	title := "new title"
	_, err := svc.UpdateJob(context.Background(), completed.ID, UpdateJobInput{Title: &title})
	assert.True(t, apperr.IsInvalidState(err))
}

func TestUpdateTask_RecomputesProgress(t *testing.T) {
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	job.Tasks = []domain.Task{
		workshoptesting.TestTask("Inspect", domain.TaskStatusTodo),
		workshoptesting.TestTask("Replace", domain.TaskStatusTodo),
	}

	jobs := &workshoptesting.MockJobRepository{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Job, error) {
			return job, nil
		},
	}

	svc := newJobService(jobs, &inventorytesting.MockProductRepository{}, &customertesting.MockCustomerRepository{}, dbtesting.NewStubTransactor(&database.Adapter{}))

	status := domain.TaskStatusCompleted
	updated, err := svc.UpdateTask(context.Background(), job.ID, job.Tasks[0].ID, UpdateTaskInput{Status: &status})

	require.NoError(t, err)
	// round(100 * 1/2) = 50
	assert.Equal(t, 50, updated.Progress)
	assert.NotNil(t, updated.Tasks[0].CompletedAt)
	assert.Equal(t, "task_progress", updated.ProgressHistory[len(updated.ProgressHistory)-1].Step)
}

func TestDeleteJob_AfterCancelDoesNotReleaseAgain(t *testing.T) {
	jobRepo := workshoptesting.NewInMemoryJobRepository()
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	job.Technicians = []domain.AssignedTechnician{workshoptesting.TestAssignedTechnician(uuid.New(), "山田")}
	job.Tools = []domain.ReservedTool{{ToolID: uuid.New(), Name: "トルクレンチ"}}
	_, err := jobRepo.Create(context.Background(), job)
	require.NoError(t, err)

	toolReleases := 0
	adapter := &database.Adapter{
		Jobs: jobRepo,
		Technicians: &resourcetesting.MockTechnicianRepository{
			RemoveJobFunc: func(_ context.Context, technicianID, jobID uuid.UUID) error {
				return nil
			},
		},
		Tools: &resourcetesting.MockToolRepository{
			SetAvailabilityFunc: func(_ context.Context, id uuid.UUID, available bool, _ *time.Time) error {
				if available {
					toolReleases++
				}
				return nil
			},
		},
	}
	txp := dbtesting.NewStubTransactor(adapter)

	completions := NewCompletionService(txp, &stubInvoiceCreator{}, testLogger())
	_, err = completions.Cancel(context.Background(), job.ID, "customer request", "受付")
	require.NoError(t, err)
	require.Equal(t, 1, toolReleases)

	// キャンセル済みジョブの削除は解放済みリソースに触れない
	// （その間に別ジョブが確保した工具を利用可能に戻さないこと）
	svc := newJobService(jobRepo, &inventorytesting.MockProductRepository{}, &customertesting.MockCustomerRepository{}, txp)
	err = svc.DeleteJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, toolReleases)

	_, err = jobRepo.GetByID(context.Background(), job.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteJob_GuardsActiveStates(t *testing.T) {
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	adapter := &database.Adapter{
		Jobs: &workshoptesting.MockJobRepository{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Job, error) {
				return job, nil
			},
		},
	}

	svc := newJobService(&workshoptesting.MockJobRepository{}, &inventorytesting.MockProductRepository{}, &customertesting.MockCustomerRepository{}, dbtesting.NewStubTransactor(adapter))

	err := svc.DeleteJob(context.Background(), job.ID)
	assert.True(t, apperr.IsInvalidState(err))
}
