package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventorydomain "github.com/jinford/workshop-ops/internal/module/inventory/domain"
	inventorytesting "github.com/jinford/workshop-ops/internal/module/inventory/testing"
	resourcedomain "github.com/jinford/workshop-ops/internal/module/resource/domain"
	resourcetesting "github.com/jinford/workshop-ops/internal/module/resource/testing"
	"github.com/jinford/workshop-ops/internal/module/workshop/domain"
	workshoptesting "github.com/jinford/workshop-ops/internal/module/workshop/testing"
	"github.com/jinford/workshop-ops/internal/platform/database"
	dbtesting "github.com/jinford/workshop-ops/internal/platform/database/testing"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

func TestAssignTechnician_TransitionsScheduledToInProgress(t *testing.T) {
	job := workshoptesting.TestJob(domain.JobStatusScheduled)
	technician := resourcetesting.TestTechnician("山田", 3)

	jobRepo := workshoptesting.NewInMemoryJobRepository()
	_, err := jobRepo.Create(context.Background(), job)
	require.NoError(t, err)

	addedJobs := []uuid.UUID{}
	adapter := &database.Adapter{
		Jobs: jobRepo,
		Technicians: &resourcetesting.MockTechnicianRepository{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*resourcedomain.Technician, error) {
				return technician, nil
			},
			AddJobFunc: func(_ context.Context, technicianID, jobID uuid.UUID) error {
				addedJobs = append(addedJobs, jobID)
				return nil
			},
		},
	}

	svc := NewAssignmentService(dbtesting.NewStubTransactor(adapter), domain.RatioPolicy{}, testLogger())

	updated, err := svc.AssignTechnician(context.Background(), job.ID, technician.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusInProgress, updated.Status)
	assert.Equal(t, domain.ProgressWorkStarted, updated.Progress)
	require.Len(t, updated.Technicians, 1)
	assert.Equal(t, technician.Name, updated.Technicians[0].Name)
	// 双方向リンク: 技術者側にもジョブが記録される
	assert.Equal(t, []uuid.UUID{job.ID}, addedJobs)
}

func TestAssignTechnician_RejectsUnavailable(t *testing.T) {
	job := workshoptesting.TestJob(domain.JobStatusScheduled)
	technician := resourcetesting.TestTechnician("休暇中", 3)
	technician.OnLeave = true

	jobRepo := workshoptesting.NewInMemoryJobRepository()
	_, err := jobRepo.Create(context.Background(), job)
	require.NoError(t, err)

	adapter := &database.Adapter{
		Jobs: jobRepo,
		Technicians: &resourcetesting.MockTechnicianRepository{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*resourcedomain.Technician, error) {
				return technician, nil
			},
		},
	}

	svc := NewAssignmentService(dbtesting.NewStubTransactor(adapter), domain.RatioPolicy{}, testLogger())

	_, err = svc.AssignTechnician(context.Background(), job.ID, technician.ID)
	assert.True(t, apperr.IsInvalidState(err))
}

func TestAssignTechnician_RejectsDuplicate(t *testing.T) {
	technician := resourcetesting.TestTechnician("山田", 3)
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	job.Technicians = []domain.AssignedTechnician{workshoptesting.TestAssignedTechnician(technician.ID, technician.Name)}

	jobRepo := workshoptesting.NewInMemoryJobRepository()
	_, err := jobRepo.Create(context.Background(), job)
	require.NoError(t, err)

	adapter := &database.Adapter{Jobs: jobRepo}
	svc := NewAssignmentService(dbtesting.NewStubTransactor(adapter), domain.RatioPolicy{}, testLogger())

	_, err = svc.AssignTechnician(context.Background(), job.ID, technician.ID)
	assert.True(t, apperr.IsInvalidState(err))
}

func TestAssignMachine_RejectsNonOperational(t *testing.T) {
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	machine := resourcetesting.TestMachine("リフト", false, true)

	jobRepo := workshoptesting.NewInMemoryJobRepository()
	_, err := jobRepo.Create(context.Background(), job)
	require.NoError(t, err)

	adapter := &database.Adapter{
		Jobs: jobRepo,
		Machines: &resourcetesting.MockMachineRepository{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*resourcedomain.Machine, error) {
				return machine, nil
			},
		},
	}

	svc := NewAssignmentService(dbtesting.NewStubTransactor(adapter), domain.RatioPolicy{}, testLogger())

	// 稼働不能の機械は可用フラグがtrueでも予約できない
	_, err = svc.AssignMachine(context.Background(), job.ID, machine.ID, nil, nil)
	assert.True(t, apperr.IsInvalidState(err))
}

func TestAssignPart_AccumulatesQuantityWithoutDeduction(t *testing.T) {
	product := inventorytesting.TestProduct("ワイパー", 10)
	job := workshoptesting.TestJob(domain.JobStatusInProgress)
	job.Parts = []domain.Part{workshoptesting.TestPart(product.ID, product.Name, 3)}

	jobRepo := workshoptesting.NewInMemoryJobRepository()
	_, err := jobRepo.Create(context.Background(), job)
	require.NoError(t, err)

	adjustCalled := false
	adapter := &database.Adapter{
		Jobs: jobRepo,
		Products: &inventorytesting.MockProductRepository{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*inventorydomain.Product, error) {
				return product, nil
			},
			AdjustStockFunc: func(_ context.Context, id uuid.UUID, delta int) error {
				adjustCalled = true
				return nil
			},
		},
	}

	svc := NewAssignmentService(dbtesting.NewStubTransactor(adapter), domain.RatioPolicy{}, testLogger())

	updated, err := svc.AssignPart(context.Background(), job.ID, product.ID, 4)

	require.NoError(t, err)
	require.Len(t, updated.Parts, 1)
	assert.Equal(t, 7, updated.Parts[0].QuantityRequired)
	// 割り当て段階では在庫は引き落とされない
	assert.False(t, adjustCalled)

	// 在庫を超える追加は拒否される
	_, err = svc.AssignPart(context.Background(), job.ID, product.ID, 100)
	_, isShortage := inventorydomain.IsInsufficientStock(err)
	assert.True(t, isShortage)
}

func TestBulkAssign_CollectsPartialFailures(t *testing.T) {
	job := workshoptesting.TestJob(domain.JobStatusScheduled)
	available := resourcetesting.TestTechnician("山田", 3)
	busy := resourcetesting.TestTechnician("多忙", 1)
	busy.CurrentJobs = []uuid.UUID{uuid.New()}

	jobRepo := workshoptesting.NewInMemoryJobRepository()
	_, err := jobRepo.Create(context.Background(), job)
	require.NoError(t, err)

	technicians := map[uuid.UUID]*resourcedomain.Technician{
		available.ID: available,
		busy.ID:      busy,
	}
	adapter := &database.Adapter{
		Jobs: jobRepo,
		Technicians: &resourcetesting.MockTechnicianRepository{
			GetByIDFunc: func(_ context.Context, id uuid.UUID) (*resourcedomain.Technician, error) {
				return technicians[id], nil
			},
		},
	}

	svc := NewAssignmentService(dbtesting.NewStubTransactor(adapter), domain.RatioPolicy{}, testLogger())

	result, err := svc.BulkAssign(context.Background(), job.ID, BulkAssignInput{
		TechnicianIDs: []uuid.UUID{available.ID, busy.ID},
	})

	require.NoError(t, err)
	// 失敗はerrorsに収集され、成功分はコミットされる
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], busy.ID.String())
	require.Len(t, result.Job.Technicians, 1)
	assert.Equal(t, available.Name, result.Job.Technicians[0].Name)
	assert.Equal(t, domain.ProgressResourcesAssigned, result.Job.Progress)
	assert.Equal(t, domain.JobStatusInProgress, result.Job.Status)
}
