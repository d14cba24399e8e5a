package testing

import (
	"context"

	"github.com/google/uuid"

	"github.com/jinford/workshop-ops/internal/module/workshop/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// MockJobRepository はテスト用のモックJobRepositoryです
type MockJobRepository struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	ListFunc    func(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, int, error)
	CreateFunc  func(ctx context.Context, job *domain.Job) (*domain.Job, error)
	UpdateFunc  func(ctx context.Context, job *domain.Job) (*domain.Job, error)
	DeleteFunc  func(ctx context.Context, id uuid.UUID) error
}

var _ domain.JobRepository = (*MockJobRepository)(nil)

func (m *MockJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NewNotFound("job", id.String())
}

func (m *MockJobRepository) List(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *MockJobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, job)
	}
	return job, nil
}

func (m *MockJobRepository) Update(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, job)
	}
	return job, nil
}

func (m *MockJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// InMemoryJobRepository はテスト用のインメモリJobRepositoryです
// 複数ステップのライフサイクルを通すシナリオテストで使います
type InMemoryJobRepository struct {
	Jobs map[uuid.UUID]*domain.Job
}

var _ domain.JobRepository = (*InMemoryJobRepository)(nil)

// NewInMemoryJobRepository は空のインメモリリポジトリを作成します
func NewInMemoryJobRepository() *InMemoryJobRepository {
	return &InMemoryJobRepository{Jobs: make(map[uuid.UUID]*domain.Job)}
}

func (r *InMemoryJobRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Job, error) {
	job, ok := r.Jobs[id]
	if !ok {
		return nil, apperr.NewNotFound("job", id.String())
	}
	copied := *job
	return &copied, nil
}

func (r *InMemoryJobRepository) List(_ context.Context, filter domain.JobFilter) ([]*domain.Job, int, error) {
	jobs := make([]*domain.Job, 0, len(r.Jobs))
	for _, job := range r.Jobs {
		if filter.Status != nil && job.Status != *filter.Status {
			continue
		}
		copied := *job
		jobs = append(jobs, &copied)
	}
	return jobs, len(jobs), nil
}

func (r *InMemoryJobRepository) Create(_ context.Context, job *domain.Job) (*domain.Job, error) {
	copied := *job
	r.Jobs[job.ID] = &copied
	return job, nil
}

func (r *InMemoryJobRepository) Update(_ context.Context, job *domain.Job) (*domain.Job, error) {
	if _, ok := r.Jobs[job.ID]; !ok {
		return nil, apperr.NewNotFound("job", job.ID.String())
	}
	copied := *job
	r.Jobs[job.ID] = &copied
	return job, nil
}

func (r *InMemoryJobRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.Jobs[id]; !ok {
		return apperr.NewNotFound("job", id.String())
	}
	delete(r.Jobs, id)
	return nil
}
