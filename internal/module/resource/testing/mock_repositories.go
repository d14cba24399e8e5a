package testing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jinford/workshop-ops/internal/module/resource/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// MockTechnicianRepository はテスト用のモックTechnicianRepositoryです
type MockTechnicianRepository struct {
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Technician, error)
	ListFunc      func(ctx context.Context) ([]*domain.Technician, error)
	CreateFunc    func(ctx context.Context, technician *domain.Technician) (*domain.Technician, error)
	AddJobFunc    func(ctx context.Context, technicianID, jobID uuid.UUID) error
	RemoveJobFunc func(ctx context.Context, technicianID, jobID uuid.UUID) error
}

var _ domain.TechnicianRepository = (*MockTechnicianRepository)(nil)

func (m *MockTechnicianRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Technician, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NewNotFound("technician", id.String())
}

func (m *MockTechnicianRepository) List(ctx context.Context) ([]*domain.Technician, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockTechnicianRepository) Create(ctx context.Context, technician *domain.Technician) (*domain.Technician, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, technician)
	}
	return technician, nil
}

func (m *MockTechnicianRepository) AddJob(ctx context.Context, technicianID, jobID uuid.UUID) error {
	if m.AddJobFunc != nil {
		return m.AddJobFunc(ctx, technicianID, jobID)
	}
	return nil
}

func (m *MockTechnicianRepository) RemoveJob(ctx context.Context, technicianID, jobID uuid.UUID) error {
	if m.RemoveJobFunc != nil {
		return m.RemoveJobFunc(ctx, technicianID, jobID)
	}
	return nil
}

// MockToolRepository はテスト用のモックToolRepositoryです
type MockToolRepository struct {
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Tool, error)
	ListFunc            func(ctx context.Context) ([]*domain.Tool, error)
	CreateFunc          func(ctx context.Context, tool *domain.Tool) (*domain.Tool, error)
	SetAvailabilityFunc func(ctx context.Context, id uuid.UUID, available bool, expectedReturnAt *time.Time) error
}

var _ domain.ToolRepository = (*MockToolRepository)(nil)

func (m *MockToolRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tool, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NewNotFound("tool", id.String())
}

func (m *MockToolRepository) List(ctx context.Context) ([]*domain.Tool, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockToolRepository) Create(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tool)
	}
	return tool, nil
}

func (m *MockToolRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool, expectedReturnAt *time.Time) error {
	if m.SetAvailabilityFunc != nil {
		return m.SetAvailabilityFunc(ctx, id, available, expectedReturnAt)
	}
	return nil
}

// MockMachineRepository はテスト用のモックMachineRepositoryです
type MockMachineRepository struct {
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Machine, error)
	ListFunc            func(ctx context.Context) ([]*domain.Machine, error)
	CreateFunc          func(ctx context.Context, machine *domain.Machine) (*domain.Machine, error)
	SetAvailabilityFunc func(ctx context.Context, id uuid.UUID, available bool, bookedUntil *time.Time) error
}

var _ domain.MachineRepository = (*MockMachineRepository)(nil)

func (m *MockMachineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Machine, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NewNotFound("machine", id.String())
}

func (m *MockMachineRepository) List(ctx context.Context) ([]*domain.Machine, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockMachineRepository) Create(ctx context.Context, machine *domain.Machine) (*domain.Machine, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, machine)
	}
	return machine, nil
}

func (m *MockMachineRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool, bookedUntil *time.Time) error {
	if m.SetAvailabilityFunc != nil {
		return m.SetAvailabilityFunc(ctx, id, available, bookedUntil)
	}
	return nil
}

// MockWorkStationRepository はテスト用のモックWorkStationRepositoryです
type MockWorkStationRepository struct {
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.WorkStation, error)
	ListFunc            func(ctx context.Context) ([]*domain.WorkStation, error)
	CreateFunc          func(ctx context.Context, station *domain.WorkStation) (*domain.WorkStation, error)
	SetAvailabilityFunc func(ctx context.Context, id uuid.UUID, available bool) error
}

var _ domain.WorkStationRepository = (*MockWorkStationRepository)(nil)

func (m *MockWorkStationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkStation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, apperr.NewNotFound("workstation", id.String())
}

func (m *MockWorkStationRepository) List(ctx context.Context) ([]*domain.WorkStation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockWorkStationRepository) Create(ctx context.Context, station *domain.WorkStation) (*domain.WorkStation, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, station)
	}
	return station, nil
}

func (m *MockWorkStationRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if m.SetAvailabilityFunc != nil {
		return m.SetAvailabilityFunc(ctx, id, available)
	}
	return nil
}
