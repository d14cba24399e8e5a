package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jinford/workshop-ops/internal/module/resource/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// PoolService はリソースプール（技術者・工具・機械・作業場所）の管理ユースケースを提供します
// 予約と解放はジョブライフサイクル側がトランザクション内で行うため、
// ここでは登録と参照のみを扱います
type PoolService struct {
	technicians  domain.TechnicianRepository
	tools        domain.ToolRepository
	machines     domain.MachineRepository
	workstations domain.WorkStationRepository
	log          *slog.Logger
}

// NewPoolService は新しいPoolServiceを作成します
func NewPoolService(
	technicians domain.TechnicianRepository,
	tools domain.ToolRepository,
	machines domain.MachineRepository,
	workstations domain.WorkStationRepository,
	log *slog.Logger,
) *PoolService {
	return &PoolService{
		technicians:  technicians,
		tools:        tools,
		machines:     machines,
		workstations: workstations,
		log:          log,
	}
}

// CreateTechnicianInput は技術者登録の入力です
type CreateTechnicianInput struct {
	Name              string
	Role              string
	Phone             *string
	MaxConcurrentJobs int
}

// CreateTechnician は技術者を登録します
func (s *PoolService) CreateTechnician(ctx context.Context, input CreateTechnicianInput) (*domain.Technician, error) {
	if input.Name == "" {
		return nil, apperr.NewValidation("technician name is required")
	}
	if input.MaxConcurrentJobs <= 0 {
		input.MaxConcurrentJobs = 1
	}

	now := time.Now().UTC()
	technician := &domain.Technician{
		ID:                uuid.New(),
		Name:              input.Name,
		Role:              input.Role,
		Phone:             input.Phone,
		MaxConcurrentJobs: input.MaxConcurrentJobs,
		CurrentJobs:       []uuid.UUID{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	created, err := s.technicians.Create(ctx, technician)
	if err != nil {
		s.log.Error("Failed to create technician", "name", input.Name, "error", err)
		return nil, fmt.Errorf("failed to create technician: %w", err)
	}
	return created, nil
}

// GetTechnician は技術者を取得します
func (s *PoolService) GetTechnician(ctx context.Context, id uuid.UUID) (*domain.Technician, error) {
	technician, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return technician, nil
}

// ListTechnicians は技術者一覧を取得します
func (s *PoolService) ListTechnicians(ctx context.Context) ([]*domain.Technician, error) {
	technicians, err := s.technicians.List(ctx)
	if err != nil {
		s.log.Error("Failed to list technicians", "error", err)
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	return technicians, nil
}

// CreateTool は工具を登録します
func (s *PoolService) CreateTool(ctx context.Context, name, category string) (*domain.Tool, error) {
	if name == "" {
		return nil, apperr.NewValidation("tool name is required")
	}

	now := time.Now().UTC()
	tool := &domain.Tool{
		ID:        uuid.New(),
		Name:      name,
		Category:  category,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.tools.Create(ctx, tool)
	if err != nil {
		s.log.Error("Failed to create tool", "name", name, "error", err)
		return nil, fmt.Errorf("failed to create tool: %w", err)
	}
	return created, nil
}

// ListTools は工具一覧を取得します
func (s *PoolService) ListTools(ctx context.Context) ([]*domain.Tool, error) {
	tools, err := s.tools.List(ctx)
	if err != nil {
		s.log.Error("Failed to list tools", "error", err)
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return tools, nil
}

// CreateMachine は機械を登録します
func (s *PoolService) CreateMachine(ctx context.Context, name, model string) (*domain.Machine, error) {
	if name == "" {
		return nil, apperr.NewValidation("machine name is required")
	}

	now := time.Now().UTC()
	machine := &domain.Machine{
		ID:          uuid.New(),
		Name:        name,
		Model:       model,
		Operational: true,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.machines.Create(ctx, machine)
	if err != nil {
		s.log.Error("Failed to create machine", "name", name, "error", err)
		return nil, fmt.Errorf("failed to create machine: %w", err)
	}
	return created, nil
}

// ListMachines は機械一覧を取得します
func (s *PoolService) ListMachines(ctx context.Context) ([]*domain.Machine, error) {
	machines, err := s.machines.List(ctx)
	if err != nil {
		s.log.Error("Failed to list machines", "error", err)
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	return machines, nil
}

// CreateWorkStation は作業場所を登録します
func (s *PoolService) CreateWorkStation(ctx context.Context, name string) (*domain.WorkStation, error) {
	if name == "" {
		return nil, apperr.NewValidation("workstation name is required")
	}

	now := time.Now().UTC()
	station := &domain.WorkStation{
		ID:        uuid.New(),
		Name:      name,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.workstations.Create(ctx, station)
	if err != nil {
		s.log.Error("Failed to create workstation", "name", name, "error", err)
		return nil, fmt.Errorf("failed to create workstation: %w", err)
	}
	return created, nil
}

// ListWorkStations は作業場所一覧を取得します
func (s *PoolService) ListWorkStations(ctx context.Context) ([]*domain.WorkStation, error) {
	stations, err := s.workstations.List(ctx)
	if err != nil {
		s.log.Error("Failed to list workstations", "error", err)
		return nil, fmt.Errorf("failed to list workstations: %w", err)
	}
	return stations, nil
}
