package testing

import (
	"time"

	"github.com/google/uuid"

	"github.com/jinford/workshop-ops/internal/module/resource/domain"
)

// TestTechnician はテスト用のTechnicianを生成します
func TestTechnician(name string, maxJobs int) *domain.Technician {
	now := time.Now().UTC()
	return &domain.Technician{
		ID:                uuid.New(),
		Name:              name,
		Role:              "mechanic",
		MaxConcurrentJobs: maxJobs,
		CurrentJobs:       []uuid.UUID{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// TestTool はテスト用のToolを生成します
func TestTool(name string, available bool) *domain.Tool {
	now := time.Now().UTC()
	return &domain.Tool{
		ID:        uuid.New(),
		Name:      name,
		Category:  "hand",
		Available: available,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TestMachine はテスト用のMachineを生成します
func TestMachine(name string, operational, available bool) *domain.Machine {
	now := time.Now().UTC()
	return &domain.Machine{
		ID:          uuid.New(),
		Name:        name,
		Model:       "M-100",
		Operational: operational,
		Available:   available,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TestWorkStation はテスト用のWorkStationを生成します
func TestWorkStation(name string, available bool) *domain.WorkStation {
	now := time.Now().UTC()
	return &domain.WorkStation{
		ID:        uuid.New(),
		Name:      name,
		Available: available,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
