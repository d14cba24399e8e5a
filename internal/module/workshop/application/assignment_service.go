package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	inventorydomain "github.com/jinford/workshop-ops/internal/module/inventory/domain"
	"github.com/jinford/workshop-ops/internal/module/workshop/domain"
	"github.com/jinford/workshop-ops/internal/platform/database"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// AssignmentService はジョブへのリソース割り当てユースケースを提供します
// すべての割り当てはトランザクション内でアドバイザリロックを取得し、
// 可用性の確認と予約を同一トランザクションで行います
type AssignmentService struct {
	txp      database.Transactor
	progress domain.ProgressPolicy
	log      *slog.Logger
}

// NewAssignmentService は新しいAssignmentServiceを作成します
func NewAssignmentService(txp database.Transactor, progress domain.ProgressPolicy, log *slog.Logger) *AssignmentService {
	return &AssignmentService{txp: txp, progress: progress, log: log}
}

// AssignTechnician は技術者をジョブに割り当てます
// scheduledのジョブは最初の割り当てでin_progressへ遷移します
func (s *AssignmentService) AssignTechnician(ctx context.Context, jobID, technicianID uuid.UUID) (*domain.Job, error) {
	var result *domain.Job

	err := s.txp.Transact(ctx, func(a *database.Adapter) error {
		lockID := database.GenerateLockID("technician", technicianID.String())
		if err := a.Locks.Acquire(ctx, lockID); err != nil {
			return fmt.Errorf("failed to acquire technician lock: %w", err)
		}

		job, err := a.Jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job.IsTerminal() {
			return apperr.NewInvalidState("cannot assign to a %s job", job.Status)
		}
		if job.HasTechnician(technicianID) {
			return apperr.NewInvalidState("technician is already assigned to this job")
		}

		technician, err := a.Technicians.GetByID(ctx, technicianID)
		if err != nil {
			return err
		}
		if !technician.Available() {
			return apperr.NewInvalidState("technician %s is not available", technician.Name)
		}

		now := time.Now().UTC()

		if err := a.Technicians.AddJob(ctx, technicianID, jobID); err != nil {
			return fmt.Errorf("failed to add job to technician: %w", err)
		}

		job.Technicians = append(job.Technicians, domain.AssignedTechnician{
			TechnicianID: technicianID,
			Name:         technician.Name,
			Role:         technician.Role,
			AssignedAt:   now,
		})
		markWorkStarted(job, domain.ProgressWorkStarted, fmt.Sprintf("Technician %s assigned", technician.Name), now)
		job.UpdatedAt = now

		result, err = a.Jobs.Update(ctx, job)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("技術者を割り当てました", "jobID", jobID, "technicianID", technicianID)
	return result, nil
}

// RemoveTechnician は技術者の割り当てを解除します
func (s *AssignmentService) RemoveTechnician(ctx context.Context, jobID, technicianID uuid.UUID) (*domain.Job, error) {
	var result *domain.Job

	err := s.txp.Transact(ctx, func(a *database.Adapter) error {
		job, err := a.Jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if !job.HasTechnician(technicianID) {
			return apperr.NewNotFound("technician assignment", technicianID.String())
		}

		if err := a.Technicians.RemoveJob(ctx, technicianID, jobID); err != nil {
			return fmt.Errorf("failed to remove job from technician: %w", err)
		}

		kept := job.Technicians[:0]
		for _, t := range job.Technicians {
			if t.TechnicianID != technicianID {
				kept = append(kept, t)
			}
		}
		job.Technicians = kept
		job.UpdatedAt = time.Now().UTC()

		result, err = a.Jobs.Update(ctx, job)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AssignTool は工具をジョブに予約します
func (s *AssignmentService) AssignTool(ctx context.Context, jobID, toolID uuid.UUID, requiredFrom, requiredUntil *time.Time) (*domain.Job, error) {
	var result *domain.Job

	err := s.txp.Transact(ctx, func(a *database.Adapter) error {
		lockID := database.GenerateLockID("tool", toolID.String())
		if err := a.Locks.Acquire(ctx, lockID); err != nil {
			return fmt.Errorf("failed to acquire tool lock: %w", err)
		}

		job, err := a.Jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job.IsTerminal() {
			return apperr.NewInvalidState("cannot assign to a %s job", job.Status)
		}

		tool, err := a.Tools.GetByID(ctx, toolID)
		if err != nil {
			return err
		}
		if !tool.Available {
			return apperr.NewInvalidState("tool %s is not available", tool.Name)
		}

		now := time.Now().UTC()

		if err := a.Tools.SetAvailability(ctx, toolID, false, requiredUntil); err != nil {
			return fmt.Errorf("failed to reserve tool: %w", err)
		}

		job.Tools = append(job.Tools, domain.ReservedTool{
			ToolID:        toolID,
			Name:          tool.Name,
			RequiredFrom:  requiredFrom,
			RequiredUntil: requiredUntil,
			ReservedAt:    now,
		})
		markWorkStarted(job, domain.ProgressWorkStarted, fmt.Sprintf("Tool %s reserved", tool.Name), now)
		job.UpdatedAt = now

		result, err = a.Jobs.Update(ctx, job)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AssignMachine は機械をジョブに予約します
// 稼働不能（operational=false）の機械は可用フラグに関わらず予約できません
func (s *AssignmentService) AssignMachine(ctx context.Context, jobID, machineID uuid.UUID, requiredFrom, requiredUntil *time.Time) (*domain.Job, error) {
	var result *domain.Job

	err := s.txp.Transact(ctx, func(a *database.Adapter) error {
		lockID := database.GenerateLockID("machine", machineID.String())
		if err := a.Locks.Acquire(ctx, lockID); err != nil {
			return fmt.Errorf("failed to acquire machine lock: %w", err)
		}

		job, err := a.Jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job.IsTerminal() {
			return apperr.NewInvalidState("cannot assign to a %s job", job.Status)
		}

		machine, err := a.Machines.GetByID(ctx, machineID)
		if err != nil {
			return err
		}
		if !machine.Bookable() {
			return apperr.NewInvalidState("machine %s is not bookable", machine.Name)
		}

		now := time.Now().UTC()

		if err := a.Machines.SetAvailability(ctx, machineID, false, requiredUntil); err != nil {
			return fmt.Errorf("failed to reserve machine: %w", err)
		}

		job.Machines = append(job.Machines, domain.ReservedMachine{
			MachineID:     machineID,
			Name:          machine.Name,
			RequiredFrom:  requiredFrom,
			RequiredUntil: requiredUntil,
			ReservedAt:    now,
		})
		markWorkStarted(job, domain.ProgressWorkStarted, fmt.Sprintf("Machine %s reserved", machine.Name), now)
		job.UpdatedAt = now

		result, err = a.Jobs.Update(ctx, job)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AssignWorkStation は作業場所をジョブに予約します
func (s *AssignmentService) AssignWorkStation(ctx context.Context, jobID, stationID uuid.UUID) (*domain.Job, error) {
	var result *domain.Job

	err := s.txp.Transact(ctx, func(a *database.Adapter) error {
		lockID := database.GenerateLockID("workstation", stationID.String())
		if err := a.Locks.Acquire(ctx, lockID); err != nil {
			return fmt.Errorf("failed to acquire workstation lock: %w", err)
		}

		job, err := a.Jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job.IsTerminal() {
			return apperr.NewInvalidState("cannot assign to a %s job", job.Status)
		}

		station, err := a.WorkStations.GetByID(ctx, stationID)
		if err != nil {
			return err
		}
		if !station.Available {
			return apperr.NewInvalidState("workstation %s is not available", station.Name)
		}

		now := time.Now().UTC()

		if err := a.WorkStations.SetAvailability(ctx, stationID, false); err != nil {
			return fmt.Errorf("failed to reserve workstation: %w", err)
		}

		job.WorkStations = append(job.WorkStations, domain.ReservedWorkStation{
			WorkStationID: stationID,
			Name:          station.Name,
			ReservedAt:    now,
		})
		markWorkStarted(job, domain.ProgressWorkStarted, fmt.Sprintf("Workstation %s reserved", station.Name), now)
		job.UpdatedAt = now

		result, err = a.Jobs.Update(ctx, job)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AssignPart はジョブに部品を追加します
// 在庫の充足のみ確認し、引き落としは完了時まで行いません。
// 既に同じ商品があれば必要数量を加算します
func (s *AssignmentService) AssignPart(ctx context.Context, jobID, productID uuid.UUID, quantity int) (*domain.Job, error) {
	if quantity <= 0 {
		return nil, apperr.NewValidation("quantity must be positive")
	}

	var result *domain.Job

	err := s.txp.Transact(ctx, func(a *database.Adapter) error {
		job, err := a.Jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job.IsTerminal() {
			return apperr.NewInvalidState("cannot assign to a %s job", job.Status)
		}

		product, err := a.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}

		required := quantity
		if existing := job.FindPart(productID); existing != nil {
			required += existing.QuantityRequired
		}
		if product.CurrentStock < required {
			return &inventorydomain.InsufficientStockError{Shortages: []inventorydomain.Shortage{{
				ProductID: product.ID,
				Name:      product.Name,
				Available: product.CurrentStock,
				Required:  required,
			}}}
		}

		now := time.Now().UTC()

		if existing := job.FindPart(productID); existing != nil {
			existing.QuantityRequired += quantity
		} else {
			job.Parts = append(job.Parts, domain.Part{
				ProductID:        product.ID,
				Name:             product.Name,
				QuantityRequired: quantity,
				UnitCost:         product.UnitCost,
				Available:        true,
			})
		}
		job.UpdatedAt = now

		result, err = a.Jobs.Update(ctx, job)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// BulkPartInput は一括割り当てに含める部品の入力です
type BulkPartInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// BulkAssignInput は一括割り当ての入力です
type BulkAssignInput struct {
	TechnicianIDs  []uuid.UUID
	ToolIDs        []uuid.UUID
	MachineIDs     []uuid.UUID
	WorkStationIDs []uuid.UUID
	Parts          []BulkPartInput
}

// BulkAssignResult は一括割り当ての結果です
// 一部の割り当てに失敗しても成功分はコミットされ、失敗はErrorsに記録されます
type BulkAssignResult struct {
	Job    *domain.Job
	Errors []string
}

// BulkAssign は複数のリソースを1トランザクションでまとめて割り当てます
// 個々の失敗は収集して続行し、1件でも成功すれば進捗を30へ引き上げます
func (s *AssignmentService) BulkAssign(ctx context.Context, jobID uuid.UUID, input BulkAssignInput) (*BulkAssignResult, error) {
	result := &BulkAssignResult{}

	err := s.txp.Transact(ctx, func(a *database.Adapter) error {
		job, err := a.Jobs.GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if job.IsTerminal() {
			return apperr.NewInvalidState("cannot assign to a %s job", job.Status)
		}

		now := time.Now().UTC()
		assigned := 0

		for _, id := range input.TechnicianIDs {
			if err := bulkAssignTechnician(ctx, a, job, id, now); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("technician %s: %v", id, err))
				continue
			}
			assigned++
		}
		for _, id := range input.ToolIDs {
			if err := bulkAssignTool(ctx, a, job, id, now); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("tool %s: %v", id, err))
				continue
			}
			assigned++
		}
		for _, id := range input.MachineIDs {
			if err := bulkAssignMachine(ctx, a, job, id, now); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("machine %s: %v", id, err))
				continue
			}
			assigned++
		}
		for _, id := range input.WorkStationIDs {
			if err := bulkAssignWorkStation(ctx, a, job, id, now); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("workstation %s: %v", id, err))
				continue
			}
			assigned++
		}
		for _, p := range input.Parts {
			if err := bulkAssignPart(ctx, a, job, p); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("part %s: %v", p.ProductID, err))
				continue
			}
			assigned++
		}

		if assigned > 0 {
			markWorkStarted(job, domain.ProgressResourcesAssigned, "Resources assigned in bulk", now)
		}
		job.UpdatedAt = now

		result.Job, err = a.Jobs.Update(ctx, job)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("リソースを一括割り当てしました",
		"jobID", jobID,
		"failed", len(result.Errors),
	)
	return result, nil
}

func bulkAssignTechnician(ctx context.Context, a *database.Adapter, job *domain.Job, technicianID uuid.UUID, now time.Time) error {
	if job.HasTechnician(technicianID) {
		return fmt.Errorf("already assigned")
	}

	lockID := database.GenerateLockID("technician", technicianID.String())
	if err := a.Locks.Acquire(ctx, lockID); err != nil {
		return err
	}

	technician, err := a.Technicians.GetByID(ctx, technicianID)
	if err != nil {
		return err
	}
	if !technician.Available() {
		return fmt.Errorf("not available")
	}
	if err := a.Technicians.AddJob(ctx, technicianID, job.ID); err != nil {
		return err
	}

	job.Technicians = append(job.Technicians, domain.AssignedTechnician{
		TechnicianID: technicianID,
		Name:         technician.Name,
		Role:         technician.Role,
		AssignedAt:   now,
	})
	return nil
}

func bulkAssignTool(ctx context.Context, a *database.Adapter, job *domain.Job, toolID uuid.UUID, now time.Time) error {
	lockID := database.GenerateLockID("tool", toolID.String())
	if err := a.Locks.Acquire(ctx, lockID); err != nil {
		return err
	}

	tool, err := a.Tools.GetByID(ctx, toolID)
	if err != nil {
		return err
	}
	if !tool.Available {
		return fmt.Errorf("not available")
	}
	if err := a.Tools.SetAvailability(ctx, toolID, false, nil); err != nil {
		return err
	}

	job.Tools = append(job.Tools, domain.ReservedTool{
		ToolID:     toolID,
		Name:       tool.Name,
		ReservedAt: now,
	})
	return nil
}

func bulkAssignMachine(ctx context.Context, a *database.Adapter, job *domain.Job, machineID uuid.UUID, now time.Time) error {
	lockID := database.GenerateLockID("machine", machineID.String())
	if err := a.Locks.Acquire(ctx, lockID); err != nil {
		return err
	}

	machine, err := a.Machines.GetByID(ctx, machineID)
	if err != nil {
		return err
	}
	if !machine.Bookable() {
		return fmt.Errorf("not bookable")
	}
	if err := a.Machines.SetAvailability(ctx, machineID, false, nil); err != nil {
		return err
	}

	job.Machines = append(job.Machines, domain.ReservedMachine{
		MachineID:  machineID,
		Name:       machine.Name,
		ReservedAt: now,
	})
	return nil
}

func bulkAssignWorkStation(ctx context.Context, a *database.Adapter, job *domain.Job, stationID uuid.UUID, now time.Time) error {
	lockID := database.GenerateLockID("workstation", stationID.String())
	if err := a.Locks.Acquire(ctx, lockID); err != nil {
		return err
	}

	station, err := a.WorkStations.GetByID(ctx, stationID)
	if err != nil {
		return err
	}
	if !station.Available {
		return fmt.Errorf("not available")
	}
	if err := a.WorkStations.SetAvailability(ctx, stationID, false); err != nil {
		return err
	}

	job.WorkStations = append(job.WorkStations, domain.ReservedWorkStation{
		WorkStationID: stationID,
		Name:          station.Name,
		ReservedAt:    now,
	})
	return nil
}

func bulkAssignPart(ctx context.Context, a *database.Adapter, job *domain.Job, p BulkPartInput) error {
	if p.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	product, err := a.Products.GetByID(ctx, p.ProductID)
	if err != nil {
		return err
	}

	required := p.Quantity
	if existing := job.FindPart(p.ProductID); existing != nil {
		required += existing.QuantityRequired
	}
	if product.CurrentStock < required {
		return fmt.Errorf("insufficient stock: available %d, required %d", product.CurrentStock, required)
	}

	if existing := job.FindPart(p.ProductID); existing != nil {
		existing.QuantityRequired += p.Quantity
		return nil
	}
	job.Parts = append(job.Parts, domain.Part{
		ProductID:        product.ID,
		Name:             product.Name,
		QuantityRequired: p.Quantity,
		UnitCost:         product.UnitCost,
		Available:        true,
	})
	return nil
}

// markWorkStarted はリソース割り当てに伴う状態遷移と進捗ジャンプを適用します
// scheduledのジョブはin_progressへ遷移し、進捗は下がりません
func markWorkStarted(job *domain.Job, floor int, message string, now time.Time) {
	if job.Status == domain.JobStatusScheduled {
		job.Status = domain.JobStatusInProgress
	}
	progress := job.Progress
	if floor > progress {
		progress = floor
	}
	job.AppendProgress(progress, "resource_assigned", message, "system", now)
}
