package testing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jinford/workshop-ops/internal/module/workshop/domain"
)

// TestJob はテスト用のJobを生成します
func TestJob(status domain.JobStatus) *domain.Job {
	now := time.Now().UTC()
	return &domain.Job{
		ID:            uuid.New(),
		JobNumber:     "JOB-20260831-0001",
		CustomerName:  "田中自動車",
		CustomerPhone: "090-0000-0000",
		Title:         "Brake pad replacement",
		Priority:      "normal",
		Status:        status,
		Progress:      domain.ProgressQualityChecked,
		IsActive:      !(status == domain.JobStatusCompleted || status == domain.JobStatusCancelled),
		ProgressHistory: []domain.ProgressEntry{{
			Progress:  domain.ProgressQualityChecked,
			Status:    domain.JobStatusDraft,
			Step:      "quality_check",
			Message:   "Quality check completed",
			Actor:     "system",
			Timestamp: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TestTask はテスト用のTaskを生成します
func TestTask(title string, status domain.TaskStatus) domain.Task {
	now := time.Now().UTC()
	task := domain.Task{
		ID:               uuid.New(),
		Title:            title,
		Status:           status,
		EstimatedMinutes: 60,
		CreatedAt:        now,
	}
	if status == domain.TaskStatusCompleted {
		task.CompletedAt = &now
	}
	return task
}

// TestPart はテスト用のPartを生成します
func TestPart(productID uuid.UUID, name string, quantity int) domain.Part {
	return domain.Part{
		ProductID:        productID,
		Name:             name,
		QuantityRequired: quantity,
		UnitCost:         decimal.NewFromInt(10),
		Available:        true,
	}
}

// TestAssignedTechnician はテスト用のAssignedTechnicianを生成します
func TestAssignedTechnician(technicianID uuid.UUID, name string) domain.AssignedTechnician {
	return domain.AssignedTechnician{
		TechnicianID: technicianID,
		Name:         name,
		Role:         "mechanic",
		AssignedAt:   time.Now().UTC(),
	}
}
