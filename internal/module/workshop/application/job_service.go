package application

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	inventorydomain "github.com/jinford/workshop-ops/internal/module/inventory/domain"
	"github.com/jinford/workshop-ops/internal/module/workshop/domain"
	"github.com/jinford/workshop-ops/internal/platform/database"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// JobService はジョブライフサイクルの基本ユースケースを提供します
// （作成・取得・一覧・汎用更新・スケジュール・タスク更新・分析）
type JobService struct {
	jobs     domain.JobRepository
	resolver CustomerResolver
	stock    StockChecker
	catalog  ProductCatalog
	txp      database.Transactor
	progress domain.ProgressPolicy
	log      *slog.Logger
}

// NewJobService は新しいJobServiceを作成します
func NewJobService(
	jobs domain.JobRepository,
	resolver CustomerResolver,
	stock StockChecker,
	catalog ProductCatalog,
	txp database.Transactor,
	progress domain.ProgressPolicy,
	log *slog.Logger,
) *JobService {
	return &JobService{
		jobs:     jobs,
		resolver: resolver,
		stock:    stock,
		catalog:  catalog,
		txp:      txp,
		progress: progress,
		log:      log,
	}
}

// PartInput は部品リクエストの入力です
type PartInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// TaskInput はタスクの入力です
type TaskInput struct {
	Title            string
	Description      string
	AssigneeID       *uuid.UUID
	Status           domain.TaskStatus
	EstimatedMinutes int
}

// CreateJobInput はジョブ作成の入力です
type CreateJobInput struct {
	CustomerID    *uuid.UUID
	CustomerPhone string
	CustomerName  string
	Title         string
	Description   string
	Priority      string
	Parts         []PartInput
	Tasks         []TaskInput
	Actor         string
}

// CreateJob はジョブを作成します
// 部品の在庫を事前確認し、1つでも不足があれば作成全体を拒否します。
// この時点で在庫は変化しません（引き落としは完了時のみ）
func (s *JobService) CreateJob(ctx context.Context, input CreateJobInput) (*domain.Job, error) {
	if input.Title == "" {
		return nil, apperr.NewValidation("job title is required")
	}

	ref, err := s.resolver.Resolve(ctx, input.CustomerID, input.CustomerPhone, input.CustomerName)
	if err != nil {
		return nil, err
	}

	requests := make([]inventorydomain.PartRequest, 0, len(input.Parts))
	for _, p := range input.Parts {
		requests = append(requests, inventorydomain.PartRequest{ProductID: p.ProductID, Quantity: p.Quantity})
	}

	shortages, err := s.stock.CheckAvailability(ctx, requests)
	if err != nil {
		return nil, err
	}
	if len(shortages) > 0 {
		return nil, &inventorydomain.InsufficientStockError{Shortages: shortages}
	}

	now := time.Now().UTC()

	parts := make([]domain.Part, 0, len(input.Parts))
	for _, p := range input.Parts {
		product, err := s.catalog.GetByID(ctx, p.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to snapshot part: %w", err)
		}
		parts = append(parts, domain.Part{
			ProductID:        product.ID,
			Name:             product.Name,
			QuantityRequired: p.Quantity,
			UnitCost:         product.UnitCost,
			Available:        true,
		})
	}

	tasks := make([]domain.Task, 0, len(input.Tasks))
	for _, t := range input.Tasks {
		status := t.Status
		if status == "" {
			status = domain.TaskStatusTodo
		}
		tasks = append(tasks, domain.Task{
			ID:               uuid.New(),
			Title:            t.Title,
			Description:      t.Description,
			AssigneeID:       t.AssigneeID,
			Status:           status,
			EstimatedMinutes: t.EstimatedMinutes,
			CreatedAt:        now,
		})
	}

	priority := input.Priority
	if priority == "" {
		priority = "normal"
	}

	job := &domain.Job{
		ID:            uuid.New(),
		JobNumber:     generateJobNumber(now),
		CustomerID:    ref.ID,
		CustomerName:  ref.Name,
		CustomerPhone: ref.Phone,
		Title:         input.Title,
		Description:   input.Description,
		Priority:      priority,
		Status:        domain.JobStatusDraft,
		Tasks:         tasks,
		Parts:         parts,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	job.AppendProgress(domain.ProgressQualityChecked, "quality_check", "Quality check completed", actorOrSystem(input.Actor), now)

	created, err := s.jobs.Create(ctx, job)
	if err != nil {
		s.log.Error("Failed to create job", "jobNumber", job.JobNumber, "error", err)
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.log.Info("ジョブを作成しました", "jobID", created.ID, "jobNumber", created.JobNumber)

	return created, nil
}

// GetJob はジョブを取得します
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	if id == uuid.Nil {
		return nil, apperr.NewValidation("job ID is required")
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return job, nil
}

// ListJobs はジョブ一覧と総件数を取得します
func (s *JobService) ListJobs(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, int, error) {
	if filter.Status != nil && !domain.ValidJobStatus(*filter.Status) {
		return nil, 0, apperr.NewValidation("invalid status: %s", *filter.Status)
	}

	jobs, total, err := s.jobs.List(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list jobs", "error", err)
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, total, nil
}

// UpdateJobInput はジョブの汎用更新入力です。nilのフィールドは変更しません
type UpdateJobInput struct {
	Title       *string
	Description *string
	Priority    *string
	Status      *domain.JobStatus
	Tasks       []TaskInput // 指定時はタスク一覧を置き換え、進捗を再計算
	Actor       string
}

// UpdateJob はジョブを更新します
// タスク一覧が変わった場合は進捗ポリシーで進捗を再計算します
func (s *JobService) UpdateJob(ctx context.Context, id uuid.UUID, input UpdateJobInput) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job.IsTerminal() {
		return nil, apperr.NewInvalidState("cannot update a %s job", job.Status)
	}

	now := time.Now().UTC()

	if input.Title != nil {
		job.Title = *input.Title
	}
	if input.Description != nil {
		job.Description = *input.Description
	}
	if input.Priority != nil {
		job.Priority = *input.Priority
	}
	if input.Status != nil {
		if !domain.ValidJobStatus(*input.Status) {
			return nil, apperr.NewValidation("invalid status: %s", *input.Status)
		}
		if *input.Status == domain.JobStatusCompleted {
			return nil, apperr.NewInvalidState("completion must go through the completion operation")
		}
		job.Status = *input.Status
	}

	if input.Tasks != nil {
		tasks := make([]domain.Task, 0, len(input.Tasks))
		for _, t := range input.Tasks {
			status := t.Status
			if status == "" {
				status = domain.TaskStatusTodo
			}
			task := domain.Task{
				ID:               uuid.New(),
				Title:            t.Title,
				Description:      t.Description,
				AssigneeID:       t.AssigneeID,
				Status:           status,
				EstimatedMinutes: t.EstimatedMinutes,
				CreatedAt:        now,
			}
			if status == domain.TaskStatusCompleted {
				completedAt := now
				task.CompletedAt = &completedAt
			}
			tasks = append(tasks, task)
		}
		job.Tasks = tasks

		newProgress := s.progress.Recompute(job.Tasks, job.Progress)
		if newProgress != job.Progress {
			job.AppendProgress(newProgress, "tasks_updated", "Progress recomputed from task list", actorOrSystem(input.Actor), now)
		}
	}

	job.UpdatedAt = now

	updated, err := s.jobs.Update(ctx, job)
	if err != nil {
		s.log.Error("Failed to update job", "jobID", id, "error", err)
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	return updated, nil
}

// ScheduleJob は作業ウィンドウを設定し、scheduledへ遷移します
// 作成時と同じ不足一覧ロジックで在庫を再検証します（作成後に在庫が変わっている可能性があるため）
func (s *JobService) ScheduleJob(ctx context.Context, id uuid.UUID, start, end time.Time, actor string) (*domain.Job, error) {
	if end.Before(start) {
		return nil, apperr.NewValidation("schedule end must not be before start")
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job.IsTerminal() {
		return nil, apperr.NewInvalidState("cannot schedule a %s job", job.Status)
	}

	requests := make([]inventorydomain.PartRequest, 0, len(job.Parts))
	for _, p := range job.Parts {
		requests = append(requests, inventorydomain.PartRequest{ProductID: p.ProductID, Quantity: p.QuantityRequired})
	}
	shortages, err := s.stock.CheckAvailability(ctx, requests)
	if err != nil {
		return nil, err
	}
	if len(shortages) > 0 {
		return nil, &inventorydomain.InsufficientStockError{Shortages: shortages}
	}

	now := time.Now().UTC()
	job.ScheduledStart = &start
	job.ScheduledEnd = &end
	job.Status = domain.JobStatusScheduled
	job.AppendProgress(job.Progress, "scheduled", "Job scheduled", actorOrSystem(actor), now)
	job.UpdatedAt = now

	updated, err := s.jobs.Update(ctx, job)
	if err != nil {
		s.log.Error("Failed to schedule job", "jobID", id, "error", err)
		return nil, fmt.Errorf("failed to schedule job: %w", err)
	}

	return updated, nil
}

// UpdateTaskInput はタスク更新の入力です
type UpdateTaskInput struct {
	Status        *domain.TaskStatus
	ActualMinutes *int
	Actor         string
}

// UpdateTask はタスクの状態を更新します
// completedへの更新は完了時刻を刻印し、進捗ポリシーでジョブ進捗を再計算します
func (s *JobService) UpdateTask(ctx context.Context, jobID, taskID uuid.UUID, input UpdateTaskInput) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if job.IsTerminal() {
		return nil, apperr.NewInvalidState("cannot update tasks of a %s job", job.Status)
	}

	task := job.FindTask(taskID)
	if task == nil {
		return nil, apperr.NewNotFound("task", taskID.String())
	}

	now := time.Now().UTC()

	if input.Status != nil {
		task.Status = *input.Status
		if *input.Status == domain.TaskStatusCompleted && task.CompletedAt == nil {
			completedAt := now
			task.CompletedAt = &completedAt
		}
	}
	if input.ActualMinutes != nil {
		task.ActualMinutes = input.ActualMinutes
	}

	newProgress := s.progress.Recompute(job.Tasks, job.Progress)
	if newProgress != job.Progress {
		job.AppendProgress(newProgress, "task_progress", fmt.Sprintf("Task %q updated", task.Title), actorOrSystem(input.Actor), now)
	}
	job.UpdatedAt = now

	updated, err := s.jobs.Update(ctx, job)
	if err != nil {
		s.log.Error("Failed to update task", "jobID", jobID, "taskID", taskID, "error", err)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return updated, nil
}

// DeleteJob はジョブを完全に削除します
// in_progress / completed のジョブは削除できません。
// 割り当て済みの技術者・工具・機械・作業場所は削除前にすべて解放します
func (s *JobService) DeleteJob(ctx context.Context, id uuid.UUID) error {
	err := s.txp.Transact(ctx, func(a *database.Adapter) error {
		job, err := a.Jobs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if job.Status == domain.JobStatusInProgress || job.Status == domain.JobStatusCompleted {
			return apperr.NewInvalidState("cannot delete a %s job", job.Status)
		}

		// キャンセル済みジョブはキャンセル時点で解放済みのため再解放しません。
		// 残った割り当てリストから再度解放すると、別ジョブが確保済みの
		// 工具・機械を利用可能に戻してしまいます
		if !job.IsTerminal() {
			if err := releaseAllResources(ctx, a, job); err != nil {
				return err
			}
		}

		return a.Jobs.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info("ジョブを削除しました", "jobID", id)
	return nil
}

// GetAnalytics はジョブの派生メトリクスを取得します
func (s *JobService) GetAnalytics(ctx context.Context, id uuid.UUID) (*domain.JobAnalytics, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return domain.ComputeAnalytics(job, time.Now().UTC()), nil
}

func generateJobNumber(now time.Time) string {
	return fmt.Sprintf("JOB-%s-%04d", now.Format("20060102"), rand.Intn(10000))
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return "system"
	}
	return actor
}
