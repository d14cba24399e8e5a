package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jinford/workshop-ops/internal/module/workshop/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// DBTX はプールとトランザクションの両方を受け付けるクエリ実行インターフェースです
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// JobRepository はジョブ集約の永続化アダプターです
// タスク・部品・リソース・進捗履歴・完了詳細はJSONBドキュメントとして
// 1行にまとめて保持し、集約の保存を単一行の原子的更新にしています
type JobRepository struct {
	db DBTX
}

// NewJobRepository は新しいジョブリポジトリを作成します
func NewJobRepository(db DBTX) *JobRepository {
	return &JobRepository{db: db}
}

var _ domain.JobRepository = (*JobRepository)(nil)

const jobColumns = `id, job_number, customer_id, customer_name, customer_phone, title, description, priority, status, progress, scheduled_start, scheduled_end, tasks, parts, technicians, tools, machines, workstations, progress_history, completion, is_active, created_at, updated_at`

type jobDocuments struct {
	tasks           []byte
	parts           []byte
	technicians     []byte
	tools           []byte
	machines        []byte
	workstations    []byte
	progressHistory []byte
	completion      []byte
}

func marshalJobDocuments(job *domain.Job) (*jobDocuments, error) {
	docs := &jobDocuments{}
	var err error

	if docs.tasks, err = json.Marshal(orEmpty(job.Tasks)); err != nil {
		return nil, fmt.Errorf("failed to marshal tasks: %w", err)
	}
	if docs.parts, err = json.Marshal(orEmpty(job.Parts)); err != nil {
		return nil, fmt.Errorf("failed to marshal parts: %w", err)
	}
	if docs.technicians, err = json.Marshal(orEmpty(job.Technicians)); err != nil {
		return nil, fmt.Errorf("failed to marshal technicians: %w", err)
	}
	if docs.tools, err = json.Marshal(orEmpty(job.Tools)); err != nil {
		return nil, fmt.Errorf("failed to marshal tools: %w", err)
	}
	if docs.machines, err = json.Marshal(orEmpty(job.Machines)); err != nil {
		return nil, fmt.Errorf("failed to marshal machines: %w", err)
	}
	if docs.workstations, err = json.Marshal(orEmpty(job.WorkStations)); err != nil {
		return nil, fmt.Errorf("failed to marshal workstations: %w", err)
	}
	if docs.progressHistory, err = json.Marshal(orEmpty(job.ProgressHistory)); err != nil {
		return nil, fmt.Errorf("failed to marshal progress history: %w", err)
	}
	if job.Completion != nil {
		if docs.completion, err = json.Marshal(job.Completion); err != nil {
			return nil, fmt.Errorf("failed to marshal completion: %w", err)
		}
	}

	return docs, nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	var docs jobDocuments
	err := row.Scan(
		&j.ID, &j.JobNumber, &j.CustomerID, &j.CustomerName, &j.CustomerPhone,
		&j.Title, &j.Description, &j.Priority, &j.Status, &j.Progress,
		&j.ScheduledStart, &j.ScheduledEnd,
		&docs.tasks, &docs.parts, &docs.technicians, &docs.tools, &docs.machines,
		&docs.workstations, &docs.progressHistory, &docs.completion,
		&j.IsActive, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(docs.tasks, &j.Tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
	}
	if err := json.Unmarshal(docs.parts, &j.Parts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal parts: %w", err)
	}
	if err := json.Unmarshal(docs.technicians, &j.Technicians); err != nil {
		return nil, fmt.Errorf("failed to unmarshal technicians: %w", err)
	}
	if err := json.Unmarshal(docs.tools, &j.Tools); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tools: %w", err)
	}
	if err := json.Unmarshal(docs.machines, &j.Machines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal machines: %w", err)
	}
	if err := json.Unmarshal(docs.workstations, &j.WorkStations); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workstations: %w", err)
	}
	if err := json.Unmarshal(docs.progressHistory, &j.ProgressHistory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal progress history: %w", err)
	}
	if docs.completion != nil {
		var completion domain.Completion
		if err := json.Unmarshal(docs.completion, &completion); err != nil {
			return nil, fmt.Errorf("failed to unmarshal completion: %w", err)
		}
		j.Completion = &completion
	}

	return &j, nil
}

// GetByID はIDでジョブを取得します
func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("job", id.String())
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// List はフィルターに一致するジョブと総件数を取得します
func (r *JobRepository) List(ctx context.Context, filter domain.JobFilter) ([]*domain.Job, int, error) {
	where := ` WHERE TRUE`
	args := []any{}

	nextArg := func(value any) string {
		args = append(args, value)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Search != "" {
		p := nextArg(filter.Search)
		where += ` AND (title ILIKE '%' || ` + p + ` || '%' OR job_number ILIKE '%' || ` + p + ` || '%' OR customer_name ILIKE '%' || ` + p + ` || '%')`
	}
	if filter.Status != nil {
		where += ` AND status = ` + nextArg(string(*filter.Status))
	}
	if filter.Priority != "" {
		where += ` AND priority = ` + nextArg(filter.Priority)
	}
	if filter.CustomerID != nil {
		where += ` AND customer_id = ` + nextArg(*filter.CustomerID)
	}
	if filter.CustomerPhone != "" {
		where += ` AND customer_phone = ` + nextArg(filter.CustomerPhone)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `SELECT ` + jobColumns + ` FROM jobs` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*domain.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, total, nil
}

// Create はジョブを作成します
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	docs, err := marshalJobDocuments(job)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO jobs (id, job_number, customer_id, customer_name, customer_phone, title, description, priority, status, progress, scheduled_start, scheduled_end, tasks, parts, technicians, tools, machines, workstations, progress_history, completion, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING `+jobColumns,
		job.ID, job.JobNumber, job.CustomerID, job.CustomerName, job.CustomerPhone,
		job.Title, job.Description, job.Priority, string(job.Status), job.Progress,
		job.ScheduledStart, job.ScheduledEnd,
		docs.tasks, docs.parts, docs.technicians, docs.tools, docs.machines,
		docs.workstations, docs.progressHistory, docs.completion,
		job.IsActive, job.CreatedAt, job.UpdatedAt,
	)
	created, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return created, nil
}

// Update は集約全体を1行として保存します
func (r *JobRepository) Update(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	docs, err := marshalJobDocuments(job)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `
		UPDATE jobs SET
			customer_id = $2, customer_name = $3, customer_phone = $4,
			title = $5, description = $6, priority = $7, status = $8, progress = $9,
			scheduled_start = $10, scheduled_end = $11,
			tasks = $12, parts = $13, technicians = $14, tools = $15, machines = $16,
			workstations = $17, progress_history = $18, completion = $19,
			is_active = $20, updated_at = now()
		WHERE id = $1
		RETURNING `+jobColumns,
		job.ID, job.CustomerID, job.CustomerName, job.CustomerPhone,
		job.Title, job.Description, job.Priority, string(job.Status), job.Progress,
		job.ScheduledStart, job.ScheduledEnd,
		docs.tasks, docs.parts, docs.technicians, docs.tools, docs.machines,
		docs.workstations, docs.progressHistory, docs.completion,
		job.IsActive,
	)
	updated, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("job", job.ID.String())
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return updated, nil
}

// Delete はジョブを削除します
func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("job", id.String())
	}
	return nil
}
