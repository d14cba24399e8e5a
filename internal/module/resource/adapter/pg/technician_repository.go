package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jinford/workshop-ops/internal/module/resource/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// TechnicianRepository は技術者プールの永続化アダプターです
type TechnicianRepository struct {
	db DBTX
}

// NewTechnicianRepository は新しい技術者リポジトリを作成します
func NewTechnicianRepository(db DBTX) *TechnicianRepository {
	return &TechnicianRepository{db: db}
}

var _ domain.TechnicianRepository = (*TechnicianRepository)(nil)

const technicianColumns = `id, name, role, phone, max_concurrent_jobs, on_leave, current_jobs, created_at, updated_at`

func scanTechnician(row pgx.Row) (*domain.Technician, error) {
	var t domain.Technician
	var currentJobs []byte
	err := row.Scan(
		&t.ID, &t.Name, &t.Role, &t.Phone, &t.MaxConcurrentJobs, &t.OnLeave,
		&currentJobs, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(currentJobs, &t.CurrentJobs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal current jobs: %w", err)
	}
	return &t, nil
}

// GetByID はIDで技術者を取得します
func (r *TechnicianRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Technician, error) {
	row := r.db.QueryRow(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE id = $1`, id)
	technician, err := scanTechnician(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("technician", id.String())
		}
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return technician, nil
}

// List は技術者一覧を取得します
func (r *TechnicianRepository) List(ctx context.Context) ([]*domain.Technician, error) {
	rows, err := r.db.Query(ctx, `SELECT `+technicianColumns+` FROM technicians ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	technicians := make([]*domain.Technician, 0)
	for rows.Next() {
		technician, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		technicians = append(technicians, technician)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate technicians: %w", err)
	}

	return technicians, nil
}

// Create は技術者を作成します
func (r *TechnicianRepository) Create(ctx context.Context, technician *domain.Technician) (*domain.Technician, error) {
	if technician.CurrentJobs == nil {
		technician.CurrentJobs = []uuid.UUID{}
	}
	currentJobs, err := json.Marshal(technician.CurrentJobs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal current jobs: %w", err)
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO technicians (id, name, role, phone, max_concurrent_jobs, on_leave, current_jobs, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+technicianColumns,
		technician.ID, technician.Name, technician.Role, technician.Phone,
		technician.MaxConcurrentJobs, technician.OnLeave, currentJobs,
		technician.CreatedAt, technician.UpdatedAt,
	)
	created, err := scanTechnician(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create technician: %w", err)
	}
	return created, nil
}

// AddJob は技術者の担当ジョブ一覧にジョブを追加します（重複は追加しない）
func (r *TechnicianRepository) AddJob(ctx context.Context, technicianID, jobID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE technicians
		SET current_jobs = current_jobs || to_jsonb($2::text), updated_at = now()
		WHERE id = $1 AND NOT current_jobs ? $2::text`,
		technicianID, jobID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to add job to technician: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// 技術者が存在しないか、既に割り当て済み
		if _, err := r.GetByID(ctx, technicianID); err != nil {
			return err
		}
	}
	return nil
}

// RemoveJob は技術者の担当ジョブ一覧からジョブを除外します
func (r *TechnicianRepository) RemoveJob(ctx context.Context, technicianID, jobID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE technicians
		SET current_jobs = current_jobs - $2::text, updated_at = now()
		WHERE id = $1`,
		technicianID, jobID.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to remove job from technician: %w", err)
	}
	return nil
}
