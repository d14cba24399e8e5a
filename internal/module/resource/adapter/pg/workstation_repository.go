package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jinford/workshop-ops/internal/module/resource/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// WorkStationRepository は作業場所プールの永続化アダプターです
type WorkStationRepository struct {
	db DBTX
}

// NewWorkStationRepository は新しい作業場所リポジトリを作成します
func NewWorkStationRepository(db DBTX) *WorkStationRepository {
	return &WorkStationRepository{db: db}
}

var _ domain.WorkStationRepository = (*WorkStationRepository)(nil)

const workstationColumns = `id, name, available, created_at, updated_at`

func scanWorkStation(row pgx.Row) (*domain.WorkStation, error) {
	var w domain.WorkStation
	err := row.Scan(&w.ID, &w.Name, &w.Available, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetByID はIDで作業場所を取得します
func (r *WorkStationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkStation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+workstationColumns+` FROM workstations WHERE id = $1`, id)
	station, err := scanWorkStation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("workstation", id.String())
		}
		return nil, fmt.Errorf("failed to get workstation: %w", err)
	}
	return station, nil
}

// List は作業場所一覧を取得します
func (r *WorkStationRepository) List(ctx context.Context) ([]*domain.WorkStation, error) {
	rows, err := r.db.Query(ctx, `SELECT `+workstationColumns+` FROM workstations ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workstations: %w", err)
	}
	defer rows.Close()

	stations := make([]*domain.WorkStation, 0)
	for rows.Next() {
		station, err := scanWorkStation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workstation: %w", err)
		}
		stations = append(stations, station)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workstations: %w", err)
	}

	return stations, nil
}

// Create は作業場所を作成します
func (r *WorkStationRepository) Create(ctx context.Context, station *domain.WorkStation) (*domain.WorkStation, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO workstations (id, name, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+workstationColumns,
		station.ID, station.Name, station.Available, station.CreatedAt, station.UpdatedAt,
	)
	created, err := scanWorkStation(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create workstation: %w", err)
	}
	return created, nil
}

// SetAvailability は作業場所の利用状態を更新します
func (r *WorkStationRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE workstations
		SET available = $2, updated_at = now()
		WHERE id = $1`,
		id, available,
	)
	if err != nil {
		return fmt.Errorf("failed to update workstation availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("workstation", id.String())
	}
	return nil
}
