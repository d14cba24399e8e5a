package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jinford/workshop-ops/internal/module/resource/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// MachineRepository は機械プールの永続化アダプターです
type MachineRepository struct {
	db DBTX
}

// NewMachineRepository は新しい機械リポジトリを作成します
func NewMachineRepository(db DBTX) *MachineRepository {
	return &MachineRepository{db: db}
}

var _ domain.MachineRepository = (*MachineRepository)(nil)

const machineColumns = `id, name, model, operational, available, booked_until, created_at, updated_at`

func scanMachine(row pgx.Row) (*domain.Machine, error) {
	var m domain.Machine
	err := row.Scan(&m.ID, &m.Name, &m.Model, &m.Operational, &m.Available, &m.BookedUntil, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID はIDで機械を取得します
func (r *MachineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Machine, error) {
	row := r.db.QueryRow(ctx, `SELECT `+machineColumns+` FROM machines WHERE id = $1`, id)
	machine, err := scanMachine(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("machine", id.String())
		}
		return nil, fmt.Errorf("failed to get machine: %w", err)
	}
	return machine, nil
}

// List は機械一覧を取得します
func (r *MachineRepository) List(ctx context.Context) ([]*domain.Machine, error) {
	rows, err := r.db.Query(ctx, `SELECT `+machineColumns+` FROM machines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}
	defer rows.Close()

	machines := make([]*domain.Machine, 0)
	for rows.Next() {
		machine, err := scanMachine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan machine: %w", err)
		}
		machines = append(machines, machine)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate machines: %w", err)
	}

	return machines, nil
}

// Create は機械を作成します
func (r *MachineRepository) Create(ctx context.Context, machine *domain.Machine) (*domain.Machine, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO machines (id, name, model, operational, available, booked_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+machineColumns,
		machine.ID, machine.Name, machine.Model, machine.Operational, machine.Available,
		machine.BookedUntil, machine.CreatedAt, machine.UpdatedAt,
	)
	created, err := scanMachine(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create machine: %w", err)
	}
	return created, nil
}

// SetAvailability は機械の予約状態を更新します
func (r *MachineRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool, bookedUntil *time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE machines
		SET available = $2, booked_until = $3, updated_at = now()
		WHERE id = $1`,
		id, available, bookedUntil,
	)
	if err != nil {
		return fmt.Errorf("failed to update machine availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("machine", id.String())
	}
	return nil
}
