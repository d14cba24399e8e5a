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

// ToolRepository は工具プールの永続化アダプターです
type ToolRepository struct {
	db DBTX
}

// NewToolRepository は新しい工具リポジトリを作成します
func NewToolRepository(db DBTX) *ToolRepository {
	return &ToolRepository{db: db}
}

var _ domain.ToolRepository = (*ToolRepository)(nil)

const toolColumns = `id, name, category, available, expected_return_at, created_at, updated_at`

func scanTool(row pgx.Row) (*domain.Tool, error) {
	var t domain.Tool
	err := row.Scan(&t.ID, &t.Name, &t.Category, &t.Available, &t.ExpectedReturnAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID はIDで工具を取得します
func (r *ToolRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tool, error) {
	row := r.db.QueryRow(ctx, `SELECT `+toolColumns+` FROM tools WHERE id = $1`, id)
	tool, err := scanTool(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFound("tool", id.String())
		}
		return nil, fmt.Errorf("failed to get tool: %w", err)
	}
	return tool, nil
}

// List は工具一覧を取得します
func (r *ToolRepository) List(ctx context.Context) ([]*domain.Tool, error) {
	rows, err := r.db.Query(ctx, `SELECT `+toolColumns+` FROM tools ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	defer rows.Close()

	tools := make([]*domain.Tool, 0)
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tool: %w", err)
		}
		tools = append(tools, tool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tools: %w", err)
	}

	return tools, nil
}

// Create は工具を作成します
func (r *ToolRepository) Create(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO tools (id, name, category, available, expected_return_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+toolColumns,
		tool.ID, tool.Name, tool.Category, tool.Available, tool.ExpectedReturnAt,
		tool.CreatedAt, tool.UpdatedAt,
	)
	created, err := scanTool(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool: %w", err)
	}
	return created, nil
}

// SetAvailability は工具の貸出状態を更新します
func (r *ToolRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool, expectedReturnAt *time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE tools
		SET available = $2, expected_return_at = $3, updated_at = now()
		WHERE id = $1`,
		id, available, expectedReturnAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update tool availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFound("tool", id.String())
	}
	return nil
}
