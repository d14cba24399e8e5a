package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jinford/workshop-ops/internal/module/billing/domain"
)

// SettingsRepository は設定の永続化アダプターです
// settingsテーブルは単一行（id=1）で管理します
type SettingsRepository struct {
	db DBTX
}

// NewSettingsRepository は新しい設定リポジトリを作成します
func NewSettingsRepository(db DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

var _ domain.SettingsRepository = (*SettingsRepository)(nil)

// Get は現在の設定を取得します
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	row := r.db.QueryRow(ctx, `SELECT default_tax_rate, currency, updated_at FROM settings WHERE id = 1`)

	var s domain.Settings
	if err := row.Scan(&s.DefaultTaxRatePercent, &s.Currency, &s.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("settings row is not initialized")
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &s, nil
}

// Update は設定を更新します
func (r *SettingsRepository) Update(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE settings
		SET default_tax_rate = $1, currency = $2, updated_at = $3
		WHERE id = 1
		RETURNING default_tax_rate, currency, updated_at`,
		settings.DefaultTaxRatePercent, settings.Currency, settings.UpdatedAt,
	)

	var s domain.Settings
	if err := row.Scan(&s.DefaultTaxRatePercent, &s.Currency, &s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	return &s, nil
}
