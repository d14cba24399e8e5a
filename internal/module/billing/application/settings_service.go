package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jinford/workshop-ops/internal/module/billing/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// SettingsService は業務設定のユースケースを提供します
type SettingsService struct {
	settings domain.SettingsRepository
	log      *slog.Logger
}

// NewSettingsService は新しいSettingsServiceを作成します
func NewSettingsService(settings domain.SettingsRepository, log *slog.Logger) *SettingsService {
	return &SettingsService{
		settings: settings,
		log:      log,
	}
}

// GetSettings は現在の設定を取得します
func (s *SettingsService) GetSettings(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// UpdateSettingsInput は設定更新の入力です
type UpdateSettingsInput struct {
	DefaultTaxRatePercent decimal.Decimal
	Currency              string
}

// UpdateSettings は設定を更新します
func (s *SettingsService) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*domain.Settings, error) {
	if input.DefaultTaxRatePercent.IsNegative() {
		return nil, apperr.NewValidation("default tax rate must not be negative")
	}
	if input.Currency == "" {
		return nil, apperr.NewValidation("currency is required")
	}

	updated, err := s.settings.Update(ctx, &domain.Settings{
		DefaultTaxRatePercent: input.DefaultTaxRatePercent,
		Currency:              input.Currency,
		UpdatedAt:             time.Now().UTC(),
	})
	if err != nil {
		s.log.Error("Failed to update settings", "error", err)
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	return updated, nil
}
