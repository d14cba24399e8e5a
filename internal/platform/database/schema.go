package database

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Migrate はスキーマを適用します（全文IF NOT EXISTSのため再実行可能）
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SeedSettings は設定行が存在しない場合に初期値を投入します
func (db *DB) SeedSettings(ctx context.Context, defaultTaxRate float64, currency string) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO settings (id, default_tax_rate, currency, updated_at)
		VALUES (1, $1, $2, now())
		ON CONFLICT (id) DO NOTHING`,
		defaultTaxRate, currency,
	)
	if err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}
	return nil
}
