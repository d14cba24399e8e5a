package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// DBInitAction はスキーマを適用し、初期設定を投入します
func DBInitAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer app.Close()

	db := app.Container.DB
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("スキーマの適用に失敗しました: %w", err)
	}
	if err := db.SeedSettings(ctx, app.Config.Defaults.TaxRatePercent, app.Config.Defaults.Currency); err != nil {
		return fmt.Errorf("初期設定の投入に失敗しました: %w", err)
	}

	app.Logger().Info("データベースを初期化しました",
		"taxRate", app.Config.Defaults.TaxRatePercent,
		"currency", app.Config.Defaults.Currency,
	)
	return nil
}

// DBPingAction はデータベース接続を確認します
func DBPingAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Container.DB.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("データベースへの接続に失敗しました: %w", err)
	}

	fmt.Println("ok")
	return nil
}
