package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/jinford/workshop-ops/cmd/workshop-ops/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "workshop-ops",
		Usage: "整備工場向けジョブ管理バックエンド",
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "APIサーバ管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "start",
						Usage: "APIサーバを起動",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
							&cli.StringFlag{
								Name:  "addr",
								Usage: "リッスンアドレス（設定より優先）",
							},
						},
						Action: commands.ServerStartAction,
					},
				},
			},
			{
				Name:  "db",
				Usage: "データベース管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "init",
						Usage: "スキーマを適用し、初期設定を投入",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
						},
						Action: commands.DBInitAction,
					},
					{
						Name:  "ping",
						Usage: "データベース接続を確認",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "env",
								Usage: "環境変数ファイルパス",
								Value: ".env",
							},
						},
						Action: commands.DBPingAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatalf("エラー: %v", err)
	}
}
