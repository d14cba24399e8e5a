package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	httpapi "github.com/jinford/workshop-ops/internal/interface/http"
)

// ServerStartAction はAPIサーバを起動します
// シグナル受信でグレースフルシャットダウンします
func ServerStartAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(ctx, cmd.String("env"))
	if err != nil {
		return err
	}
	defer app.Close()

	cont := app.Container
	server := &httpapi.Server{
		Jobs:        cont.JobService,
		Assignments: cont.AssignmentService,
		Completions: cont.CompletionService,
		Stock:       cont.StockService,
		Pools:       cont.PoolService,
		Invoices:    cont.InvoiceService,
		Settings:    cont.SettingsService,
		Customers:   cont.CustomerService,
		Logger:      app.Logger(),
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = app.Config.Server.Addr
	}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(app.Config.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(app.Config.Server.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger().Info("APIサーバを起動します", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		app.Logger().Info("シャットダウンします")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("サーバの起動に失敗しました: %w", err)
	}
}
