package container

import (
	"context"
	"fmt"
	"log/slog"

	billingpg "github.com/jinford/workshop-ops/internal/module/billing/adapter/pg"
	billingapp "github.com/jinford/workshop-ops/internal/module/billing/application"
	customerpg "github.com/jinford/workshop-ops/internal/module/customer/adapter/pg"
	customerapp "github.com/jinford/workshop-ops/internal/module/customer/application"
	inventorypg "github.com/jinford/workshop-ops/internal/module/inventory/adapter/pg"
	inventoryapp "github.com/jinford/workshop-ops/internal/module/inventory/application"
	resourcepg "github.com/jinford/workshop-ops/internal/module/resource/adapter/pg"
	resourceapp "github.com/jinford/workshop-ops/internal/module/resource/application"
	workshoppg "github.com/jinford/workshop-ops/internal/module/workshop/adapter/pg"
	workshopapp "github.com/jinford/workshop-ops/internal/module/workshop/application"
	workshopdomain "github.com/jinford/workshop-ops/internal/module/workshop/domain"
	"github.com/jinford/workshop-ops/internal/platform/config"
	"github.com/jinford/workshop-ops/internal/platform/database"
)

// Container はアプリケーション全体の依存関係を保持します
type Container struct {
	JobService        *workshopapp.JobService
	AssignmentService *workshopapp.AssignmentService
	CompletionService *workshopapp.CompletionService
	StockService      *inventoryapp.StockService
	PoolService       *resourceapp.PoolService
	InvoiceService    *billingapp.InvoiceService
	SettingsService   *billingapp.SettingsService
	CustomerService   *customerapp.CustomerService

	DB     *database.DB
	Logger *slog.Logger
}

type containerOptions struct {
	logger   *slog.Logger
	progress workshopdomain.ProgressPolicy
}

// Option はContainer構築時のオプションです
type Option func(*containerOptions)

// WithLogger はロガーを差し替えます
func WithLogger(logger *slog.Logger) Option {
	return func(opts *containerOptions) {
		opts.logger = logger
	}
}

// WithProgressPolicy は進捗ポリシーを差し替えます
func WithProgressPolicy(policy workshopdomain.ProgressPolicy) Option {
	return func(opts *containerOptions) {
		opts.progress = policy
	}
}

// New は設定からコンテナを生成します
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("データベース初期化に失敗しました: %w", err)
	}

	return NewWithDB(db, opts...)
}

// NewWithDB は既存のDBを受け取りコンテナを生成します
func NewWithDB(db *database.DB, opts ...Option) (*Container, error) {
	options := containerOptions{
		logger:   slog.Default(),
		progress: workshopdomain.RatioPolicy{},
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	log := options.logger
	pool := db.Pool
	txp := database.NewTransactionProvider(pool)

	jobs := workshoppg.NewJobRepository(pool)
	products := inventorypg.NewProductRepository(pool)
	movements := inventorypg.NewMovementRepository(pool)
	technicians := resourcepg.NewTechnicianRepository(pool)
	tools := resourcepg.NewToolRepository(pool)
	machines := resourcepg.NewMachineRepository(pool)
	workstations := resourcepg.NewWorkStationRepository(pool)
	invoices := billingpg.NewInvoiceRepository(pool)
	settings := billingpg.NewSettingsRepository(pool)
	customers := customerpg.NewCustomerRepository(pool)

	stockService := inventoryapp.NewStockService(products, movements, log)
	poolService := resourceapp.NewPoolService(technicians, tools, machines, workstations, log)
	invoiceService := billingapp.NewInvoiceService(invoices, settings, log)
	settingsService := billingapp.NewSettingsService(settings, log)
	customerService := customerapp.NewCustomerService(customers, log)
	resolver := customerapp.NewResolver(customers, log)

	jobService := workshopapp.NewJobService(jobs, resolver, stockService, products, txp, options.progress, log)
	assignmentService := workshopapp.NewAssignmentService(txp, options.progress, log)
	completionService := workshopapp.NewCompletionService(txp, invoiceService, log)

	return &Container{
		JobService:        jobService,
		AssignmentService: assignmentService,
		CompletionService: completionService,
		StockService:      stockService,
		PoolService:       poolService,
		InvoiceService:    invoiceService,
		SettingsService:   settingsService,
		CustomerService:   customerService,
		DB:                db,
		Logger:            log,
	}, nil
}

// Close はコンテナが保持するリソースを解放します
func (c *Container) Close() {
	if c.DB != nil {
		c.DB.Close()
	}
}
