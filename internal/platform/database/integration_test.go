package database_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventorypg "github.com/jinford/workshop-ops/internal/module/inventory/adapter/pg"
	inventorydomain "github.com/jinford/workshop-ops/internal/module/inventory/domain"
	inventorytesting "github.com/jinford/workshop-ops/internal/module/inventory/testing"
	workshoppg "github.com/jinford/workshop-ops/internal/module/workshop/adapter/pg"
	workshopdomain "github.com/jinford/workshop-ops/internal/module/workshop/domain"
	workshoptesting "github.com/jinford/workshop-ops/internal/module/workshop/testing"
	"github.com/jinford/workshop-ops/internal/platform/database"
)

// setupPostgres はdockertestでPostgresコンテナを起動し、スキーマを適用します
// Dockerが利用できない環境ではテストをスキップします
func setupPostgres(t *testing.T) *database.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockerに接続できないためスキップします: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("dockerに接続できないためスキップします: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=workshop",
			"POSTGRES_PASSWORD=workshop",
			"POSTGRES_DB=workshop",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	connString := fmt.Sprintf(
		"host=localhost port=%s user=workshop password=workshop dbname=workshop sslmode=disable",
		resource.GetPort("5432/tcp"),
	)

	var pgPool *pgxpool.Pool
	pool.MaxWait = 60 * time.Second
	err = pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p, err := pgxpool.New(ctx, connString)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pgPool = p
		return nil
	})
	require.NoError(t, err)

	db := &database.DB{Pool: pgPool}
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate(context.Background()))
	require.NoError(t, db.SeedSettings(context.Background(), 10.0, "JPY"))

	return db
}

func TestJobRepositoryRoundTrip(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := workshoppg.NewJobRepository(db.Pool)

	job := workshoptesting.TestJob(workshopdomain.JobStatusDraft)
	job.Tasks = []workshopdomain.Task{workshoptesting.TestTask("Inspect", workshopdomain.TaskStatusTodo)}

	created, err := repo.Create(ctx, job)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, job.JobNumber, got.JobNumber)
	assert.Equal(t, workshopdomain.JobStatusDraft, got.Status)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "Inspect", got.Tasks[0].Title)
	require.Len(t, got.ProgressHistory, 1)

	// ステータスフィルタ付き一覧
	status := workshopdomain.JobStatusDraft
	jobs, total, err := repo.List(ctx, workshopdomain.JobFilter{Status: &status, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, jobs, 1)

	// ドキュメント全体の更新
	got.Status = workshopdomain.JobStatusScheduled
	got.Tasks[0].Status = workshopdomain.TaskStatusCompleted
	_, err = repo.Update(ctx, got)
	require.NoError(t, err)

	updated, err := repo.GetByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, workshopdomain.JobStatusScheduled, updated.Status)
	assert.Equal(t, workshopdomain.TaskStatusCompleted, updated.Tasks[0].Status)

	require.NoError(t, repo.Delete(ctx, got.ID))
	_, err = repo.GetByID(ctx, got.ID)
	assert.Error(t, err)
}

func TestProductAdjustStockIsConditional(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	repo := inventorypg.NewProductRepository(db.Pool)

	product := inventorytesting.TestProduct("ブレーキパッド", 5)
	created, err := repo.Create(ctx, product)
	require.NoError(t, err)

	// 在庫内の減算は成功する
	require.NoError(t, repo.AdjustStock(ctx, created.ID, -3))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStock)

	// 在庫を超える減算は行が更新されずInsufficientStockになる
	err = repo.AdjustStock(ctx, created.ID, -3)
	_, ok := inventorydomain.IsInsufficientStock(err)
	assert.True(t, ok)

	got, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentStock)
}

func TestTransactProvidesRollback(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	txp := database.NewTransactionProvider(db.Pool)

	job := workshoptesting.TestJob(workshopdomain.JobStatusDraft)

	err := txp.Transact(ctx, func(a *database.Adapter) error {
		if _, err := a.Jobs.Create(ctx, job); err != nil {
			return err
		}
		return fmt.Errorf("force rollback")
	})
	require.Error(t, err)

	repo := workshoppg.NewJobRepository(db.Pool)
	_, err = repo.GetByID(ctx, job.ID)
	assert.Error(t, err)
}
