package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingapp "github.com/jinford/workshop-ops/internal/module/billing/application"
	billingtesting "github.com/jinford/workshop-ops/internal/module/billing/testing"
	customerapp "github.com/jinford/workshop-ops/internal/module/customer/application"
	customertesting "github.com/jinford/workshop-ops/internal/module/customer/testing"
	inventoryapp "github.com/jinford/workshop-ops/internal/module/inventory/application"
	inventorydomain "github.com/jinford/workshop-ops/internal/module/inventory/domain"
	inventorytesting "github.com/jinford/workshop-ops/internal/module/inventory/testing"
	resourceapp "github.com/jinford/workshop-ops/internal/module/resource/application"
	resourcedomain "github.com/jinford/workshop-ops/internal/module/resource/domain"
	resourcetesting "github.com/jinford/workshop-ops/internal/module/resource/testing"
	workshopapp "github.com/jinford/workshop-ops/internal/module/workshop/application"
	workshopdomain "github.com/jinford/workshop-ops/internal/module/workshop/domain"
	workshoptesting "github.com/jinford/workshop-ops/internal/module/workshop/testing"
	"github.com/jinford/workshop-ops/internal/platform/database"
	dbtesting "github.com/jinford/workshop-ops/internal/platform/database/testing"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// newTestServer はインメモリリポジトリで構成したテスト用サーバを組み立てます
func newTestServer(t *testing.T, product *inventorydomain.Product, technician *resourcedomain.Technician) *httptest.Server {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	jobRepo := workshoptesting.NewInMemoryJobRepository()
	stock := product.CurrentStock
	products := &inventorytesting.MockProductRepository{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*inventorydomain.Product, error) {
			if id != product.ID {
				return nil, apperr.NewNotFound("product", id.String())
			}
			copied := *product
			copied.CurrentStock = stock
			return &copied, nil
		},
		AdjustStockFunc: func(_ context.Context, id uuid.UUID, delta int) error {
			if stock+delta < 0 {
				return &inventorydomain.InsufficientStockError{Shortages: []inventorydomain.Shortage{{
					ProductID: id, Name: product.Name, Available: stock, Required: -delta,
				}}}
			}
			stock += delta
			return nil
		},
	}
	technicians := &resourcetesting.MockTechnicianRepository{
		GetByIDFunc: func(_ context.Context, id uuid.UUID) (*resourcedomain.Technician, error) {
			if id != technician.ID {
				return nil, apperr.NewNotFound("technician", id.String())
			}
			return technician, nil
		},
		AddJobFunc: func(_ context.Context, technicianID, jobID uuid.UUID) error {
			technician.CurrentJobs = append(technician.CurrentJobs, jobID)
			return nil
		},
		RemoveJobFunc: func(_ context.Context, technicianID, jobID uuid.UUID) error {
			kept := technician.CurrentJobs[:0]
			for _, id := range technician.CurrentJobs {
				if id != jobID {
					kept = append(kept, id)
				}
			}
			technician.CurrentJobs = kept
			return nil
		},
	}

	adapter := &database.Adapter{
		Jobs:         jobRepo,
		Products:     products,
		Movements:    &inventorytesting.MockMovementRepository{},
		Technicians:  technicians,
		Tools:        &resourcetesting.MockToolRepository{},
		Machines:     &resourcetesting.MockMachineRepository{},
		WorkStations: &resourcetesting.MockWorkStationRepository{},
	}
	txp := dbtesting.NewStubTransactor(adapter)

	customerRepo := &customertesting.MockCustomerRepository{}
	stockService := inventoryapp.NewStockService(products, &inventorytesting.MockMovementRepository{}, log)
	resolver := customerapp.NewResolver(customerRepo, log)
	invoiceService := billingapp.NewInvoiceService(&billingtesting.MockInvoiceRepository{}, &billingtesting.MockSettingsRepository{}, log)

	server := &Server{
		Jobs:        workshopapp.NewJobService(jobRepo, resolver, stockService, products, txp, workshopdomain.RatioPolicy{}, log),
		Assignments: workshopapp.NewAssignmentService(txp, workshopdomain.RatioPolicy{}, log),
		Completions: workshopapp.NewCompletionService(txp, invoiceService, log),
		Stock:       stockService,
		Pools:       resourceapp.NewPoolService(technicians, &resourcetesting.MockToolRepository{}, &resourcetesting.MockMachineRepository{}, &resourcetesting.MockWorkStationRepository{}, log),
		Invoices:    invoiceService,
		Settings:    billingapp.NewSettingsService(&billingtesting.MockSettingsRepository{}, log),
		Customers:   customerapp.NewCustomerService(customerRepo, log),
		Logger:      log,
	}

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Shortages []struct {
		Available int `json:"available"`
		Required  int `json:"required"`
	} `json:"shortages"`
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, envelope) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestJobLifecycleScenario(t *testing.T) {
	product := inventorytesting.TestProduct("ブレーキパッド", 10)
	technician := resourcetesting.TestTechnician("山田", 3)
	ts := newTestServer(t, product, technician)

	// 在庫を超える部品要求は不足一覧付きで拒否される
	resp, env := doJSON(t, http.MethodPost, ts.URL+"/v1/jobs", map[string]any{
		"customerPhone": "090-0000-1111",
		"customerName":  "田中",
		"title":         "Brake overhaul",
		"parts":         []map[string]any{{"productID": product.ID, "quantity": 99}},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
	require.Len(t, env.Shortages, 1)
	assert.Equal(t, 10, env.Shortages[0].Available)
	assert.Equal(t, 99, env.Shortages[0].Required)

	// 正常な作成
	resp, env = doJSON(t, http.MethodPost, ts.URL+"/v1/jobs", map[string]any{
		"customerPhone": "090-0000-1111",
		"customerName":  "田中",
		"title":         "Brake pad replacement",
		"parts":         []map[string]any{{"productID": product.ID, "quantity": 4}},
		"tasks":         []map[string]any{{"title": "Replace pads", "estimatedMinutes": 60}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.True(t, env.Success)

	var job workshopdomain.Job
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Equal(t, workshopdomain.JobStatusDraft, job.Status)
	assert.Equal(t, workshopdomain.ProgressQualityChecked, job.Progress)

	// スケジュール設定
	start := time.Now().UTC().Add(time.Hour)
	resp, env = doJSON(t, http.MethodPut, fmt.Sprintf("%s/v1/jobs/%s/schedule", ts.URL, job.ID), map[string]any{
		"scheduledStart": start,
		"scheduledEnd":   start.Add(2 * time.Hour),
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Equal(t, workshopdomain.JobStatusScheduled, job.Status)

	// 技術者割り当てでin_progressへ遷移
	resp, env = doJSON(t, http.MethodPut, fmt.Sprintf("%s/v1/jobs/%s/technicians/%s", ts.URL, job.ID, technician.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(env.Data, &job))
	assert.Equal(t, workshopdomain.JobStatusInProgress, job.Status)
	assert.Equal(t, workshopdomain.ProgressWorkStarted, job.Progress)

	// 完了: 在庫が引き落とされ、請求書が発行される
	resp, env = doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/jobs/%s/complete", ts.URL, job.ID), map[string]any{
		"actualDurationMinutes": 90,
		"completedBy":           "山田",
		"charges":               []map[string]any{{"name": "作業料", "amount": "5000"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var completion struct {
		Job     workshopdomain.Job `json:"job"`
		Invoice *struct {
			InvoiceNumber string `json:"InvoiceNumber"`
		} `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &completion))
	assert.Equal(t, workshopdomain.JobStatusCompleted, completion.Job.Status)
	assert.Equal(t, 100, completion.Job.Progress)
	require.NotNil(t, completion.Invoice)

	// 技術者は解放されている
	assert.Empty(t, technician.CurrentJobs)

	// 在庫の減少を商品APIで確認
	resp, env = doJSON(t, http.MethodGet, fmt.Sprintf("%s/v1/products/%s", ts.URL, product.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got inventorydomain.Product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 6, got.CurrentStock)

	// 完了済みジョブのキャンセルはInvalidState
	resp, env = doJSON(t, http.MethodPost, fmt.Sprintf("%s/v1/jobs/%s/cancel", ts.URL, job.ID), map[string]any{"reason": "too late"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestHealthz(t *testing.T) {
	product := inventorytesting.TestProduct("部品", 1)
	technician := resourcetesting.TestTechnician("山田", 1)
	ts := newTestServer(t, product, technician)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetJob_NotFoundIs404(t *testing.T) {
	product := inventorytesting.TestProduct("部品", 1)
	technician := resourcetesting.TestTechnician("山田", 1)
	ts := newTestServer(t, product, technician)

	resp, env := doJSON(t, http.MethodGet, fmt.Sprintf("%s/v1/jobs/%s", ts.URL, uuid.New()), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Message)
}
