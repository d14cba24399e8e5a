package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	billingapp "github.com/jinford/workshop-ops/internal/module/billing/application"
	customerapp "github.com/jinford/workshop-ops/internal/module/customer/application"
	inventoryapp "github.com/jinford/workshop-ops/internal/module/inventory/application"
	resourceapp "github.com/jinford/workshop-ops/internal/module/resource/application"
	workshopapp "github.com/jinford/workshop-ops/internal/module/workshop/application"
)

// Server はHTTP APIサーバです
type Server struct {
	Jobs        *workshopapp.JobService
	Assignments *workshopapp.AssignmentService
	Completions *workshopapp.CompletionService
	Stock       *inventoryapp.StockService
	Pools       *resourceapp.PoolService
	Invoices    *billingapp.InvoiceService
	Settings    *billingapp.SettingsService
	Customers   *customerapp.CustomerService
	Logger      *slog.Logger
}

// Router はルーティングを構築します
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", s.handleCreateJob)
			r.Get("/", s.handleListJobs)
			r.Get("/{id}", s.handleGetJob)
			r.Put("/{id}", s.handleUpdateJob)
			r.Delete("/{id}", s.handleDeleteJob)
			r.Put("/{id}/schedule", s.handleScheduleJob)
			r.Put("/{id}/tasks/{taskID}", s.handleUpdateTask)
			r.Put("/{id}/technicians/{technicianID}", s.handleAssignTechnician)
			r.Delete("/{id}/technicians/{technicianID}", s.handleRemoveTechnician)
			r.Put("/{id}/tools/{toolID}", s.handleAssignTool)
			r.Put("/{id}/machines/{machineID}", s.handleAssignMachine)
			r.Put("/{id}/workstations/{stationID}", s.handleAssignWorkStation)
			r.Put("/{id}/parts", s.handleAssignPart)
			r.Post("/{id}/assign-resources", s.handleBulkAssign)
			r.Post("/{id}/complete", s.handleCompleteJob)
			r.Post("/{id}/cancel", s.handleCancelJob)
			r.Get("/{id}/analytics", s.handleJobAnalytics)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", s.handleCreateProduct)
			r.Get("/", s.handleListProducts)
			r.Get("/{id}", s.handleGetProduct)
			r.Get("/{id}/movements", s.handleListMovements)
		})

		r.Route("/technicians", func(r chi.Router) {
			r.Post("/", s.handleCreateTechnician)
			r.Get("/", s.handleListTechnicians)
			r.Get("/{id}", s.handleGetTechnician)
		})
		r.Route("/tools", func(r chi.Router) {
			r.Post("/", s.handleCreateTool)
			r.Get("/", s.handleListTools)
		})
		r.Route("/machines", func(r chi.Router) {
			r.Post("/", s.handleCreateMachine)
			r.Get("/", s.handleListMachines)
		})
		r.Route("/workstations", func(r chi.Router) {
			r.Post("/", s.handleCreateWorkStation)
			r.Get("/", s.handleListWorkStations)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", s.handleCreateCustomer)
			r.Get("/", s.handleListCustomers)
			r.Get("/{id}", s.handleGetCustomer)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", s.handleListInvoices)
			r.Get("/{id}", s.handleGetInvoice)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.handleGetSettings)
			r.Put("/", s.handleUpdateSettings)
		})
	})

	return r
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
