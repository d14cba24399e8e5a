package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	inventoryapp "github.com/jinford/workshop-ops/internal/module/inventory/application"
)

type createProductRequest struct {
	Name         string           `json:"name"`
	SKU          string           `json:"sku"`
	Description  *string          `json:"description"`
	CurrentStock int              `json:"currentStock"`
	MinimumStock int              `json:"minimumStock"`
	UnitCost     decimal.Decimal  `json:"unitCost"`
	SellingPrice decimal.Decimal  `json:"sellingPrice"`
	TaxRate      *decimal.Decimal `json:"taxRate"`
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := s.Stock.CreateProduct(r.Context(), inventoryapp.CreateProductInput{
		Name:         req.Name,
		SKU:          req.SKU,
		Description:  req.Description,
		CurrentStock: req.CurrentStock,
		MinimumStock: req.MinimumStock,
		UnitCost:     req.UnitCost,
		SellingPrice: req.SellingPrice,
		TaxRate:      req.TaxRate,
	})
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusCreated, product)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	products, err := s.Stock.ListProducts(r.Context(), search)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid product ID")
		return
	}

	product, err := s.Stock.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, product)
}

func (s *Server) handleListMovements(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid product ID")
		return
	}

	movements, err := s.Stock.ListMovements(r.Context(), id)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, movements)
}
