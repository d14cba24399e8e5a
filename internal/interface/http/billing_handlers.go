package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	billingapp "github.com/jinford/workshop-ops/internal/module/billing/application"
)

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.Invoices.ListInvoices(r.Context())
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, invoices)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid invoice ID")
		return
	}

	invoice, err := s.Invoices.GetInvoice(r.Context(), id)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, invoice)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.Settings.GetSettings(r.Context())
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, settings)
}

type updateSettingsRequest struct {
	DefaultTaxRatePercent decimal.Decimal `json:"defaultTaxRatePercent"`
	Currency              string          `json:"currency"`
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	settings, err := s.Settings.UpdateSettings(r.Context(), billingapp.UpdateSettingsInput{
		DefaultTaxRatePercent: req.DefaultTaxRatePercent,
		Currency:              req.Currency,
	})
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, settings)
}
