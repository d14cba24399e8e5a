package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	customerapp "github.com/jinford/workshop-ops/internal/module/customer/application"
)

type createCustomerRequest struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req createCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	customer, err := s.Customers.CreateCustomer(r.Context(), customerapp.CreateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusCreated, customer)
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	phone := strings.TrimSpace(r.URL.Query().Get("phone"))

	customers, err := s.Customers.ListCustomers(r.Context(), phone)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, customers)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid customer ID")
		return
	}

	customer, err := s.Customers.GetCustomer(r.Context(), id)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, customer)
}
