package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	resourceapp "github.com/jinford/workshop-ops/internal/module/resource/application"
)

type createTechnicianRequest struct {
	Name              string  `json:"name"`
	Role              string  `json:"role"`
	Phone             *string `json:"phone"`
	MaxConcurrentJobs int     `json:"maxConcurrentJobs"`
}

func (s *Server) handleCreateTechnician(w http.ResponseWriter, r *http.Request) {
	var req createTechnicianRequest
	if !decodeBody(w, r, &req) {
		return
	}

	technician, err := s.Pools.CreateTechnician(r.Context(), resourceapp.CreateTechnicianInput{
		Name:              req.Name,
		Role:              req.Role,
		Phone:             req.Phone,
		MaxConcurrentJobs: req.MaxConcurrentJobs,
	})
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusCreated, technician)
}

func (s *Server) handleListTechnicians(w http.ResponseWriter, r *http.Request) {
	technicians, err := s.Pools.ListTechnicians(r.Context())
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, technicians)
}

func (s *Server) handleGetTechnician(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid technician ID")
		return
	}

	technician, err := s.Pools.GetTechnician(r.Context(), id)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, technician)
}

type createToolRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (s *Server) handleCreateTool(w http.ResponseWriter, r *http.Request) {
	var req createToolRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tool, err := s.Pools.CreateTool(r.Context(), req.Name, req.Category)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusCreated, tool)
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := s.Pools.ListTools(r.Context())
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, tools)
}

type createMachineRequest struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

func (s *Server) handleCreateMachine(w http.ResponseWriter, r *http.Request) {
	var req createMachineRequest
	if !decodeBody(w, r, &req) {
		return
	}

	machine, err := s.Pools.CreateMachine(r.Context(), req.Name, req.Model)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusCreated, machine)
}

func (s *Server) handleListMachines(w http.ResponseWriter, r *http.Request) {
	machines, err := s.Pools.ListMachines(r.Context())
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, machines)
}

type createWorkStationRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateWorkStation(w http.ResponseWriter, r *http.Request) {
	var req createWorkStationRequest
	if !decodeBody(w, r, &req) {
		return
	}

	station, err := s.Pools.CreateWorkStation(r.Context(), req.Name)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusCreated, station)
}

func (s *Server) handleListWorkStations(w http.ResponseWriter, r *http.Request) {
	stations, err := s.Pools.ListWorkStations(r.Context())
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, stations)
}
