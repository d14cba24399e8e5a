package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	workshopapp "github.com/jinford/workshop-ops/internal/module/workshop/application"
	workshopdomain "github.com/jinford/workshop-ops/internal/module/workshop/domain"
)

type taskRequest struct {
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	AssigneeID       *uuid.UUID `json:"assigneeID"`
	Status           string     `json:"status"`
	EstimatedMinutes int        `json:"estimatedMinutes"`
}

type createJobRequest struct {
	CustomerID    *uuid.UUID `json:"customerID"`
	CustomerPhone string     `json:"customerPhone"`
	CustomerName  string     `json:"customerName"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority"`
	Parts         []struct {
		ProductID uuid.UUID `json:"productID"`
		Quantity  int       `json:"quantity"`
	} `json:"parts"`
	Tasks []taskRequest `json:"tasks"`
	Actor string        `json:"actor"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := workshopapp.CreateJobInput{
		CustomerID:    req.CustomerID,
		CustomerPhone: req.CustomerPhone,
		CustomerName:  req.CustomerName,
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		Actor:         req.Actor,
	}
	for _, p := range req.Parts {
		input.Parts = append(input.Parts, workshopapp.PartInput{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	for _, t := range req.Tasks {
		input.Tasks = append(input.Tasks, toTaskInput(t))
	}

	job, err := s.Jobs.CreateJob(r.Context(), input)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusCreated, job)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := workshopdomain.JobFilter{
		Search:        strings.TrimSpace(q.Get("search")),
		Priority:      strings.TrimSpace(q.Get("priority")),
		CustomerPhone: strings.TrimSpace(q.Get("customerPhone")),
	}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status := workshopdomain.JobStatus(raw)
		filter.Status = &status
	}
	if raw := strings.TrimSpace(q.Get("customerID")); raw != "" {
		id, ok := parseUUIDParam(raw)
		if !ok {
			respondBadRequest(w, "invalid customerID")
			return
		}
		filter.CustomerID = &id
	}
	filter.Page = parseIntQuery(q.Get("page"), 1)
	filter.Limit = parseIntQuery(q.Get("limit"), 20)

	jobs, total, err := s.Jobs.ListJobs(r.Context(), filter)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondList(w, jobs, total)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}

	job, err := s.Jobs.GetJob(r.Context(), id)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

type updateJobRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Priority    *string        `json:"priority"`
	Status      *string        `json:"status"`
	Tasks       []taskRequest  `json:"tasks"`
	Actor       string         `json:"actor"`
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	var req updateJobRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := workshopapp.UpdateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Actor:       req.Actor,
	}
	if req.Status != nil {
		status := workshopdomain.JobStatus(*req.Status)
		input.Status = &status
	}
	if req.Tasks != nil {
		input.Tasks = make([]workshopapp.TaskInput, 0, len(req.Tasks))
		for _, t := range req.Tasks {
			input.Tasks = append(input.Tasks, toTaskInput(t))
		}
	}

	job, err := s.Jobs.UpdateJob(r.Context(), id, input)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}

	if err := s.Jobs.DeleteJob(r.Context(), id); err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, nil)
}

type scheduleJobRequest struct {
	ScheduledStart time.Time `json:"scheduledStart"`
	ScheduledEnd   time.Time `json:"scheduledEnd"`
	Actor          string    `json:"actor"`
}

func (s *Server) handleScheduleJob(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	var req scheduleJobRequest
	if !decodeBody(w, r, &req) {
		return
	}

	job, err := s.Jobs.ScheduleJob(r.Context(), id, req.ScheduledStart, req.ScheduledEnd, req.Actor)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

type updateTaskRequest struct {
	Status        *string `json:"status"`
	ActualMinutes *int    `json:"actualMinutes"`
	Actor         string  `json:"actor"`
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	taskID, ok := parseUUIDParam(chi.URLParam(r, "taskID"))
	if !ok {
		respondBadRequest(w, "invalid task ID")
		return
	}
	var req updateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := workshopapp.UpdateTaskInput{
		ActualMinutes: req.ActualMinutes,
		Actor:         req.Actor,
	}
	if req.Status != nil {
		status := workshopdomain.TaskStatus(*req.Status)
		input.Status = &status
	}

	job, err := s.Jobs.UpdateTask(r.Context(), jobID, taskID, input)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

func (s *Server) handleJobAnalytics(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}

	analytics, err := s.Jobs.GetAnalytics(r.Context(), id)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, analytics)
}

func (s *Server) handleAssignTechnician(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	technicianID, ok := parseUUIDParam(chi.URLParam(r, "technicianID"))
	if !ok {
		respondBadRequest(w, "invalid technician ID")
		return
	}

	job, err := s.Assignments.AssignTechnician(r.Context(), jobID, technicianID)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

func (s *Server) handleRemoveTechnician(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	technicianID, ok := parseUUIDParam(chi.URLParam(r, "technicianID"))
	if !ok {
		respondBadRequest(w, "invalid technician ID")
		return
	}

	job, err := s.Assignments.RemoveTechnician(r.Context(), jobID, technicianID)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

type reserveRequest struct {
	RequiredFrom  *time.Time `json:"requiredFrom"`
	RequiredUntil *time.Time `json:"requiredUntil"`
}

func (s *Server) handleAssignTool(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	toolID, ok := parseUUIDParam(chi.URLParam(r, "toolID"))
	if !ok {
		respondBadRequest(w, "invalid tool ID")
		return
	}
	req := reserveRequest{}
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	job, err := s.Assignments.AssignTool(r.Context(), jobID, toolID, req.RequiredFrom, req.RequiredUntil)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

func (s *Server) handleAssignMachine(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	machineID, ok := parseUUIDParam(chi.URLParam(r, "machineID"))
	if !ok {
		respondBadRequest(w, "invalid machine ID")
		return
	}
	req := reserveRequest{}
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	job, err := s.Assignments.AssignMachine(r.Context(), jobID, machineID, req.RequiredFrom, req.RequiredUntil)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

func (s *Server) handleAssignWorkStation(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	stationID, ok := parseUUIDParam(chi.URLParam(r, "stationID"))
	if !ok {
		respondBadRequest(w, "invalid workstation ID")
		return
	}

	job, err := s.Assignments.AssignWorkStation(r.Context(), jobID, stationID)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

type assignPartRequest struct {
	ProductID uuid.UUID `json:"productID"`
	Quantity  int       `json:"quantity"`
}

func (s *Server) handleAssignPart(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	var req assignPartRequest
	if !decodeBody(w, r, &req) {
		return
	}

	job, err := s.Assignments.AssignPart(r.Context(), jobID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

type bulkAssignRequest struct {
	TechnicianIDs  []uuid.UUID `json:"technicianIDs"`
	ToolIDs        []uuid.UUID `json:"toolIDs"`
	MachineIDs     []uuid.UUID `json:"machineIDs"`
	WorkStationIDs []uuid.UUID `json:"workStationIDs"`
	Parts          []struct {
		ProductID uuid.UUID `json:"productID"`
		Quantity  int       `json:"quantity"`
	} `json:"parts"`
}

func (s *Server) handleBulkAssign(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	var req bulkAssignRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := workshopapp.BulkAssignInput{
		TechnicianIDs:  req.TechnicianIDs,
		ToolIDs:        req.ToolIDs,
		MachineIDs:     req.MachineIDs,
		WorkStationIDs: req.WorkStationIDs,
	}
	for _, p := range req.Parts {
		input.Parts = append(input.Parts, workshopapp.BulkPartInput{ProductID: p.ProductID, Quantity: p.Quantity})
	}

	result, err := s.Assignments.BulkAssign(r.Context(), jobID, input)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: result.Job, Errors: result.Errors})
}

type completeJobRequest struct {
	ActualDurationMinutes int `json:"actualDurationMinutes"`
	Parts                 []struct {
		ProductID        uuid.UUID `json:"productID"`
		QuantityUsed     *int      `json:"quantityUsed"`
		QuantityReturned int       `json:"quantityReturned"`
	} `json:"parts"`
	Charges []struct {
		Name           string           `json:"name"`
		Amount         decimal.Decimal  `json:"amount"`
		TaxRatePercent *decimal.Decimal `json:"taxRatePercent"`
	} `json:"charges"`
	Notes       string `json:"notes"`
	CompletedBy string `json:"completedBy"`
}

func (s *Server) handleCompleteJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	var req completeJobRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := workshopapp.CompleteJobInput{
		ActualDurationMinutes: req.ActualDurationMinutes,
		Notes:                 req.Notes,
		CompletedBy:           req.CompletedBy,
	}
	for _, p := range req.Parts {
		input.Parts = append(input.Parts, workshopapp.PartUsage{
			ProductID:        p.ProductID,
			QuantityUsed:     p.QuantityUsed,
			QuantityReturned: p.QuantityReturned,
		})
	}
	for _, c := range req.Charges {
		input.Charges = append(input.Charges, workshopapp.ChargeInput{
			Name:           c.Name,
			Amount:         c.Amount,
			TaxRatePercent: c.TaxRatePercent,
		})
	}

	result, err := s.Completions.Complete(r.Context(), jobID, input)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, map[string]any{
		"job":     result.Job,
		"invoice": result.Invoice,
	})
}

type cancelJobRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := parseUUIDParam(chi.URLParam(r, "id"))
	if !ok {
		respondBadRequest(w, "invalid job ID")
		return
	}
	req := cancelJobRequest{}
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	job, err := s.Completions.Cancel(r.Context(), jobID, req.Reason, req.Actor)
	if err != nil {
		respondError(w, s.Logger, err)
		return
	}
	respondData(w, http.StatusOK, job)
}

func toTaskInput(t taskRequest) workshopapp.TaskInput {
	return workshopapp.TaskInput{
		Title:            t.Title,
		Description:      t.Description,
		AssigneeID:       t.AssigneeID,
		Status:           workshopdomain.TaskStatus(t.Status),
		EstimatedMinutes: t.EstimatedMinutes,
	}
}

func parseIntQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
