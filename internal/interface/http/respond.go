package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	inventorydomain "github.com/jinford/workshop-ops/internal/module/inventory/domain"
	"github.com/jinford/workshop-ops/internal/shared/apperr"
)

// successResponse は成功時の共通レスポンスです
type successResponse struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Total   *int     `json:"total,omitempty"`
}

// errorResponse は失敗時の共通レスポンスです
type errorResponse struct {
	Success   bool                       `json:"success"`
	Message   string                     `json:"message"`
	Shortages []inventorydomain.Shortage `json:"shortages,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, successResponse{Success: true, Data: data})
}

func respondList(w http.ResponseWriter, data any, total int) {
	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: data, Total: &total})
}

// respondError はアプリケーションエラーをHTTPステータスへ写像します
// 分類できないエラーは詳細を漏らさず500で返します
func respondError(w http.ResponseWriter, log *slog.Logger, err error) {
	if ise, ok := inventorydomain.IsInsufficientStock(err); ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message:   ise.Error(),
			Shortages: ise.Shortages,
		})
		return
	}

	switch {
	case apperr.IsValidation(err), apperr.IsInvalidState(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
	case apperr.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	default:
		log.Error("リクエスト処理に失敗しました", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
	}
}

func respondBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Message: message})
}

// parseUUIDParam はURLパラメータをUUIDとして解析します
func parseUUIDParam(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondBadRequest(w, "invalid request body")
		return false
	}
	return true
}
