package queue

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/queue", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/queue/stats", h.handleStats).Methods(http.MethodGet)
	r.HandleFunc("/queue/process", h.handleProcess).Methods(http.MethodPost)
	r.HandleFunc("/queue/{id}/retry", h.handleRetry).Methods(http.MethodPost)
	r.HandleFunc("/queue/{id}/cancel", h.handleCancel).Methods(http.MethodPost)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), resolveTenant(r))
	if err != nil {
		logger.Log.WithError(err).Error("failed to list queue")
		http.Error(w, "failed to list queue", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": list})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), resolveTenant(r))
	if err != nil {
		logger.Log.WithError(err).Error("failed to compute queue stats")
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	processed, err := h.service.Process(r.Context(), resolveTenant(r))
	if err != nil {
		logger.Log.WithError(err).Error("failed to process queue batch")
		http.Error(w, "failed to process queue", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"processed": processed})
}

func (h *Handler) handleRetry(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Retry(r.Context(), resolveTenant(r), mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "message not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to retry message")
		http.Error(w, "failed to retry message", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Cancel(r.Context(), resolveTenant(r), mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "message not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to cancel message")
		http.Error(w, "failed to cancel message", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func resolveTenant(r *http.Request) string {
	if tenant := r.Header.Get("X-Tenant-ID"); tenant != "" {
		return tenant
	}
	return r.URL.Query().Get("tenant_id")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
