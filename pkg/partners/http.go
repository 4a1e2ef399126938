package partners

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/partners", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/partners", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/partners/{id}", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/partners/{id}", h.handleUpdate).Methods(http.MethodPatch)
	r.HandleFunc("/partners/{id}", h.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/partners/{id}/test-connection", h.handleTestConnection).Methods(http.MethodPost)
	r.HandleFunc("/partners/{id}/communication-logs", h.handleCommunicationLogs).Methods(http.MethodGet)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.TenantID == "" {
		req.TenantID = resolveTenant(r)
	}
	if req.TenantID == "" || req.PartnerName == "" || req.ISAID == "" {
		http.Error(w, "tenant_id, partner_name and isa_id are required", http.StatusBadRequest)
		return
	}
	partner, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		logger.Log.WithError(err).Error("failed to create trading partner")
		http.Error(w, "failed to create partner", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"partner": partner})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), resolveTenant(r))
	if err != nil {
		logger.Log.WithError(err).Error("failed to list trading partners")
		http.Error(w, "failed to list partners", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": list})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	partner, err := h.service.Get(r.Context(), resolveTenant(r), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "partner not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get trading partner")
		http.Error(w, "failed to get partner", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"partner": partner})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	partner, err := h.service.Update(r.Context(), resolveTenant(r), mux.Vars(r)["id"], req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			http.Error(w, "partner not found", http.StatusNotFound)
		case errors.Is(err, ErrConflict):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			logger.Log.WithError(err).Error("failed to update trading partner")
			http.Error(w, "failed to update partner", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"partner": partner})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), resolveTenant(r), mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "partner not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to delete trading partner")
		http.Error(w, "failed to delete partner", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	err := h.service.TestConnection(r.Context(), resolveTenant(r), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "partner not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"status": "FAILED",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "SUCCESS"})
}

func (h *Handler) handleCommunicationLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.CommunicationLogs(r.Context(), resolveTenant(r), mux.Vars(r)["id"], parseLimit(r, 50))
	if err != nil {
		logger.Log.WithError(err).Error("failed to list communication logs")
		http.Error(w, "failed to list communication logs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": logs})
}

func resolveTenant(r *http.Request) string {
	if tenant := r.Header.Get("X-Tenant-ID"); tenant != "" {
		return tenant
	}
	return r.URL.Query().Get("tenant_id")
}

func parseLimit(r *http.Request, fallback int) int {
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
