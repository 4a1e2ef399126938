package mappings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/mappings", h.handleCreate).Methods(http.MethodPost)
	r.HandleFunc("/mappings", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/mappings/{id}/deactivate", h.handleDeactivate).Methods(http.MethodPost)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.TenantID == "" {
		req.TenantID = resolveTenant(r)
	}
	if req.TenantID == "" || req.PartnerID == "" || !req.TransactionType.Valid() {
		http.Error(w, "tenant_id, partner_id and a valid transaction_type are required", http.StatusBadRequest)
		return
	}
	mapping, err := h.repo.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		logger.Log.WithError(err).Error("failed to create transaction mapping")
		http.Error(w, "failed to create mapping", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"mapping": mapping})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.List(r.Context(), resolveTenant(r))
	if err != nil {
		logger.Log.WithError(err).Error("failed to list transaction mappings")
		http.Error(w, "failed to list mappings", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": list})
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Deactivate(r.Context(), resolveTenant(r), mux.Vars(r)["id"]); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "mapping not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to deactivate mapping")
		http.Error(w, "failed to deactivate mapping", http.StatusInternalServerError)
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
