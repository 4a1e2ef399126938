package documents

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
	r.HandleFunc("/documents/import", h.handleImport).Methods(http.MethodPost)
	r.HandleFunc("/documents", h.handleList).Methods(http.MethodGet)
	r.HandleFunc("/documents/errors", h.handleListErrors).Methods(http.MethodGet)
	r.HandleFunc("/documents/by-load/{loadId}", h.handleListByLoad).Methods(http.MethodGet)
	r.HandleFunc("/documents/by-order/{orderId}", h.handleListByOrder).Methods(http.MethodGet)
	r.HandleFunc("/documents/{id}", h.handleGet).Methods(http.MethodGet)
	r.HandleFunc("/documents/{id}/reprocess", h.handleReprocess).Methods(http.MethodPost)
	r.HandleFunc("/documents/{id}/acknowledge", h.handleAcknowledge).Methods(http.MethodPost)
}

func (h *Handler) handleImport(w http.ResponseWriter, r *http.Request) {
	var req models.ImportDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.TenantID == "" {
		req.TenantID = resolveTenant(r)
	}
	if req.TenantID == "" || req.PartnerID == "" || req.RawContent == "" {
		http.Error(w, "tenant_id, partner_id and raw_content are required", http.StatusBadRequest)
		return
	}
	if !req.TransactionType.Valid() {
		http.Error(w, "unknown transaction type", http.StatusBadRequest)
		return
	}
	msg, err := h.service.Import(r.Context(), req)
	if err != nil {
		logger.Log.WithError(err).Error("failed to import document")
		http.Error(w, "failed to import document", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"document": msg})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.Get(r.Context(), resolveTenant(r), mux.Vars(r)["id"])
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to get document")
		http.Error(w, "failed to get document", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"document": msg})
}

func (h *Handler) handleReprocess(w http.ResponseWriter, r *http.Request) {
	var req models.ReprocessRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	msg, err := h.service.Reprocess(r.Context(), resolveTenant(r), mux.Vars(r)["id"], req.Reason)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to reprocess document")
		http.Error(w, "failed to reprocess document", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"document": msg})
}

func (h *Handler) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	var req models.AcknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.AckControlNumber == "" || req.AckStatus == "" {
		http.Error(w, "ack_control_number and ack_status are required", http.StatusBadRequest)
		return
	}
	ack, err := h.service.Acknowledge(r.Context(), resolveTenant(r), mux.Vars(r)["id"], req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "document not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to acknowledge document")
		http.Error(w, "failed to acknowledge document", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"acknowledgment": ack})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), resolveTenant(r), parseLimit(r, 50))
	if err != nil {
		logger.Log.WithError(err).Error("failed to list documents")
		http.Error(w, "failed to list documents", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": list})
}

func (h *Handler) handleListErrors(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListErrors(r.Context(), resolveTenant(r), parseLimit(r, 50))
	if err != nil {
		logger.Log.WithError(err).Error("failed to list error documents")
		http.Error(w, "failed to list error documents", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": list})
}

func (h *Handler) handleListByLoad(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListByLoad(r.Context(), resolveTenant(r), mux.Vars(r)["loadId"])
	if err != nil {
		logger.Log.WithError(err).Error("failed to list documents by load")
		http.Error(w, "failed to list documents", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": list})
}

func (h *Handler) handleListByOrder(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListByOrder(r.Context(), resolveTenant(r), mux.Vars(r)["orderId"])
	if err != nil {
		logger.Log.WithError(err).Error("failed to list documents by order")
		http.Error(w, "failed to list documents", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": list})
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
