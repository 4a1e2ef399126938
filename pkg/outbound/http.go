package outbound

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/logger"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/documents"
	"github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/transport"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/outbound/204", h.handle204).Methods(http.MethodPost)
	r.HandleFunc("/outbound/210", h.handle210).Methods(http.MethodPost)
	r.HandleFunc("/outbound/214", h.handle214).Methods(http.MethodPost)
	r.HandleFunc("/outbound/990", h.handle990).Methods(http.MethodPost)
	r.HandleFunc("/outbound/997", h.handle997).Methods(http.MethodPost)
	r.HandleFunc("/outbound/{id}/send", h.handleSend).Methods(http.MethodPost)
}

func (h *Handler) handle204(w http.ResponseWriter, r *http.Request) {
	var req models.Generate204Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.LoadID == "" {
		http.Error(w, "load_id is required", http.StatusBadRequest)
		return
	}
	h.respond(w, r, func() (*documents.EdiMessage, error) {
		return h.service.Generate204(r.Context(), req)
	})
}

func (h *Handler) handle210(w http.ResponseWriter, r *http.Request) {
	var req models.Generate210Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.InvoiceID == "" {
		http.Error(w, "invoice_id is required", http.StatusBadRequest)
		return
	}
	h.respond(w, r, func() (*documents.EdiMessage, error) {
		return h.service.Generate210(r.Context(), req)
	})
}

func (h *Handler) handle214(w http.ResponseWriter, r *http.Request) {
	var req models.Generate214Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.LoadID == "" {
		http.Error(w, "load_id is required", http.StatusBadRequest)
		return
	}
	h.respond(w, r, func() (*documents.EdiMessage, error) {
		return h.service.Generate214(r.Context(), req)
	})
}

func (h *Handler) handle990(w http.ResponseWriter, r *http.Request) {
	var req models.Generate990Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.LoadID == "" {
		http.Error(w, "load_id is required", http.StatusBadRequest)
		return
	}
	h.respond(w, r, func() (*documents.EdiMessage, error) {
		return h.service.Generate990(r.Context(), req)
	})
}

func (h *Handler) handle997(w http.ResponseWriter, r *http.Request) {
	var req models.Generate997Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.OriginalMessageID == "" {
		http.Error(w, "original_message_id is required", http.StatusBadRequest)
		return
	}
	h.respond(w, r, func() (*documents.EdiMessage, error) {
		return h.service.Generate997(r.Context(), req)
	})
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	msg, err := h.service.SendDocument(r.Context(), resolveTenant(r), mux.Vars(r)["id"])
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			http.Error(w, "document not found", http.StatusNotFound)
		case errors.Is(err, transport.ErrBadConfig):
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"document": msg,
				"error":    err.Error(),
			})
		default:
			logger.Log.WithError(err).Error("failed to send document")
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"document": msg,
				"error":    err.Error(),
			})
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"document": msg})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, fn func() (*documents.EdiMessage, error)) {
	msg, err := fn()
	if err != nil {
		if errors.Is(err, documents.ErrNotFound) {
			http.Error(w, "original document not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to generate outbound document")
		http.Error(w, "failed to generate document", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"document": msg})
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
