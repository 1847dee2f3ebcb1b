package handler

import (
	"net/http"
	"time"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/repository"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/service"
	"github.com/pharmatrack/pharmatrack-backend/pkg/errors"
	"github.com/pharmatrack/pharmatrack-backend/pkg/httputil"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
)

// SaleHandler handles sale endpoints
type SaleHandler struct {
	service *service.SalesService
	logger  *logger.Logger
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(svc *service.SalesService, log *logger.Logger) *SaleHandler {
	return &SaleHandler{
		service: svc,
		logger:  log,
	}
}

// List lists sales, optionally filtered by medicine and date range
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.SaleFilter{
		MedicineID: r.URL.Query().Get("medicine_id"),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			httputil.Error(w, errors.BadRequest("from must be an RFC 3339 timestamp"))
			return
		}
		filter.From = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			httputil.Error(w, errors.BadRequest("to must be an RFC 3339 timestamp"))
			return
		}
		filter.To = t
	}

	sales, err := h.service.ListSales(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, sales)
}

// Create records a single sale against a batch
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var line service.SaleLine
	if err := httputil.DecodeJSON(r, &line); err != nil {
		httputil.Error(w, err)
		return
	}

	sale, err := h.service.AllocateSale(r.Context(), line)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, sale)
}

// CreateCart records a multi-line sale atomically
func (h *SaleHandler) CreateCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lines []service.SaleLine `json:"lines"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	sales, err := h.service.AllocateCart(r.Context(), req.Lines)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, sales)
}
