package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/service"
	"github.com/pharmatrack/pharmatrack-backend/pkg/httputil"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
)

// BatchHandler handles stock batch endpoints
type BatchHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(svc *service.InventoryService, log *logger.Logger) *BatchHandler {
	return &BatchHandler{
		service: svc,
		logger:  log,
	}
}

// List lists batches, optionally narrowed to one medicine
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	medicineID := r.URL.Query().Get("medicine_id")

	batches, err := h.service.ListBatches(r.Context(), medicineID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batches)
}

// ListForMedicine lists the batches belonging to one medicine
func (h *BatchHandler) ListForMedicine(w http.ResponseWriter, r *http.Request) {
	medicineID := chi.URLParam(r, "id")

	batches, err := h.service.ListMedicineBatches(r.Context(), medicineID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batches)
}

// Get gets a batch by ID
func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	batch, err := h.service.GetBatch(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batch)
}

// Create receives a new stock batch
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var batch domain.StockBatch
	if err := httputil.DecodeJSON(r, &batch); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateBatch(r.Context(), &batch); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, batch)
}

// Update updates a batch's non-quantity fields
func (h *BatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var batch domain.StockBatch
	if err := httputil.DecodeJSON(r, &batch); err != nil {
		httputil.Error(w, err)
		return
	}

	batch.ID = id
	if err := h.service.UpdateBatch(r.Context(), &batch); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batch)
}

// Delete deletes a batch
func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteBatch(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// AdjustQuantity sets a batch's quantity as an administrative correction
func (h *BatchHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "id")

	var req struct {
		Quantity int    `json:"quantity" validate:"gte=0"`
		Reason   string `json:"reason"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	batch, err := h.service.AdjustBatchQuantity(r.Context(), batchID, req.Quantity, req.Reason)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, batch)
}

// GenerateBatchCode returns a fresh unused batch code for the current month
func (h *BatchHandler) GenerateBatchCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.service.GenerateBatchCode(r.Context(), time.Now().UTC())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]string{"batch_code": code})
}
