package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/service"
	"github.com/pharmatrack/pharmatrack-backend/pkg/httputil"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
)

// SupplierHandler handles supplier endpoints
type SupplierHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(svc *service.InventoryService, log *logger.Logger) *SupplierHandler {
	return &SupplierHandler{
		service: svc,
		logger:  log,
	}
}

// List lists every supplier
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.service.ListSuppliers(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, suppliers)
}

// Get gets a supplier by ID
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	supplier, err := h.service.GetSupplier(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, supplier)
}

// Create creates a new supplier
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var supplier domain.Supplier
	if err := httputil.DecodeJSON(r, &supplier); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateSupplier(r.Context(), &supplier); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, supplier)
}

// Update updates a supplier
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var supplier domain.Supplier
	if err := httputil.DecodeJSON(r, &supplier); err != nil {
		httputil.Error(w, err)
		return
	}

	supplier.ID = id
	if err := h.service.UpdateSupplier(r.Context(), &supplier); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, supplier)
}

// Delete deletes a supplier
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteSupplier(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
