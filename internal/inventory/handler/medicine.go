// Package handler exposes the pharmacy inventory over HTTP.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/repository"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/service"
	"github.com/pharmatrack/pharmatrack-backend/pkg/httputil"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
)

// MedicineHandler handles medicine endpoints
type MedicineHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(svc *service.InventoryService, log *logger.Logger) *MedicineHandler {
	return &MedicineHandler{
		service: svc,
		logger:  log,
	}
}

// List lists medicines, optionally filtered by search, category, or dosage form
func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.MedicineFilter{
		Search:     r.URL.Query().Get("search"),
		Category:   r.URL.Query().Get("category"),
		DosageForm: r.URL.Query().Get("dosage_form"),
	}

	medicines, err := h.service.ListMedicines(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, medicines)
}

// Get gets a medicine with its batches and derived stock state
func (h *MedicineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	m, err := h.service.GetMedicine(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, m)
}

// Create creates a new medicine
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var m domain.Medicine
	if err := httputil.DecodeJSON(r, &m); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateMedicine(r.Context(), &m); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, m)
}

// Update updates a medicine
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var m domain.Medicine
	if err := httputil.DecodeJSON(r, &m); err != nil {
		httputil.Error(w, err)
		return
	}

	m.ID = id
	if err := h.service.UpdateMedicine(r.Context(), &m); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, m)
}

// Delete deletes a medicine
func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteMedicine(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
