package handler

import (
	"net/http"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/service"
	"github.com/pharmatrack/pharmatrack-backend/pkg/httputil"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	service *service.ReportsService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(svc *service.ReportsService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service: svc,
		logger:  log,
	}
}

// Summary returns the dashboard roll-up
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, summary)
}

// FastMoving returns the top sellers over the trailing sales window
func (h *ReportHandler) FastMoving(w http.ResponseWriter, r *http.Request) {
	movers, err := h.service.FastMoving(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, movers)
}

// LowStockAlerts returns the medicines below their reorder level
func (h *ReportHandler) LowStockAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.LowStockAlerts(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, alerts)
}

// ExpiringSoon returns the batches expiring within the soon window
func (h *ReportHandler) ExpiringSoon(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ExpiringSoon(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, views)
}

// Expired returns the batches already past their expiry date
func (h *ReportHandler) Expired(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.Expired(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, views)
}
