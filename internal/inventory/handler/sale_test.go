package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/handler"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/repository"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/service"
	"github.com/pharmatrack/pharmatrack-backend/pkg/httputil"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
	"github.com/pharmatrack/pharmatrack-backend/pkg/testutil"
)

var saleBatchColumns = []string{
	"id", "medicine_id", "batch_code", "expiry_date", "quantity",
	"purchase_price", "supplier_id", "received_date", "created_at", "updated_at",
}

func newSaleRouter(mockDB *testutil.MockDB) *chi.Mux {
	svc := service.NewSalesService(
		mockDB.DB,
		repository.NewBatchRepository(mockDB.DB),
		repository.NewSaleRepository(mockDB.DB),
		nil,
		logger.Nop(),
	)
	h := handler.NewSaleHandler(svc, logger.Nop())

	r := chi.NewRouter()
	r.Post("/sales", h.Create)
	r.Post("/sales/cart", h.CreateCart)
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSaleHandler_Create(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	now := time.Now().UTC()
	expiry := now.AddDate(1, 0, 0)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT * FROM stock_batches WHERE id = $1 FOR UPDATE").
		WillReturnRows(testutil.MockRows(saleBatchColumns...).
			AddRow("batch-1", "med-1", "BATCH-2026-08-1234", expiry, 40, "1.50", nil, now, now, now))
	mockDB.ExpectExec("UPDATE stock_batches").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectQuery("INSERT INTO sales").
		WillReturnRows(testutil.MockRows("created_at").AddRow(now))
	mockDB.ExpectCommit()

	rec := postJSON(t, newSaleRouter(mockDB), "/sales", map[string]any{
		"medicine_id":   "med-1",
		"batch_id":      "batch-1",
		"quantity_sold": 5,
		"sale_price":    "3.20",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	mockDB.ExpectationsWereMet(t)
}

func TestSaleHandler_CreateInsufficientStock(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	now := time.Now().UTC()
	expiry := now.AddDate(1, 0, 0)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT * FROM stock_batches WHERE id = $1 FOR UPDATE").
		WillReturnRows(testutil.MockRows(saleBatchColumns...).
			AddRow("batch-1", "med-1", "BATCH-2026-08-1234", expiry, 2, "1.50", nil, now, now, now))
	mockDB.ExpectExec("UPDATE stock_batches").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectRollback()

	rec := postJSON(t, newSaleRouter(mockDB), "/sales", map[string]any{
		"medicine_id":   "med-1",
		"batch_id":      "batch-1",
		"quantity_sold": 5,
		"sale_price":    "3.20",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
	mockDB.ExpectationsWereMet(t)
}

func TestSaleHandler_CreateExpiredBatch(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	now := time.Now().UTC()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("SELECT * FROM stock_batches WHERE id = $1 FOR UPDATE").
		WillReturnRows(testutil.MockRows(saleBatchColumns...).
			AddRow("batch-1", "med-1", "BATCH-2026-01-1234", now.AddDate(0, 0, -5), 40, "1.50", nil, now, now, now))
	mockDB.ExpectRollback()

	rec := postJSON(t, newSaleRouter(mockDB), "/sales", map[string]any{
		"medicine_id":   "med-1",
		"batch_id":      "batch-1",
		"quantity_sold": 5,
		"sale_price":    "3.20",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BATCH_EXPIRED", resp.Error.Code)
	mockDB.ExpectationsWereMet(t)
}

func TestSaleHandler_CreateInvalidQuantity(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	rec := postJSON(t, newSaleRouter(mockDB), "/sales", map[string]any{
		"medicine_id":   "med-1",
		"batch_id":      "batch-1",
		"quantity_sold": 0,
		"sale_price":    "3.20",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_QUANTITY", resp.Error.Code)
	mockDB.ExpectationsWereMet(t)
}

func TestSaleHandler_CartEmpty(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	rec := postJSON(t, newSaleRouter(mockDB), "/sales/cart", map[string]any{"lines": []any{}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockDB.ExpectationsWereMet(t)
}

func TestSaleHandler_InvalidJSON(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	req := httptest.NewRequest(http.MethodPost, "/sales", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	newSaleRouter(mockDB).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockDB.ExpectationsWereMet(t)
}
