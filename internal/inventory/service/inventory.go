// Package service implements the pharmacy inventory business logic on top of
// the repositories and the consistency engine.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/engine"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/events"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/repository"
	"github.com/pharmatrack/pharmatrack-backend/pkg/errors"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
)

// InventoryService handles medicine, stock batch, and supplier business logic
type InventoryService struct {
	medicineRepo *repository.MedicineRepository
	batchRepo    *repository.BatchRepository
	supplierRepo *repository.SupplierRepository
	publisher    *events.PharmacyEventPublisher
	reports      *ReportsService
	policy       engine.ReorderPolicy
	logger       *logger.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	medicineRepo *repository.MedicineRepository,
	batchRepo *repository.BatchRepository,
	supplierRepo *repository.SupplierRepository,
	publisher *events.PharmacyEventPublisher,
	policy engine.ReorderPolicy,
	log *logger.Logger,
) *InventoryService {
	return &InventoryService{
		medicineRepo: medicineRepo,
		batchRepo:    batchRepo,
		supplierRepo: supplierRepo,
		publisher:    publisher,
		policy:       policy,
		logger:       log,
	}
}

// BindReports connects the reports service so stock mutations drop the
// cached summary.
func (s *InventoryService) BindReports(r *ReportsService) {
	s.reports = r
}

func (s *InventoryService) invalidateSummary(ctx context.Context) {
	if s.reports != nil {
		s.reports.InvalidateSummary(ctx)
	}
}

// MedicineWithStock represents a medicine with its batches and derived state
type MedicineWithStock struct {
	*domain.Medicine
	Batches       []*domain.StockBatch `json:"batches"`
	TotalStock    int                  `json:"total_stock"`
	BelowReorder  bool                 `json:"below_reorder"`
	Urgency       string               `json:"urgency,omitempty"`
	NearestExpiry *time.Time           `json:"nearest_expiry,omitempty"`
}

// Medicine operations

// CreateMedicine creates a new medicine
func (s *InventoryService) CreateMedicine(ctx context.Context, m *domain.Medicine) error {
	if err := engine.ValidateMedicine(m); err != nil {
		return err
	}
	if err := s.medicineRepo.Create(ctx, m); err != nil {
		return err
	}

	s.logger.Info().Str("medicine_id", m.ID).Str("name", m.Name).Msg("medicine created")
	return nil
}

// GetMedicine gets a medicine with its batches and derived stock state
func (s *InventoryService) GetMedicine(ctx context.Context, id string) (*MedicineWithStock, error) {
	m, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	batches, err := s.batchRepo.ListByMedicine(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.enrichMedicine(m, batches), nil
}

// ListMedicines lists medicines matching the filter
func (s *InventoryService) ListMedicines(ctx context.Context, filter repository.MedicineFilter) ([]*domain.Medicine, error) {
	return s.medicineRepo.List(ctx, filter)
}

// UpdateMedicine updates a medicine
func (s *InventoryService) UpdateMedicine(ctx context.Context, m *domain.Medicine) error {
	if err := engine.ValidateMedicine(m); err != nil {
		return err
	}
	return s.medicineRepo.Update(ctx, m)
}

// DeleteMedicine deletes a medicine
func (s *InventoryService) DeleteMedicine(ctx context.Context, id string) error {
	return s.medicineRepo.Delete(ctx, id)
}

// Batch operations

// CreateBatch receives a new stock batch. An empty batch code is filled in
// with a generated one for the current year-month.
func (s *InventoryService) CreateBatch(ctx context.Context, b *domain.StockBatch) error {
	now := time.Now().UTC()

	if b.BatchCode == "" {
		code, err := s.GenerateBatchCode(ctx, now)
		if err != nil {
			return err
		}
		b.BatchCode = code
	}
	if b.ReceivedDate.IsZero() {
		b.ReceivedDate = now
	}

	if err := engine.ValidateBatch(b); err != nil {
		return err
	}

	// The foreign key would catch this too, but resolving the medicine first
	// yields a proper not-found instead of a bad-request.
	if _, err := s.medicineRepo.GetByID(ctx, b.MedicineID); err != nil {
		return err
	}

	if err := s.batchRepo.Create(ctx, b); err != nil {
		return err
	}

	s.logger.Info().
		Str("batch_id", b.ID).
		Str("medicine_id", b.MedicineID).
		Str("batch_code", b.BatchCode).
		Int("quantity", b.Quantity).
		Msg("stock batch received")

	s.publisher.PublishStockReceived(ctx, b)
	s.invalidateSummary(ctx)
	return nil
}

// GetBatch gets a batch by ID
func (s *InventoryService) GetBatch(ctx context.Context, id string) (*domain.StockBatch, error) {
	return s.batchRepo.GetByID(ctx, id)
}

// ListMedicineBatches lists one medicine's batches, resolving the medicine
// first so an unknown id yields a not-found instead of an empty list.
func (s *InventoryService) ListMedicineBatches(ctx context.Context, medicineID string) ([]*domain.StockBatch, error) {
	if _, err := s.medicineRepo.GetByID(ctx, medicineID); err != nil {
		return nil, err
	}
	return s.batchRepo.ListByMedicine(ctx, medicineID)
}

// ListBatches lists batches, optionally narrowed to one medicine.
func (s *InventoryService) ListBatches(ctx context.Context, medicineID string) ([]*domain.StockBatch, error) {
	if medicineID != "" {
		return s.batchRepo.ListByMedicine(ctx, medicineID)
	}
	return s.batchRepo.ListAll(ctx)
}

// UpdateBatch updates a batch's non-quantity fields
func (s *InventoryService) UpdateBatch(ctx context.Context, b *domain.StockBatch) error {
	if err := engine.ValidateBatch(b); err != nil {
		return err
	}
	return s.batchRepo.Update(ctx, b)
}

// DeleteBatch deletes a batch
func (s *InventoryService) DeleteBatch(ctx context.Context, id string) error {
	if err := s.batchRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateSummary(ctx)
	return nil
}

// AdjustBatchQuantity sets a batch's quantity to an absolute value as an
// administrative correction.
func (s *InventoryService) AdjustBatchQuantity(ctx context.Context, batchID string, quantity int, reason string) (*domain.StockBatch, error) {
	if quantity < 0 {
		return nil, errors.Validation(map[string]string{
			"quantity": "must not be negative",
		})
	}

	before, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}

	after, err := s.batchRepo.AdjustQuantity(ctx, batchID, quantity)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("batch_id", batchID).
		Int("previous_quantity", before.Quantity).
		Int("new_quantity", after.Quantity).
		Str("reason", reason).
		Msg("batch quantity adjusted")

	s.publisher.PublishStockAdjusted(ctx, after, after.Quantity-before.Quantity, reason)
	s.invalidateSummary(ctx)
	return after, nil
}

// GenerateBatchCode produces an unused batch code for the asOf year-month.
func (s *InventoryService) GenerateBatchCode(ctx context.Context, asOf time.Time) (string, error) {
	prefix := fmt.Sprintf("BATCH-%04d-%02d-", asOf.Year(), int(asOf.Month()))
	taken, err := s.batchRepo.ListBatchCodes(ctx, prefix)
	if err != nil {
		return "", err
	}
	return engine.GenerateBatchCode(taken, asOf, nil), nil
}

// Supplier operations

// CreateSupplier creates a new supplier
func (s *InventoryService) CreateSupplier(ctx context.Context, sup *domain.Supplier) error {
	if err := engine.ValidateSupplier(sup); err != nil {
		return err
	}
	return s.supplierRepo.Create(ctx, sup)
}

// GetSupplier gets a supplier by ID
func (s *InventoryService) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	return s.supplierRepo.GetByID(ctx, id)
}

// ListSuppliers lists every supplier
func (s *InventoryService) ListSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	return s.supplierRepo.ListAll(ctx)
}

// UpdateSupplier updates a supplier
func (s *InventoryService) UpdateSupplier(ctx context.Context, sup *domain.Supplier) error {
	if err := engine.ValidateSupplier(sup); err != nil {
		return err
	}
	return s.supplierRepo.Update(ctx, sup)
}

// DeleteSupplier deletes a supplier
func (s *InventoryService) DeleteSupplier(ctx context.Context, id string) error {
	return s.supplierRepo.Delete(ctx, id)
}

func (s *InventoryService) enrichMedicine(m *domain.Medicine, batches []*domain.StockBatch) *MedicineWithStock {
	result := &MedicineWithStock{
		Medicine: m,
		Batches:  batches,
	}

	for _, b := range batches {
		result.TotalStock += b.Quantity
		if b.Quantity > 0 && (result.NearestExpiry == nil || b.ExpiryDate.Before(*result.NearestExpiry)) {
			expiry := b.ExpiryDate
			result.NearestExpiry = &expiry
		}
	}

	eval := engine.EvaluateReorder(m.ReorderLevel, result.TotalStock, s.policy)
	result.BelowReorder = eval.BelowReorder
	result.Urgency = string(eval.Urgency)

	return result
}
