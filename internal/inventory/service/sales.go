package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/engine"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/events"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/repository"
	"github.com/pharmatrack/pharmatrack-backend/pkg/database"
	"github.com/pharmatrack/pharmatrack-backend/pkg/errors"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
)

// SaleLine is one requested allocation against a specific batch.
type SaleLine struct {
	MedicineID string          `json:"medicine_id"`
	BatchID    string          `json:"batch_id"`
	Quantity   int             `json:"quantity_sold"`
	SalePrice  decimal.Decimal `json:"sale_price"`
}

// SalesService allocates sales against stock batches. Every allocation runs
// inside a transaction with the availability guard in the decrement statement
// itself, so concurrent sales can oversell a batch in neither path.
type SalesService struct {
	db        *database.DB
	batchRepo *repository.BatchRepository
	saleRepo  *repository.SaleRepository
	publisher *events.PharmacyEventPublisher
	reports   *ReportsService
	logger    *logger.Logger
}

// NewSalesService creates a new sales service
func NewSalesService(
	db *database.DB,
	batchRepo *repository.BatchRepository,
	saleRepo *repository.SaleRepository,
	publisher *events.PharmacyEventPublisher,
	log *logger.Logger,
) *SalesService {
	return &SalesService{
		db:        db,
		batchRepo: batchRepo,
		saleRepo:  saleRepo,
		publisher: publisher,
		logger:    log,
	}
}

// BindReports connects the reports service so committed allocations drop the
// cached summary.
func (s *SalesService) BindReports(r *ReportsService) {
	s.reports = r
}

// AllocateSale records a single sale, deducting the quantity from the chosen
// batch. The deduction and the ledger insert commit together or not at all.
func (s *SalesService) AllocateSale(ctx context.Context, line SaleLine) (*domain.Sale, error) {
	sales, err := s.AllocateCart(ctx, []SaleLine{line})
	if err != nil {
		return nil, err
	}
	return sales[0], nil
}

// AllocateCart records a multi-line sale atomically. If any line fails, no
// stock moves and no sale is recorded.
func (s *SalesService) AllocateCart(ctx context.Context, lines []SaleLine) ([]*domain.Sale, error) {
	if len(lines) == 0 {
		return nil, errors.BadRequest("cart must contain at least one line")
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, errors.InvalidQuantity(line.Quantity)
		}
		if err := engine.ValidateSaleLine(line.MedicineID, line.BatchID, line.Quantity, line.SalePrice); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	sales := make([]*domain.Sale, 0, len(lines))

	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, line := range lines {
			sale, err := s.allocateLine(ctx, tx, line, now)
			if err != nil {
				return err
			}
			sales = append(sales, sale)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, sale := range sales {
		s.logger.Info().
			Str("sale_id", sale.ID).
			Str("medicine_id", sale.MedicineID).
			Str("batch_id", sale.BatchID).
			Int("quantity_sold", sale.QuantitySold).
			Msg("sale recorded")
		s.publisher.PublishSaleRecorded(ctx, sale)
	}
	if s.reports != nil {
		s.reports.InvalidateSummary(ctx)
	}

	return sales, nil
}

// allocateLine performs one line's checks and writes inside the transaction.
func (s *SalesService) allocateLine(ctx context.Context, tx *sqlx.Tx, line SaleLine, now time.Time) (*domain.Sale, error) {
	batch, err := s.batchRepo.GetForUpdate(ctx, tx, line.BatchID)
	if err != nil {
		return nil, err
	}

	if batch.MedicineID != line.MedicineID {
		return nil, errors.BatchMedicineMismatch(batch.ID, line.MedicineID)
	}
	if engine.IsExpired(batch.ExpiryDate, now) {
		return nil, errors.BatchExpired(batch.BatchCode)
	}

	ok, err := s.batchRepo.DecrementQuantity(ctx, tx, batch.ID, line.Quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.InsufficientStock(batch.Quantity, line.Quantity)
	}

	sale := &domain.Sale{
		MedicineID:   line.MedicineID,
		BatchID:      line.BatchID,
		QuantitySold: line.Quantity,
		SalePrice:    line.SalePrice,
		SaleDate:     now,
	}
	if err := s.saleRepo.Insert(ctx, tx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

// ListSales lists sales matching the filter
func (s *SalesService) ListSales(ctx context.Context, filter repository.SaleFilter) ([]*domain.Sale, error) {
	return s.saleRepo.List(ctx, filter)
}
