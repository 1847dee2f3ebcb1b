package service

import (
	"context"
	"time"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/engine"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/events"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/repository"
	"github.com/pharmatrack/pharmatrack-backend/pkg/cache"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
)

const summaryCacheKey = "reports:summary"

// ReportsService computes the derived inventory views: the dashboard
// summary, low stock alerts, and expiry listings. Everything is derived from
// the source records on demand; the summary optionally sits behind a short
// cache window.
type ReportsService struct {
	medicineRepo *repository.MedicineRepository
	batchRepo    *repository.BatchRepository
	saleRepo     *repository.SaleRepository
	supplierRepo *repository.SupplierRepository
	cache        *cache.Cache
	publisher    *events.PharmacyEventPublisher
	summaryCfg   engine.SummaryConfig
	policy       engine.ReorderPolicy
	cacheTTL     time.Duration
	logger       *logger.Logger
}

// NewReportsService creates a new reports service
func NewReportsService(
	medicineRepo *repository.MedicineRepository,
	batchRepo *repository.BatchRepository,
	saleRepo *repository.SaleRepository,
	supplierRepo *repository.SupplierRepository,
	c *cache.Cache,
	publisher *events.PharmacyEventPublisher,
	summaryCfg engine.SummaryConfig,
	policy engine.ReorderPolicy,
	cacheTTL time.Duration,
	log *logger.Logger,
) *ReportsService {
	return &ReportsService{
		medicineRepo: medicineRepo,
		batchRepo:    batchRepo,
		saleRepo:     saleRepo,
		supplierRepo: supplierRepo,
		cache:        c,
		publisher:    publisher,
		summaryCfg:   summaryCfg,
		policy:       policy,
		cacheTTL:     cacheTTL,
		logger:       log,
	}
}

// Summary returns the dashboard roll-up, served from cache within the
// configured staleness window.
func (s *ReportsService) Summary(ctx context.Context) (*domain.StockSummary, error) {
	var summary domain.StockSummary
	err := s.cache.FetchJSON(ctx, summaryCacheKey, s.cacheTTL, &summary, func(ctx context.Context) (interface{}, error) {
		return s.computeSummary(ctx, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// InvalidateSummary drops the cached summary after a mutation that should be
// visible immediately.
func (s *ReportsService) InvalidateSummary(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, summaryCacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate summary cache")
	}
}

func (s *ReportsService) computeSummary(ctx context.Context, asOf time.Time) (*domain.StockSummary, error) {
	medicines, err := s.medicineRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	since := asOf.AddDate(0, 0, -s.summaryCfg.SalesWindowDays)
	sales, err := s.saleRepo.ListSince(ctx, since)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.supplierRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return engine.ComputeSummary(medicines, batches, sales, suppliers, asOf, s.summaryCfg), nil
}

// FastMoving returns the top sellers over the trailing sales window. It rides
// on the summary so the cache policy applies here too.
func (s *ReportsService) FastMoving(ctx context.Context) ([]domain.FastMover, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return summary.TopFastMoving, nil
}

// LowStockAlerts returns the medicines below their reorder level, most
// urgent first, and publishes an alert event for each critical entry.
func (s *ReportsService) LowStockAlerts(ctx context.Context) ([]domain.LowStockAlert, error) {
	medicines, err := s.medicineRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	alerts := engine.BuildLowStockAlerts(medicines, batches, s.policy)
	for _, alert := range alerts {
		if alert.Urgency == string(engine.TierCritical) {
			s.publisher.PublishLowStockAlert(ctx, alert)
		}
	}
	return alerts, nil
}

// ExpiringSoon returns the batches whose expiry falls within the soon window.
func (s *ReportsService) ExpiringSoon(ctx context.Context) ([]domain.BatchExpiryView, error) {
	return s.expiryListing(ctx, engine.StatusExpiringSoon)
}

// Expired returns the batches already past their expiry date.
func (s *ReportsService) Expired(ctx context.Context) ([]domain.BatchExpiryView, error) {
	return s.expiryListing(ctx, engine.StatusExpired)
}

func (s *ReportsService) expiryListing(ctx context.Context, status engine.ExpiryStatus) ([]domain.BatchExpiryView, error) {
	medicines, err := s.medicineRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := engine.AnnotateExpiry(batches, medicines, time.Now().UTC())
	return engine.FilterByStatus(views, status), nil
}
