package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
)

// SummaryConfig tunes the aggregation window and ranking size.
type SummaryConfig struct {
	SalesWindowDays int
	TopMoversLimit  int
}

// DefaultSummaryConfig matches the reporting contract: a trailing 30-day
// sales window and a top-5 fast-mover ranking.
func DefaultSummaryConfig() SummaryConfig {
	return SummaryConfig{SalesWindowDays: 30, TopMoversLimit: 5}
}

// AggregateQuantities sums on-hand quantity per medicine across all of its
// batches. Expired batches count toward the aggregate: they still sit on the
// shelf, and the reorder comparison is about physical stock, not sellable
// stock.
func AggregateQuantities(batches []*domain.StockBatch) map[string]int {
	totals := make(map[string]int, len(batches))
	for _, b := range batches {
		totals[b.MedicineID] += b.Quantity
	}
	return totals
}

// TotalStockValue is the exact sum of quantity x purchase price across all
// batches.
func TotalStockValue(batches []*domain.StockBatch) decimal.Decimal {
	total := decimal.Zero
	for _, b := range batches {
		total = total.Add(b.PurchasePrice.Mul(decimal.NewFromInt(int64(b.Quantity))))
	}
	return total
}

// ComputeSummary rolls up the full medicine/batch/sale/supplier collections
// into the dashboard summary. Everything is recomputed from the source
// records on each call; any staleness window is the caller's cache policy.
func ComputeSummary(
	medicines []*domain.Medicine,
	batches []*domain.StockBatch,
	sales []*domain.Sale,
	suppliers []*domain.Supplier,
	asOf time.Time,
	cfg SummaryConfig,
) *domain.StockSummary {
	summary := &domain.StockSummary{
		TotalMedicines:           len(medicines),
		TotalStockValue:          TotalStockValue(batches),
		SupplierReliabilityScore: meanReliability(suppliers),
		TopFastMoving:            []domain.FastMover{},
	}

	for _, b := range batches {
		switch ClassifyExpiry(b.ExpiryDate, asOf) {
		case StatusExpired:
			summary.ExpiredCount++
		case StatusExpiringSoon:
			summary.ExpiringSoonCount++
		}
	}

	totals := AggregateQuantities(batches)
	for _, m := range medicines {
		if totals[m.ID] < m.ReorderLevel {
			summary.BelowReorderCount++
		}
	}

	windowStart := toDate(asOf).AddDate(0, 0, -cfg.SalesWindowDays)
	soldByMedicine := make(map[string]int)
	for _, s := range sales {
		if toDate(s.SaleDate).Before(windowStart) {
			continue
		}
		summary.MonthlySalesQty += s.QuantitySold
		soldByMedicine[s.MedicineID] += s.QuantitySold
	}

	summary.TopFastMoving = rankFastMovers(medicines, soldByMedicine, cfg.TopMoversLimit)
	return summary
}

// BuildLowStockAlerts returns one alert per medicine whose aggregate stock
// is below its reorder level, most urgent first.
func BuildLowStockAlerts(
	medicines []*domain.Medicine,
	batches []*domain.StockBatch,
	policy ReorderPolicy,
) []domain.LowStockAlert {
	totals := AggregateQuantities(batches)

	alerts := make([]domain.LowStockAlert, 0)
	for _, m := range medicines {
		eval := EvaluateReorder(m.ReorderLevel, totals[m.ID], policy)
		if !eval.BelowReorder {
			continue
		}
		alerts = append(alerts, domain.LowStockAlert{
			MedicineID:   m.ID,
			MedicineName: m.Name,
			Quantity:     totals[m.ID],
			ReorderLevel: m.ReorderLevel,
			Urgency:      string(eval.Urgency),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Urgency != alerts[j].Urgency {
			return alerts[i].Urgency == string(TierCritical)
		}
		return alerts[i].Quantity < alerts[j].Quantity
	})
	return alerts
}

// AnnotateExpiry attaches days-until-expiry and the classification to each
// batch, resolving medicine names from the given collection.
func AnnotateExpiry(
	batches []*domain.StockBatch,
	medicines []*domain.Medicine,
	asOf time.Time,
) []domain.BatchExpiryView {
	names := make(map[string]string, len(medicines))
	for _, m := range medicines {
		names[m.ID] = m.Name
	}

	views := make([]domain.BatchExpiryView, 0, len(batches))
	for _, b := range batches {
		views = append(views, domain.BatchExpiryView{
			StockBatch:      *b,
			MedicineName:    names[b.MedicineID],
			DaysUntilExpiry: DaysUntilExpiry(b.ExpiryDate, asOf),
			ExpiryStatus:    string(ClassifyExpiry(b.ExpiryDate, asOf)),
		})
	}
	return views
}

// FilterByStatus keeps only the views with the given classification, soonest
// expiry first.
func FilterByStatus(views []domain.BatchExpiryView, status ExpiryStatus) []domain.BatchExpiryView {
	filtered := make([]domain.BatchExpiryView, 0)
	for _, v := range views {
		if v.ExpiryStatus == string(status) {
			filtered = append(filtered, v)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].ExpiryDate.Before(filtered[j].ExpiryDate)
	})
	return filtered
}

func rankFastMovers(medicines []*domain.Medicine, soldByMedicine map[string]int, limit int) []domain.FastMover {
	movers := make([]domain.FastMover, 0, len(soldByMedicine))
	for _, m := range medicines {
		if sold, ok := soldByMedicine[m.ID]; ok && sold > 0 {
			movers = append(movers, domain.FastMover{
				MedicineID:   m.ID,
				MedicineName: m.Name,
				TotalSold:    sold,
			})
		}
	}

	sort.SliceStable(movers, func(i, j int) bool {
		if movers[i].TotalSold != movers[j].TotalSold {
			return movers[i].TotalSold > movers[j].TotalSold
		}
		return movers[i].MedicineName < movers[j].MedicineName
	})

	if limit > 0 && len(movers) > limit {
		movers = movers[:limit]
	}
	return movers
}

func meanReliability(suppliers []*domain.Supplier) decimal.Decimal {
	if len(suppliers) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, s := range suppliers {
		sum = sum.Add(s.ReliabilityRating)
	}
	return sum.Div(decimal.NewFromInt(int64(len(suppliers)))).Round(2)
}
