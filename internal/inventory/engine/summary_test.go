package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
)

var summaryAsOf = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func medicineFixture(id, name string, reorderLevel int) *domain.Medicine {
	return &domain.Medicine{ID: id, Name: name, ReorderLevel: reorderLevel}
}

func batchFixture(medicineID string, qty int, price string, expiry time.Time) *domain.StockBatch {
	return &domain.StockBatch{
		MedicineID:    medicineID,
		Quantity:      qty,
		PurchasePrice: decimal.RequireFromString(price),
		ExpiryDate:    expiry,
	}
}

func saleFixture(medicineID string, qty int, daysAgo int) *domain.Sale {
	return &domain.Sale{
		MedicineID:   medicineID,
		QuantitySold: qty,
		SaleDate:     summaryAsOf.AddDate(0, 0, -daysAgo),
	}
}

func TestComputeSummary(t *testing.T) {
	medicines := []*domain.Medicine{
		medicineFixture("med-1", "Amoxicillin 500mg", 20),
		medicineFixture("med-2", "Paracetamol 500mg", 50),
		medicineFixture("med-3", "Insulin Glargine", 10),
	}
	batches := []*domain.StockBatch{
		batchFixture("med-1", 30, "2.50", summaryAsOf.AddDate(1, 0, 0)),  // good
		batchFixture("med-1", 5, "2.40", summaryAsOf.AddDate(0, 0, -2)),  // expired, still counted
		batchFixture("med-2", 12, "0.10", summaryAsOf.AddDate(0, 0, 15)), // expiring soon
		batchFixture("med-3", 0, "45.00", summaryAsOf.AddDate(0, 6, 0)),
	}
	sales := []*domain.Sale{
		saleFixture("med-1", 4, 1),
		saleFixture("med-1", 6, 29),
		saleFixture("med-2", 3, 10),
		saleFixture("med-2", 9, 31), // outside the trailing window
	}
	suppliers := []*domain.Supplier{
		{ID: "sup-1", ReliabilityRating: decimal.RequireFromString("4.5")},
		{ID: "sup-2", ReliabilityRating: decimal.RequireFromString("3.0")},
	}

	s := ComputeSummary(medicines, batches, sales, suppliers, summaryAsOf, DefaultSummaryConfig())

	assert.Equal(t, 3, s.TotalMedicines)
	// 30*2.50 + 5*2.40 + 12*0.10 + 0*45.00
	assert.True(t, decimal.RequireFromString("88.20").Equal(s.TotalStockValue),
		"total stock value %s", s.TotalStockValue)
	assert.Equal(t, 1, s.ExpiredCount)
	assert.Equal(t, 1, s.ExpiringSoonCount)
	// med-2 has 12 < 50, med-3 has 0 < 10; med-1 aggregates to 35 >= 20.
	assert.Equal(t, 2, s.BelowReorderCount)
	assert.Equal(t, 13, s.MonthlySalesQty)
	assert.True(t, decimal.RequireFromString("3.75").Equal(s.SupplierReliabilityScore),
		"reliability score %s", s.SupplierReliabilityScore)

	require.Len(t, s.TopFastMoving, 2)
	assert.Equal(t, domain.FastMover{MedicineID: "med-1", MedicineName: "Amoxicillin 500mg", TotalSold: 10}, s.TopFastMoving[0])
	assert.Equal(t, domain.FastMover{MedicineID: "med-2", MedicineName: "Paracetamol 500mg", TotalSold: 3}, s.TopFastMoving[1])
}

func TestComputeSummaryEmpty(t *testing.T) {
	s := ComputeSummary(nil, nil, nil, nil, summaryAsOf, DefaultSummaryConfig())

	assert.Equal(t, 0, s.TotalMedicines)
	assert.True(t, s.TotalStockValue.IsZero())
	assert.True(t, s.SupplierReliabilityScore.IsZero())
	assert.Empty(t, s.TopFastMoving)
	assert.NotNil(t, s.TopFastMoving, "ranking serializes as [] not null")
}

func TestRankFastMoversTieBreakAndLimit(t *testing.T) {
	medicines := []*domain.Medicine{
		medicineFixture("med-1", "Zinc Sulfate", 0),
		medicineFixture("med-2", "Aspirin", 0),
		medicineFixture("med-3", "Cetirizine", 0),
	}
	sold := map[string]int{"med-1": 7, "med-2": 7, "med-3": 12}

	movers := rankFastMovers(medicines, sold, 2)

	require.Len(t, movers, 2)
	assert.Equal(t, "med-3", movers[0].MedicineID)
	// Equal totals tie-break on name for a stable ranking.
	assert.Equal(t, "Aspirin", movers[1].MedicineName)
}

func TestAggregateQuantitiesIncludesExpired(t *testing.T) {
	batches := []*domain.StockBatch{
		batchFixture("med-1", 8, "1.00", summaryAsOf.AddDate(0, 0, -30)),
		batchFixture("med-1", 17, "1.00", summaryAsOf.AddDate(1, 0, 0)),
	}

	totals := AggregateQuantities(batches)
	assert.Equal(t, 25, totals["med-1"])
}

func TestBuildLowStockAlerts(t *testing.T) {
	medicines := []*domain.Medicine{
		medicineFixture("med-1", "Amoxicillin 500mg", 20),
		medicineFixture("med-2", "Paracetamol 500mg", 50),
		medicineFixture("med-3", "Insulin Glargine", 10),
		medicineFixture("med-4", "Ibuprofen 200mg", 15),
	}
	batches := []*domain.StockBatch{
		batchFixture("med-1", 40, "1.00", summaryAsOf.AddDate(1, 0, 0)),
		batchFixture("med-2", 30, "1.00", summaryAsOf.AddDate(1, 0, 0)), // warning: 30 < 50
		batchFixture("med-4", 2, "1.00", summaryAsOf.AddDate(1, 0, 0)),  // critical: 2 < 7.5
		// med-3 has no batches at all: aggregate 0, critical.
	}

	alerts := BuildLowStockAlerts(medicines, batches, DefaultReorderPolicy())

	require.Len(t, alerts, 3)
	assert.Equal(t, "med-3", alerts[0].MedicineID)
	assert.Equal(t, string(TierCritical), alerts[0].Urgency)
	assert.Equal(t, "med-4", alerts[1].MedicineID)
	assert.Equal(t, string(TierCritical), alerts[1].Urgency)
	assert.Equal(t, "med-2", alerts[2].MedicineID)
	assert.Equal(t, string(TierWarning), alerts[2].Urgency)
}

func TestAnnotateAndFilterExpiry(t *testing.T) {
	medicines := []*domain.Medicine{
		medicineFixture("med-1", "Amoxicillin 500mg", 0),
	}
	batches := []*domain.StockBatch{
		batchFixture("med-1", 10, "1.00", summaryAsOf.AddDate(0, 0, 25)),
		batchFixture("med-1", 10, "1.00", summaryAsOf.AddDate(0, 0, -4)),
		batchFixture("med-1", 10, "1.00", summaryAsOf.AddDate(0, 0, 5)),
		batchFixture("med-1", 10, "1.00", summaryAsOf.AddDate(1, 0, 0)),
	}

	views := AnnotateExpiry(batches, medicines, summaryAsOf)
	require.Len(t, views, 4)
	assert.Equal(t, "Amoxicillin 500mg", views[0].MedicineName)
	assert.Equal(t, 25, views[0].DaysUntilExpiry)

	soon := FilterByStatus(views, StatusExpiringSoon)
	require.Len(t, soon, 2)
	// Soonest expiry first.
	assert.Equal(t, 5, soon[0].DaysUntilExpiry)
	assert.Equal(t, 25, soon[1].DaysUntilExpiry)

	expired := FilterByStatus(views, StatusExpired)
	require.Len(t, expired, 1)
	assert.Equal(t, -4, expired[0].DaysUntilExpiry)
}
