// Package domain holds the pharmacy inventory entities and the derived
// read-model shapes computed from them.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dosage forms accepted for a medicine
const (
	DosageTablet    = "tablet"
	DosageCapsule   = "capsule"
	DosageSyrup     = "syrup"
	DosageInjection = "injection"
	DosageCream     = "cream"
	DosageDrops     = "drops"
	DosageInhaler   = "inhaler"
	DosagePowder    = "powder"
	DosageOther     = "other"
)

// DosageForms lists every accepted dosage form.
var DosageForms = []string{
	DosageTablet, DosageCapsule, DosageSyrup, DosageInjection,
	DosageCream, DosageDrops, DosageInhaler, DosagePowder, DosageOther,
}

// Medicine is a sellable product. It is referenced by stock batches and
// sales; the store's foreign keys keep it alive while batches point at it.
type Medicine struct {
	ID           string          `json:"id" db:"id"`
	Name         string          `json:"name" db:"name"`
	GenericName  *string         `json:"generic_name,omitempty" db:"generic_name"`
	Description  *string         `json:"description,omitempty" db:"description"`
	Category     string          `json:"category" db:"category"`
	Manufacturer *string         `json:"manufacturer,omitempty" db:"manufacturer"`
	DosageForm   string          `json:"dosage_form" db:"dosage_form"`
	Barcode      *string         `json:"barcode,omitempty" db:"barcode"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	ReorderLevel int             `json:"reorder_level" db:"reorder_level"`
	SupplierID   *string         `json:"supplier_id,omitempty" db:"supplier_id"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
}

// StockBatch is a discrete lot of a medicine received together. Quantity only
// moves down through sale allocations or administrative corrections; new
// stock arrives as a new batch.
type StockBatch struct {
	ID            string          `json:"id" db:"id"`
	MedicineID    string          `json:"medicine_id" db:"medicine_id"`
	BatchCode     string          `json:"batch_code" db:"batch_code"`
	ExpiryDate    time.Time       `json:"expiry_date" db:"expiry_date"`
	Quantity      int             `json:"quantity" db:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchase_price" db:"purchase_price"`
	SupplierID    *string         `json:"supplier_id,omitempty" db:"supplier_id"`
	ReceivedDate  time.Time       `json:"received_date" db:"received_date"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// Sale is one line of the append-only sales ledger. Sales are never updated
// or deleted.
type Sale struct {
	ID           string          `json:"id" db:"id"`
	MedicineID   string          `json:"medicine_id" db:"medicine_id"`
	BatchID      string          `json:"batch_id" db:"batch_id"`
	QuantitySold int             `json:"quantity_sold" db:"quantity_sold"`
	SalePrice    decimal.Decimal `json:"sale_price" db:"sale_price"`
	SaleDate     time.Time       `json:"sale_date" db:"sale_date"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Supplier provides medicines and stock batches.
type Supplier struct {
	ID                string          `json:"id" db:"id"`
	Name              string          `json:"name" db:"name"`
	ContactPerson     *string         `json:"contact_person,omitempty" db:"contact_person"`
	Phone             *string         `json:"phone,omitempty" db:"phone"`
	Email             *string         `json:"email,omitempty" db:"email"`
	ReliabilityRating decimal.Decimal `json:"reliability_rating" db:"reliability_rating"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// Derived views. These are computed on every read, never stored.

// StockSummary is the dashboard roll-up across the whole inventory.
type StockSummary struct {
	TotalMedicines           int             `json:"total_medicines"`
	TotalStockValue          decimal.Decimal `json:"total_stock_value"`
	BelowReorderCount        int             `json:"below_reorder"`
	ExpiringSoonCount        int             `json:"expiring_soon"`
	ExpiredCount             int             `json:"expired"`
	MonthlySalesQty          int             `json:"monthly_sales_qty"`
	SupplierReliabilityScore decimal.Decimal `json:"supplier_reliability_score"`
	TopFastMoving            []FastMover     `json:"top_fast_moving"`
}

// FastMover is one entry of the fast-moving ranking.
type FastMover struct {
	MedicineID   string `json:"medicine_id"`
	MedicineName string `json:"medicine_name"`
	TotalSold    int    `json:"total_sold"`
}

// LowStockAlert flags a medicine whose aggregate stock fell below its
// reorder level.
type LowStockAlert struct {
	MedicineID   string `json:"medicine_id"`
	MedicineName string `json:"medicine_name"`
	Quantity     int    `json:"quantity"`
	ReorderLevel int    `json:"reorder_level"`
	Urgency      string `json:"urgency"`
}

// BatchExpiryView is a batch annotated with its expiry classification.
type BatchExpiryView struct {
	StockBatch
	MedicineName    string `json:"medicine_name"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
	ExpiryStatus    string `json:"expiry_status"`
}
