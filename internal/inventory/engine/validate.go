package engine

import (
	"github.com/shopspring/decimal"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/pkg/errors"
)

// The validation layer runs before any mutation reaches the store. Every
// violated field is reported at once so the caller can render the full set
// of per-field messages.

var ratingMax = decimal.NewFromInt(5)

// ValidateMedicine checks the medicine invariants.
func ValidateMedicine(m *domain.Medicine) error {
	details := make(map[string]string)

	if m.Name == "" {
		details["name"] = "this field is required"
	}
	if m.Category == "" {
		details["category"] = "this field is required"
	}
	if !validDosageForm(m.DosageForm) {
		details["dosage_form"] = "must be one of: tablet, capsule, syrup, injection, cream, drops, inhaler, powder, other"
	}
	if m.UnitPrice.IsNegative() {
		details["unit_price"] = "must not be negative"
	}
	if m.ReorderLevel < 0 {
		details["reorder_level"] = "must not be negative"
	}

	if len(details) > 0 {
		return errors.Validation(details)
	}
	return nil
}

// ValidateBatch checks the stock batch invariants. The medicine reference
// itself is verified against the store by the service; here it only has to
// be present.
func ValidateBatch(b *domain.StockBatch) error {
	details := make(map[string]string)

	if b.MedicineID == "" {
		details["medicine_id"] = "this field is required"
	}
	if b.BatchCode == "" {
		details["batch_code"] = "this field is required"
	} else if !ValidBatchCode(b.BatchCode) {
		details["batch_code"] = "must match format BATCH-YYYY-MM-NNNN"
	}
	if b.ExpiryDate.IsZero() {
		details["expiry_date"] = "this field is required"
	}
	if b.Quantity < 0 {
		details["quantity"] = "must not be negative"
	}
	if b.PurchasePrice.IsNegative() {
		details["purchase_price"] = "must not be negative"
	}

	if len(details) > 0 {
		return errors.Validation(details)
	}
	return nil
}

// ValidateSaleLine checks a single sale line before allocation.
func ValidateSaleLine(medicineID, batchID string, quantity int, salePrice decimal.Decimal) error {
	details := make(map[string]string)

	if medicineID == "" {
		details["medicine_id"] = "this field is required"
	}
	if batchID == "" {
		details["batch_id"] = "this field is required"
	}
	if quantity <= 0 {
		details["quantity_sold"] = "must be greater than 0"
	}
	if salePrice.IsNegative() {
		details["sale_price"] = "must not be negative"
	}

	if len(details) > 0 {
		return errors.Validation(details)
	}
	return nil
}

// ValidateSupplier checks the supplier invariants.
func ValidateSupplier(s *domain.Supplier) error {
	details := make(map[string]string)

	if s.Name == "" {
		details["name"] = "this field is required"
	}
	if s.ReliabilityRating.IsNegative() || s.ReliabilityRating.GreaterThan(ratingMax) {
		details["reliability_rating"] = "must be between 0 and 5"
	}

	if len(details) > 0 {
		return errors.Validation(details)
	}
	return nil
}

func validDosageForm(form string) bool {
	for _, f := range domain.DosageForms {
		if form == f {
			return true
		}
	}
	return false
}
