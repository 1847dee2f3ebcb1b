// Package repository persists the pharmacy inventory entities in PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/pkg/database"
	"github.com/pharmatrack/pharmatrack-backend/pkg/errors"
)

// MedicineFilter narrows a medicine listing.
type MedicineFilter struct {
	Search     string
	Category   string
	DosageForm string
}

// MedicineRepository handles medicine persistence
type MedicineRepository struct {
	db *database.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *database.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

// Create creates a new medicine
func (r *MedicineRepository) Create(ctx context.Context, m *domain.Medicine) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}

	query := `
		INSERT INTO medicines (
			id, name, generic_name, description, category, manufacturer,
			dosage_form, barcode, unit_price, reorder_level, supplier_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		m.ID, m.Name, m.GenericName, m.Description, m.Category, m.Manufacturer,
		m.DosageForm, m.Barcode, m.UnitPrice, m.ReorderLevel, m.SupplierID,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// GetByID gets a medicine by ID
func (r *MedicineRepository) GetByID(ctx context.Context, id string) (*domain.Medicine, error) {
	var m domain.Medicine
	query := `SELECT * FROM medicines WHERE id = $1`
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("medicine")
		}
		return nil, err
	}
	return &m, nil
}

// List lists medicines matching the filter, name-ordered.
func (r *MedicineRepository) List(ctx context.Context, filter MedicineFilter) ([]*domain.Medicine, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR generic_name ILIKE $%d)", n, n))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.DosageForm != "" {
		args = append(args, filter.DosageForm)
		conditions = append(conditions, fmt.Sprintf("dosage_form = $%d", len(args)))
	}

	query := `SELECT * FROM medicines`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name"

	medicines := []*domain.Medicine{}
	if err := r.db.SelectContext(ctx, &medicines, query, args...); err != nil {
		return nil, err
	}
	return medicines, nil
}

// ListAll lists every medicine, name-ordered.
func (r *MedicineRepository) ListAll(ctx context.Context) ([]*domain.Medicine, error) {
	return r.List(ctx, MedicineFilter{})
}

// Update updates a medicine
func (r *MedicineRepository) Update(ctx context.Context, m *domain.Medicine) error {
	query := `
		UPDATE medicines SET
			name = $2, generic_name = $3, description = $4, category = $5,
			manufacturer = $6, dosage_form = $7, barcode = $8, unit_price = $9,
			reorder_level = $10, supplier_id = $11, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		m.ID, m.Name, m.GenericName, m.Description, m.Category, m.Manufacturer,
		m.DosageForm, m.Barcode, m.UnitPrice, m.ReorderLevel, m.SupplierID,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("medicine")
	}
	return nil
}

// Delete deletes a medicine. Fails with a conflict while stock batches or
// sales still reference it.
func (r *MedicineRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM medicines WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			if errors.Is(appErr, errors.ErrBadRequest) {
				return errors.Conflict("medicine is referenced by stock batches or sales")
			}
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("medicine")
	}
	return nil
}
