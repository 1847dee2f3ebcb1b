package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/pkg/database"
	"github.com/pharmatrack/pharmatrack-backend/pkg/errors"
)

// SupplierRepository handles supplier persistence
type SupplierRepository struct {
	db *database.DB
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *database.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// Create creates a new supplier
func (r *SupplierRepository) Create(ctx context.Context, s *domain.Supplier) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	query := `
		INSERT INTO suppliers (
			id, name, contact_person, phone, email, reliability_rating
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.Name, s.ContactPerson, s.Phone, s.Email, s.ReliabilityRating,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// GetByID gets a supplier by ID
func (r *SupplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	var s domain.Supplier
	query := `SELECT * FROM suppliers WHERE id = $1`
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("supplier")
		}
		return nil, err
	}
	return &s, nil
}

// ListAll lists every supplier, name-ordered.
func (r *SupplierRepository) ListAll(ctx context.Context) ([]*domain.Supplier, error) {
	suppliers := []*domain.Supplier{}
	query := `SELECT * FROM suppliers ORDER BY name`
	if err := r.db.SelectContext(ctx, &suppliers, query); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Update updates a supplier
func (r *SupplierRepository) Update(ctx context.Context, s *domain.Supplier) error {
	query := `
		UPDATE suppliers SET
			name = $2, contact_person = $3, phone = $4, email = $5,
			reliability_rating = $6, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.ContactPerson, s.Phone, s.Email, s.ReliabilityRating,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("supplier")
	}
	return nil
}

// Delete deletes a supplier. Medicines and batches keep a nullable reference,
// so deletion detaches rather than cascades.
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM suppliers WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("supplier")
	}
	return nil
}
