package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/pkg/database"
)

// SaleFilter narrows a sales listing.
type SaleFilter struct {
	MedicineID string
	From       time.Time
	To         time.Time
}

// SaleRepository handles the append-only sales ledger. There is no update or
// delete; corrections are new compensating records.
type SaleRepository struct {
	db *database.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *database.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// Insert appends a sale record. It runs on whatever execution context the
// caller holds so the allocator can include it in the decrement transaction.
func (r *SaleRepository) Insert(ctx context.Context, ec sqlx.ExtContext, s *domain.Sale) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.SaleDate.IsZero() {
		s.SaleDate = time.Now().UTC()
	}

	query := `
		INSERT INTO sales (
			id, medicine_id, batch_id, quantity_sold, sale_price, sale_date
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := ec.QueryRowxContext(ctx, query,
		s.ID, s.MedicineID, s.BatchID, s.QuantitySold, s.SalePrice, s.SaleDate,
	).Scan(&s.CreatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// List lists sales matching the filter, newest first.
func (r *SaleRepository) List(ctx context.Context, filter SaleFilter) ([]*domain.Sale, error) {
	var (
		conditions []string
		args       []any
	)

	if filter.MedicineID != "" {
		args = append(args, filter.MedicineID)
		conditions = append(conditions, fmt.Sprintf("medicine_id = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conditions = append(conditions, fmt.Sprintf("sale_date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conditions = append(conditions, fmt.Sprintf("sale_date <= $%d", len(args)))
	}

	query := `SELECT * FROM sales`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sale_date DESC"

	sales := []*domain.Sale{}
	if err := r.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, err
	}
	return sales, nil
}

// ListSince lists every sale on or after the given instant.
func (r *SaleRepository) ListSince(ctx context.Context, since time.Time) ([]*domain.Sale, error) {
	sales := []*domain.Sale{}
	query := `SELECT * FROM sales WHERE sale_date >= $1 ORDER BY sale_date DESC`
	if err := r.db.SelectContext(ctx, &sales, query, since); err != nil {
		return nil, err
	}
	return sales, nil
}
