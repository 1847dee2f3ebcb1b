package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/pkg/database"
	"github.com/pharmatrack/pharmatrack-backend/pkg/errors"
)

// BatchRepository handles stock batch persistence
type BatchRepository struct {
	db *database.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *database.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// Create creates a new stock batch
func (r *BatchRepository) Create(ctx context.Context, b *domain.StockBatch) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	query := `
		INSERT INTO stock_batches (
			id, medicine_id, batch_code, expiry_date, quantity,
			purchase_price, supplier_id, received_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		b.ID, b.MedicineID, b.BatchCode, b.ExpiryDate, b.Quantity,
		b.PurchasePrice, b.SupplierID, b.ReceivedDate,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// GetByID gets a batch by ID
func (r *BatchRepository) GetByID(ctx context.Context, id string) (*domain.StockBatch, error) {
	return getBatch(ctx, r.db, id, false)
}

// GetForUpdate locks and returns a batch inside the given transaction.
func (r *BatchRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*domain.StockBatch, error) {
	return getBatch(ctx, tx, id, true)
}

func getBatch(ctx context.Context, q sqlx.QueryerContext, id string, forUpdate bool) (*domain.StockBatch, error) {
	query := `SELECT * FROM stock_batches WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var b domain.StockBatch
	if err := sqlx.GetContext(ctx, q, &b, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("stock batch")
		}
		return nil, err
	}
	return &b, nil
}

// ListByMedicine lists batches for a medicine, soonest expiry first.
func (r *BatchRepository) ListByMedicine(ctx context.Context, medicineID string) ([]*domain.StockBatch, error) {
	batches := []*domain.StockBatch{}
	query := `SELECT * FROM stock_batches WHERE medicine_id = $1 ORDER BY expiry_date`
	if err := r.db.SelectContext(ctx, &batches, query, medicineID); err != nil {
		return nil, err
	}
	return batches, nil
}

// ListAll lists every batch, soonest expiry first.
func (r *BatchRepository) ListAll(ctx context.Context) ([]*domain.StockBatch, error) {
	batches := []*domain.StockBatch{}
	query := `SELECT * FROM stock_batches ORDER BY expiry_date`
	if err := r.db.SelectContext(ctx, &batches, query); err != nil {
		return nil, err
	}
	return batches, nil
}

// Update updates a batch's mutable fields. Quantity changes go through
// DecrementQuantity or AdjustQuantity, never through here.
func (r *BatchRepository) Update(ctx context.Context, b *domain.StockBatch) error {
	query := `
		UPDATE stock_batches SET
			batch_code = $2, expiry_date = $3, purchase_price = $4,
			supplier_id = $5, received_date = $6, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		b.ID, b.BatchCode, b.ExpiryDate, b.PurchasePrice, b.SupplierID, b.ReceivedDate,
	)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("stock batch")
	}
	return nil
}

// Delete deletes a batch
func (r *BatchRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM stock_batches WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			if errors.Is(appErr, errors.ErrBadRequest) {
				return errors.Conflict("stock batch is referenced by sales")
			}
			return appErr
		}
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("stock batch")
	}
	return nil
}

// DecrementQuantity deducts qty from a batch only if enough stock remains.
// The guard lives in the statement itself so concurrent allocations can never
// drive the quantity negative. Returns false when the batch was not
// decremented, either because it is short on stock or does not exist.
func (r *BatchRepository) DecrementQuantity(ctx context.Context, ec sqlx.ExecerContext, batchID string, qty int) (bool, error) {
	query := `
		UPDATE stock_batches
		SET quantity = quantity - $2, updated_at = NOW()
		WHERE id = $1 AND quantity >= $2
	`

	result, err := ec.ExecContext(ctx, query, batchID, qty)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// AdjustQuantity sets a batch's quantity to an absolute value. Administrative
// corrections only; the check constraint rejects negative targets.
func (r *BatchRepository) AdjustQuantity(ctx context.Context, batchID string, qty int) (*domain.StockBatch, error) {
	query := `
		UPDATE stock_batches
		SET quantity = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`

	var b domain.StockBatch
	if err := r.db.GetContext(ctx, &b, query, batchID, qty); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("stock batch")
		}
		if appErr := database.MapPQError(err); appErr != nil {
			return nil, appErr
		}
		return nil, err
	}
	return &b, nil
}

// GetTotalStock sums the on-hand quantity across every batch of a medicine,
// expired batches included.
func (r *BatchRepository) GetTotalStock(ctx context.Context, medicineID string) (int, error) {
	var total sql.NullInt64
	query := `SELECT SUM(quantity) FROM stock_batches WHERE medicine_id = $1`
	if err := r.db.GetContext(ctx, &total, query, medicineID); err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return int(total.Int64), nil
}

// ListBatchCodes returns the batch codes already taken for a year-month
// prefix, for collision-free code generation.
func (r *BatchRepository) ListBatchCodes(ctx context.Context, prefix string) (map[string]struct{}, error) {
	var codes []string
	query := `SELECT batch_code FROM stock_batches WHERE batch_code LIKE $1`
	if err := r.db.SelectContext(ctx, &codes, query, prefix+"%"); err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		taken[c] = struct{}{}
	}
	return taken, nil
}
