package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance
type PostgresContainer struct {
	*postgres.PostgresContainer
	DSN string
}

// PostgresContainerConfig configures the test PostgreSQL container
type PostgresContainerConfig struct {
	Database string
	Username string
	Password string
	Image    string // Optional: defaults to postgres:15-alpine
}

// DefaultPostgresConfig returns sensible defaults for test containers
func DefaultPostgresConfig() PostgresContainerConfig {
	return PostgresContainerConfig{
		Database: "pharmatrack_test",
		Username: "test",
		Password: "test",
		Image:    "postgres:15-alpine",
	}
}

// NewPostgresContainer creates a new PostgreSQL test container.
func NewPostgresContainer(ctx context.Context, cfg PostgresContainerConfig) (*PostgresContainer, error) {
	if cfg.Image == "" {
		cfg.Image = "postgres:15-alpine"
	}
	if cfg.Database == "" {
		cfg.Database = "pharmatrack_test"
	}
	if cfg.Username == "" {
		cfg.Username = "test"
	}
	if cfg.Password == "" {
		cfg.Password = "test"
	}

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage(cfg.Image),
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PostgresContainer{
		PostgresContainer: container,
		DSN:               dsn,
	}, nil
}

// Connect returns a sqlx.DB connection to the container
func (c *PostgresContainer) Connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", c.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	return db, nil
}

// Terminate stops and removes the container
func (c *PostgresContainer) Terminate(ctx context.Context) error {
	return c.PostgresContainer.Terminate(ctx)
}

// CreatePharmacySchema creates the pharmacy inventory tables. The check and
// unique constraint names are load-bearing: the error mapper keys on them.
func (c *PostgresContainer) CreatePharmacySchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS suppliers (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			contact_person VARCHAR(255),
			phone VARCHAR(50),
			email VARCHAR(255),
			reliability_rating NUMERIC(3,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT suppliers_rating_range CHECK (reliability_rating >= 0 AND reliability_rating <= 5)
		);

		CREATE TABLE IF NOT EXISTS medicines (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			generic_name VARCHAR(255),
			description TEXT,
			category VARCHAR(100) NOT NULL,
			manufacturer VARCHAR(255),
			dosage_form VARCHAR(20) NOT NULL,
			barcode VARCHAR(100),
			unit_price NUMERIC(12,2) NOT NULL DEFAULT 0,
			reorder_level INTEGER NOT NULL DEFAULT 0,
			supplier_id UUID REFERENCES suppliers(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT medicines_barcode_unique UNIQUE (barcode),
			CONSTRAINT medicines_price_non_negative CHECK (unit_price >= 0),
			CONSTRAINT medicines_reorder_non_negative CHECK (reorder_level >= 0),
			CONSTRAINT medicines_dosage_form_valid CHECK (dosage_form IN (
				'tablet', 'capsule', 'syrup', 'injection', 'cream',
				'drops', 'inhaler', 'powder', 'other'
			))
		);

		CREATE TABLE IF NOT EXISTS stock_batches (
			id UUID PRIMARY KEY,
			medicine_id UUID NOT NULL REFERENCES medicines(id),
			batch_code VARCHAR(30) NOT NULL,
			expiry_date DATE NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 0,
			purchase_price NUMERIC(12,2) NOT NULL DEFAULT 0,
			supplier_id UUID REFERENCES suppliers(id) ON DELETE SET NULL,
			received_date DATE NOT NULL DEFAULT CURRENT_DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT stock_batches_batch_code_unique UNIQUE (batch_code),
			CONSTRAINT stock_batches_quantity_non_negative CHECK (quantity >= 0),
			CONSTRAINT stock_batches_price_non_negative CHECK (purchase_price >= 0)
		);

		CREATE TABLE IF NOT EXISTS sales (
			id UUID PRIMARY KEY,
			medicine_id UUID NOT NULL REFERENCES medicines(id),
			batch_id UUID NOT NULL REFERENCES stock_batches(id),
			quantity_sold INTEGER NOT NULL,
			sale_price NUMERIC(12,2) NOT NULL DEFAULT 0,
			sale_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT sales_quantity_positive CHECK (quantity_sold > 0),
			CONSTRAINT sales_price_non_negative CHECK (sale_price >= 0)
		);

		CREATE INDEX IF NOT EXISTS idx_stock_batches_medicine ON stock_batches(medicine_id);
		CREATE INDEX IF NOT EXISTS idx_stock_batches_expiry ON stock_batches(expiry_date);
		CREATE INDEX IF NOT EXISTS idx_sales_medicine ON sales(medicine_id);
		CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(sale_date);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create pharmacy schema: %w", err)
	}
	return nil
}

// TruncateAll clears every pharmacy table between tests.
func (c *PostgresContainer) TruncateAll(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `TRUNCATE sales, stock_batches, medicines, suppliers CASCADE`)
	return err
}
