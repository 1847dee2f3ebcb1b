package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/pharmatrack/pharmatrack-backend/pkg/database"
	"github.com/pharmatrack/pharmatrack-backend/pkg/logger"
)

var (
	// Shared test container across all integration tests
	globalContainer *PostgresContainer
	globalDB        *sqlx.DB
	containerOnce   sync.Once
	containerErr    error
)

// IntegrationSuite provides a base for integration tests with real PostgreSQL
type IntegrationSuite struct {
	Container *PostgresContainer
	RawDB     *sqlx.DB
	DB        *database.DB
	Logger    *logger.Logger
}

// NewIntegrationSuite creates a new integration test suite.
// Call this in TestMain to set up shared test infrastructure.
//
// Usage:
//
//	var suite *testutil.IntegrationSuite
//
//	func TestMain(m *testing.M) {
//	    if testing.Short() {
//	        os.Exit(m.Run())
//	    }
//	    ctx := context.Background()
//	    s, err := testutil.NewIntegrationSuite(ctx)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    suite = s
//	    defer suite.Cleanup(ctx)
//	    os.Exit(m.Run())
//	}
func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	container, db, err := getOrCreateContainer(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New("test", "test")
	wrappedDB, err := database.NewWithDSN(container.DSN, log)
	if err != nil {
		return nil, err
	}

	if err := container.CreatePharmacySchema(ctx, db); err != nil {
		return nil, err
	}

	return &IntegrationSuite{
		Container: container,
		RawDB:     db,
		DB:        wrappedDB,
		Logger:    log,
	}, nil
}

func getOrCreateContainer(ctx context.Context) (*PostgresContainer, *sqlx.DB, error) {
	containerOnce.Do(func() {
		globalContainer, containerErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if containerErr != nil {
			return
		}
		globalDB, containerErr = globalContainer.Connect(ctx)
	})

	return globalContainer, globalDB, containerErr
}

// Reset truncates every table so a test starts from a clean slate.
func (s *IntegrationSuite) Reset(t *testing.T, ctx context.Context) {
	t.Helper()
	if err := s.Container.TruncateAll(ctx, s.RawDB); err != nil {
		t.Fatalf("failed to reset test database: %v", err)
	}
}

// Cleanup tears down the suite's connections. The shared container itself is
// reclaimed by testcontainers' reaper.
func (s *IntegrationSuite) Cleanup(ctx context.Context) {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.RawDB != nil {
		s.RawDB.Close()
	}
}

// TerminateContainer stops the shared container explicitly, for packages that
// do not want to wait for the reaper.
func TerminateContainer(ctx context.Context) {
	if globalContainer != nil {
		globalContainer.Terminate(ctx)
	}
}
