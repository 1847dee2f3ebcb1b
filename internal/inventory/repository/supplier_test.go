package repository_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/domain"
	"github.com/pharmatrack/pharmatrack-backend/internal/inventory/repository"
	"github.com/pharmatrack/pharmatrack-backend/pkg/errors"
)

func TestSupplierRepository_CRUD(t *testing.T) {
	ctx := skipShort(t)
	repo := repository.NewSupplierRepository(suite.DB)

	s := &domain.Supplier{
		Name:              "MediSupply Ltd",
		ContactPerson:     strPtr("Dana Reyes"),
		Phone:             strPtr("+49 30 1234567"),
		Email:             strPtr("orders@medisupply.example"),
		ReliabilityRating: decimal.RequireFromString("4.50"),
	}
	require.NoError(t, repo.Create(ctx, s))
	assert.NotEmpty(t, s.ID)

	got, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "MediSupply Ltd", got.Name)
	assert.True(t, got.ReliabilityRating.Equal(decimal.RequireFromString("4.5")))

	got.ReliabilityRating = decimal.RequireFromString("3.75")
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, updated.ReliabilityRating.Equal(decimal.RequireFromString("3.75")))

	require.NoError(t, repo.Delete(ctx, s.ID))
	_, err = repo.GetByID(ctx, s.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

// Deleting a supplier detaches its medicines instead of cascading.
func TestSupplierRepository_DeleteDetachesMedicines(t *testing.T) {
	ctx := skipShort(t)
	supRepo := repository.NewSupplierRepository(suite.DB)
	medRepo := repository.NewMedicineRepository(suite.DB)

	sup := &domain.Supplier{
		Name:              "MediSupply Ltd",
		ReliabilityRating: decimal.RequireFromString("4"),
	}
	require.NoError(t, supRepo.Create(ctx, sup))

	m := createTestMedicine(t, ctx, medRepo, "Amoxicillin 500mg")
	m.SupplierID = &sup.ID
	require.NoError(t, medRepo.Update(ctx, m))

	require.NoError(t, supRepo.Delete(ctx, sup.ID))

	got, err := medRepo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SupplierID)
}

func TestSupplierRepository_RatingConstraint(t *testing.T) {
	ctx := skipShort(t)
	repo := repository.NewSupplierRepository(suite.DB)

	err := repo.Create(ctx, &domain.Supplier{
		Name:              "Shady Imports",
		ReliabilityRating: decimal.RequireFromString("9.99"),
	})
	require.Error(t, err)
}
