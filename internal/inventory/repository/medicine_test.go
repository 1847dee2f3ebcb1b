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

func TestMedicineRepository_CreateAndGet(t *testing.T) {
	ctx := skipShort(t)
	repo := repository.NewMedicineRepository(suite.DB)

	m := &domain.Medicine{
		Name:         "Amoxicillin 500mg",
		GenericName:  strPtr("Amoxicillin"),
		Category:     "Antibiotics",
		Manufacturer: strPtr("Cipla"),
		DosageForm:   domain.DosageCapsule,
		Barcode:      strPtr("8901234567890"),
		UnitPrice:    decimal.RequireFromString("2.50"),
		ReorderLevel: 20,
	}
	require.NoError(t, repo.Create(ctx, m))
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amoxicillin 500mg", got.Name)
	require.NotNil(t, got.GenericName)
	assert.Equal(t, "Amoxicillin", *got.GenericName)
	assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString("2.50")))
}

func TestMedicineRepository_GetByIDNotFound(t *testing.T) {
	ctx := skipShort(t)
	repo := repository.NewMedicineRepository(suite.DB)

	_, err := repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestMedicineRepository_DuplicateBarcode(t *testing.T) {
	ctx := skipShort(t)
	repo := repository.NewMedicineRepository(suite.DB)

	first := createTestMedicine(t, ctx, repo, "Paracetamol 500mg")
	first.Barcode = strPtr("111222333")
	require.NoError(t, repo.Update(ctx, first))

	dup := &domain.Medicine{
		Name:       "Paracetamol Copy",
		Category:   "Analgesics",
		DosageForm: domain.DosageTablet,
		Barcode:    strPtr("111222333"),
		UnitPrice:  decimal.Zero,
	}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestMedicineRepository_ListFilters(t *testing.T) {
	ctx := skipShort(t)
	repo := repository.NewMedicineRepository(suite.DB)

	createTestMedicine(t, ctx, repo, "Amoxicillin 500mg")
	createTestMedicine(t, ctx, repo, "Azithromycin 250mg")
	other := &domain.Medicine{
		Name:       "Cetirizine 10mg",
		Category:   "Antihistamines",
		DosageForm: domain.DosageTablet,
		UnitPrice:  decimal.RequireFromString("0.50"),
	}
	require.NoError(t, repo.Create(ctx, other))

	byCategory, err := repo.List(ctx, repository.MedicineFilter{Category: "Antibiotics"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	bySearch, err := repo.List(ctx, repository.MedicineFilter{Search: "amoxi"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Amoxicillin 500mg", bySearch[0].Name)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	// Name-ordered
	assert.Equal(t, "Amoxicillin 500mg", all[0].Name)
}

func TestMedicineRepository_UpdateAndDelete(t *testing.T) {
	ctx := skipShort(t)
	repo := repository.NewMedicineRepository(suite.DB)

	m := createTestMedicine(t, ctx, repo, "Ibuprofen 200mg")
	m.ReorderLevel = 35
	m.UnitPrice = decimal.RequireFromString("0.80")
	require.NoError(t, repo.Update(ctx, m))

	got, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 35, got.ReorderLevel)

	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err = repo.GetByID(ctx, m.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = repo.Delete(ctx, m.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestMedicineRepository_DeleteReferencedByBatch(t *testing.T) {
	ctx := skipShort(t)
	medRepo := repository.NewMedicineRepository(suite.DB)
	batchRepo := repository.NewBatchRepository(suite.DB)

	m := createTestMedicine(t, ctx, medRepo, "Insulin Glargine")
	createTestBatch(t, ctx, batchRepo, m.ID, "BATCH-2026-08-1001", 10, farFuture())

	err := medRepo.Delete(ctx, m.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}
