package sales

import (
	"context"
	"testing"
	"time"

	"github.com/clinistock/backend/internal/medicines"
	"github.com/clinistock/backend/pkg/config"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSalesService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(
		NewRepository(db),
		medicines.NewRepository(db),
		gormTxRunner{db: db},
		config.ReportConfig{Timezone: "UTC"},
		nil,
	)
	require.NoError(t, err)
	return svc
}

func TestRecordSaleDecrementsStockAndStoresTotal(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	price := decimal.NewFromInt(5)
	medicine := mustCreateMedicine(t, db, "Panadol", "Clinic1", 100, &price)

	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		MedicineID: medicine.ID,
		Quantity:   10,
		Rate:       decimal.NewFromInt(8),
		SoldBy:     "u1",
		SoldByName: "Alice",
	})
	require.NoError(t, err)

	assert.True(t, sale.Total.Equal(decimal.NewFromInt(80)), "total should be quantity*rate, got %s", sale.Total)
	assert.Equal(t, "Panadol", sale.MedicineName)
	assert.Equal(t, "Clinic1", sale.Clinic)
	assert.Equal(t, 90, medicineQuantity(t, db, medicine.ID))
}

func TestRecordSaleBackdatesWhenSoldAtSupplied(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	medicine := mustCreateMedicine(t, db, "Panadol", "Clinic1", 100, nil)
	soldAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		MedicineID: medicine.ID,
		Quantity:   1,
		Rate:       decimal.NewFromInt(8),
		SoldAt:     &soldAt,
	})
	require.NoError(t, err)
	assert.True(t, sale.SoldAt.Equal(soldAt))
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	medicine := mustCreateMedicine(t, db, "Panadol", "Clinic1", 100, nil)

	_, err := svc.RecordSale(ctx, RecordSaleInput{
		MedicineID: medicine.ID,
		Quantity:   120,
		Rate:       decimal.NewFromInt(8),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	assert.Equal(t, 100, medicineQuantity(t, db, medicine.ID), "rejected sale must not change stock")
}

func TestRecordSaleMissingMedicine(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	_, err := svc.RecordSale(context.Background(), RecordSaleInput{
		MedicineID: uuid.New(),
		Quantity:   1,
		Rate:       decimal.NewFromInt(1),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestRecordSaleValidatesInput(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RecordSaleInput
	}{
		{"missing medicine id", RecordSaleInput{Quantity: 1, Rate: decimal.NewFromInt(1)}},
		{"zero quantity", RecordSaleInput{MedicineID: uuid.New(), Rate: decimal.NewFromInt(1)}},
		{"negative rate", RecordSaleInput{MedicineID: uuid.New(), Quantity: 1, Rate: decimal.NewFromInt(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.RecordSale(ctx, tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	medicine := mustCreateMedicine(t, db, "Panadol", "Clinic1", 100, nil)

	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		MedicineID: medicine.ID,
		Quantity:   10,
		Rate:       decimal.NewFromInt(8),
	})
	require.NoError(t, err)
	require.Equal(t, 90, medicineQuantity(t, db, medicine.ID))

	require.NoError(t, svc.DeleteSale(ctx, sale.ID))
	assert.Equal(t, 100, medicineQuantity(t, db, medicine.ID))

	err = svc.DeleteSale(ctx, sale.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDeleteSaleWithDeletedMedicineIsSoftNoop(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	medicine := mustCreateMedicine(t, db, "Panadol", "Clinic1", 100, nil)

	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		MedicineID: medicine.ID,
		Quantity:   10,
		Rate:       decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec("DELETE FROM medicines WHERE id = ?", medicine.ID).Error)

	require.NoError(t, svc.DeleteSale(ctx, sale.ID))

	_, err = NewRepository(db).FindByID(ctx, sale.ID)
	assert.Error(t, err)
}

func TestEditSaleRateOnlyKeepsStock(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	medicine := mustCreateMedicine(t, db, "Panadol", "Clinic1", 100, nil)

	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		MedicineID: medicine.ID,
		Quantity:   10,
		Rate:       decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	edited, err := svc.EditSale(ctx, sale.ID, EditSaleInput{
		Quantity: 10,
		Rate:     decimal.NewFromInt(12),
	})
	require.NoError(t, err)

	assert.Equal(t, 90, medicineQuantity(t, db, medicine.ID), "same-quantity edit must not move stock")
	assert.True(t, edited.Total.Equal(decimal.NewFromInt(120)))
}

func TestEditSaleQuantityChangeAdjustsStockByDifference(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	medicine := mustCreateMedicine(t, db, "Panadol", "Clinic1", 100, nil)

	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		MedicineID: medicine.ID,
		Quantity:   10,
		Rate:       decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	_, err = svc.EditSale(ctx, sale.ID, EditSaleInput{
		Quantity: 25,
		Rate:     decimal.NewFromInt(8),
	})
	require.NoError(t, err)
	assert.Equal(t, 75, medicineQuantity(t, db, medicine.ID))

	_, err = svc.EditSale(ctx, sale.ID, EditSaleInput{
		Quantity: 5,
		Rate:     decimal.NewFromInt(8),
	})
	require.NoError(t, err)
	assert.Equal(t, 95, medicineQuantity(t, db, medicine.ID))
}

func TestEditSaleToNewMedicineMovesStock(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	first := mustCreateMedicine(t, db, "Panadol", "Clinic1", 100, nil)
	second := mustCreateMedicine(t, db, "Brufen", "Clinic1", 50, nil)

	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		MedicineID: first.ID,
		Quantity:   10,
		Rate:       decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	edited, err := svc.EditSale(ctx, sale.ID, EditSaleInput{
		MedicineID: &second.ID,
		Quantity:   5,
		Rate:       decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	assert.Equal(t, 100, medicineQuantity(t, db, first.ID), "old medicine stock fully restored")
	assert.Equal(t, 45, medicineQuantity(t, db, second.ID))
	assert.Equal(t, second.ID, edited.MedicineID)
	assert.Equal(t, "Brufen", edited.MedicineName)
}

func TestEditSaleToNewMedicineEnforcesStockAndRollsBack(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	first := mustCreateMedicine(t, db, "Panadol", "Clinic1", 100, nil)
	second := mustCreateMedicine(t, db, "Brufen", "Clinic1", 3, nil)

	sale, err := svc.RecordSale(ctx, RecordSaleInput{
		MedicineID: first.ID,
		Quantity:   10,
		Rate:       decimal.NewFromInt(8),
	})
	require.NoError(t, err)

	_, err = svc.EditSale(ctx, sale.ID, EditSaleInput{
		MedicineID: &second.ID,
		Quantity:   5,
		Rate:       decimal.NewFromInt(8),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	assert.Equal(t, 90, medicineQuantity(t, db, first.ID), "failed edit must roll back the restoration")
	assert.Equal(t, 3, medicineQuantity(t, db, second.ID))

	reloaded, err := NewRepository(db).FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Quantity, "failed edit must not change the sale")
}

func TestEditSaleMissingSale(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)

	_, err := svc.EditSale(context.Background(), uuid.New(), EditSaleInput{
		Quantity: 1,
		Rate:     decimal.NewFromInt(1),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSalesByDateFiltersWindow(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	medicine := mustCreateMedicine(t, db, "Panadol", "Clinic1", 100, nil)

	inWindow := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	outOfWindow := time.Date(2025, 6, 16, 0, 30, 0, 0, time.UTC)

	_, err := svc.RecordSale(ctx, RecordSaleInput{
		MedicineID: medicine.ID, Quantity: 1, Rate: decimal.NewFromInt(8), SoldAt: &inWindow,
	})
	require.NoError(t, err)
	_, err = svc.RecordSale(ctx, RecordSaleInput{
		MedicineID: medicine.ID, Quantity: 2, Rate: decimal.NewFromInt(8), SoldAt: &outOfWindow,
	})
	require.NoError(t, err)

	sales, err := svc.SalesByDate(ctx, "Clinic1", "2025-06-15", "UTC")
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, 1, sales[0].Quantity)

	_, err = svc.SalesByDate(ctx, "Clinic1", "15-06-2025", "")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSalesByMonthCoversWholeMonth(t *testing.T) {
	db := setupSalesTestDB(t)
	svc := newSalesService(t, db)
	ctx := context.Background()

	medicine := mustCreateMedicine(t, db, "Panadol", "Clinic1", 100, nil)

	juneStart := time.Date(2025, 6, 1, 0, 0, 1, 0, time.UTC)
	juneEnd := time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)
	july := time.Date(2025, 7, 1, 0, 0, 1, 0, time.UTC)

	for _, soldAt := range []time.Time{juneStart, juneEnd, july} {
		at := soldAt
		_, err := svc.RecordSale(ctx, RecordSaleInput{
			MedicineID: medicine.ID, Quantity: 1, Rate: decimal.NewFromInt(8), SoldAt: &at,
		})
		require.NoError(t, err)
	}

	sales, err := svc.SalesByMonth(ctx, "Clinic1", "2025-06")
	require.NoError(t, err)
	assert.Len(t, sales, 2)
}
