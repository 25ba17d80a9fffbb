package sales

import (
	"context"
	"testing"
	"time"

	"github.com/clinistock/backend/pkg/db/models"
	"github.com/clinistock/backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func mustCreateSale(t *testing.T, db *gorm.DB, clinic string, soldAt time.Time, quantity int) *models.Sale {
	t.Helper()

	sale := &models.Sale{
		ID:           uuid.New(),
		MedicineID:   uuid.New(),
		MedicineName: "Panadol",
		Clinic:       clinic,
		Quantity:     quantity,
		Rate:         decimal.NewFromInt(8),
		Total:        decimal.NewFromInt(int64(quantity * 8)),
		SoldBy:       "u1",
		SoldByName:   "Alice",
		SoldAt:       soldAt,
	}
	require.NoError(t, db.Create(sale).Error)
	return sale
}

func TestListByRangeOrdersDescending(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	older := mustCreateSale(t, db, "Clinic1", base, 1)
	newer := mustCreateSale(t, db, "Clinic1", base.Add(2*time.Hour), 2)
	mustCreateSale(t, db, "Clinic2", base.Add(time.Hour), 3)

	sales, err := repo.ListByRange(ctx, "Clinic1", base.Add(-time.Hour), base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, newer.ID, sales[0].ID)
	assert.Equal(t, older.ID, sales[1].ID)
}

func TestListByRangeInclusiveBounds(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	from := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC)

	mustCreateSale(t, db, "Clinic1", from, 1)
	mustCreateSale(t, db, "Clinic1", to, 2)
	mustCreateSale(t, db, "Clinic1", to.Add(time.Second), 3)

	sales, err := repo.ListByRange(ctx, "Clinic1", from, to)
	require.NoError(t, err)
	assert.Len(t, sales, 2)
}

func TestListPagePaginatesWithCursor(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mustCreateSale(t, db, "Clinic1", base.Add(time.Duration(i)*time.Minute), i+1)
	}

	first, err := repo.ListPage(ctx, "Clinic1", time.Time{}, time.Time{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Sales, 2)
	require.NotNil(t, first.NextCursor)
	assert.Equal(t, 5, first.Sales[0].Quantity, "newest sale first")

	second, err := repo.ListPage(ctx, "Clinic1", time.Time{}, time.Time{}, pagination.Params{
		Limit:  2,
		Cursor: *first.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, second.Sales, 2)
	require.NotNil(t, second.NextCursor)
	assert.Equal(t, 3, second.Sales[0].Quantity)

	third, err := repo.ListPage(ctx, "Clinic1", time.Time{}, time.Time{}, pagination.Params{
		Limit:  2,
		Cursor: *second.NextCursor,
	})
	require.NoError(t, err)
	require.Len(t, third.Sales, 1)
	assert.Nil(t, third.NextCursor)
}

func TestListPageRejectsBadCursor(t *testing.T) {
	db := setupSalesTestDB(t)
	repo := NewRepository(db)

	_, err := repo.ListPage(context.Background(), "Clinic1", time.Time{}, time.Time{}, pagination.Params{
		Cursor: "not-base64!!!",
	})
	require.Error(t, err)
}
