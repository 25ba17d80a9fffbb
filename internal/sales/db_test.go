package sales

import (
	"context"
	"fmt"
	"testing"

	"github.com/clinistock/backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSalesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:sales_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	medicines := `
CREATE TABLE IF NOT EXISTS medicines (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  quantity INTEGER NOT NULL DEFAULT 0,
  purchase_price NUMERIC,
  expiry_date DATETIME,
  clinic TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	sales := `
CREATE TABLE IF NOT EXISTS sales (
  id TEXT PRIMARY KEY,
  medicine_id TEXT NOT NULL,
  medicine_name TEXT NOT NULL,
  clinic TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  rate NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  sold_by TEXT NOT NULL,
  sold_by_name TEXT NOT NULL,
  sold_at DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(medicines).Error)
	require.NoError(t, db.Exec(sales).Error)
	return db
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func mustCreateMedicine(t *testing.T, db *gorm.DB, name, clinic string, quantity int, price *decimal.Decimal) *models.Medicine {
	t.Helper()

	medicine := &models.Medicine{
		ID:       uuid.New(),
		Name:     name,
		Clinic:   clinic,
		Quantity: quantity,
	}
	if price != nil {
		medicine.PurchasePrice = decimal.NewNullDecimal(*price)
	}
	require.NoError(t, db.Create(medicine).Error)
	return medicine
}

func medicineQuantity(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()

	var medicine models.Medicine
	require.NoError(t, db.First(&medicine, "id = ?", id).Error)
	return medicine.Quantity
}
