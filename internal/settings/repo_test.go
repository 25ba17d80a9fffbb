package settings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clinistock/backend/pkg/db/models"
)

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:settings_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	settings := `
CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_by TEXT,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(settings).Error)
	return db
}

func TestUpsertInsertsThenOverwrites(t *testing.T) {
	db := setupSettingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, models.Setting{
		Key:       "receipt_footer",
		Value:     "Thank you",
		UpdatedBy: "admin",
		UpdatedAt: time.Now().UTC(),
	}))
	require.NoError(t, repo.Upsert(ctx, models.Setting{
		Key:       "receipt_footer",
		Value:     "Get well soon",
		UpdatedBy: "root",
		UpdatedAt: time.Now().UTC(),
	}))

	setting, err := repo.Get(ctx, "receipt_footer")
	require.NoError(t, err)
	assert.Equal(t, "Get well soon", setting.Value)
	assert.Equal(t, "root", setting.UpdatedBy)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListOrdersByKey(t *testing.T) {
	db := setupSettingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for _, key := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, repo.Upsert(ctx, models.Setting{
			Key:       key,
			Value:     "v",
			UpdatedAt: time.Now().UTC(),
		}))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "alpha", all[0].Key)
	assert.Equal(t, "zeta", all[2].Key)
}
