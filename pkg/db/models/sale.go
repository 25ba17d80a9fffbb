package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale records one POS transaction. MedicineName and Clinic are snapshots
// taken at sale time; the live medicine row may be renamed or deleted later,
// which is why analytics falls back to name matching.
type Sale struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	MedicineID   uuid.UUID       `gorm:"column:medicine_id;type:uuid;not null;index"`
	MedicineName string          `gorm:"column:medicine_name;not null"`
	Clinic       string          `gorm:"column:clinic;not null;index"`
	Quantity     int             `gorm:"column:quantity;not null"`
	Rate         decimal.Decimal `gorm:"column:rate;type:numeric(12,2);not null"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null"`
	SoldBy       string          `gorm:"column:sold_by;not null"`
	SoldByName   string          `gorm:"column:sold_by_name;not null"`
	SoldAt       time.Time       `gorm:"column:sold_at;not null;index"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Sale) TableName() string {
	return "sales"
}
