package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Medicine is the per-clinic stock record. Quantity is guarded by a
// conditional update and never goes negative. PurchasePrice is the cost
// basis set at inventory time; it is independent of per-sale rates and may
// be absent on records created before cost tracking.
type Medicine struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	Name          string              `gorm:"column:name;not null"`
	Description   *string             `gorm:"column:description"`
	Quantity      int                 `gorm:"column:quantity;not null;default:0"`
	PurchasePrice decimal.NullDecimal `gorm:"column:purchase_price;type:numeric(12,2)"`
	ExpiryDate    *time.Time          `gorm:"column:expiry_date"`
	Clinic        string              `gorm:"column:clinic;not null;index"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Medicine) TableName() string {
	return "medicines"
}
