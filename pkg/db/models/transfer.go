package models

import (
	"time"

	"github.com/google/uuid"
)

// Transfer is the audit entry appended when stock moves between clinics.
// Editing or deleting a row never replays the stock adjustment; the ledger
// rows on medicines are the source of truth, this table is history.
type Transfer struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	MedicineName string    `gorm:"column:medicine_name;not null"`
	Quantity     int       `gorm:"column:quantity;not null"`
	FromClinic   string    `gorm:"column:from_clinic;not null;index"`
	ToClinic     string    `gorm:"column:to_clinic;not null;index"`
	Date         time.Time `gorm:"column:date;not null;index"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Transfer) TableName() string {
	return "transfers"
}
