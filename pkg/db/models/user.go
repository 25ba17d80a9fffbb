package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinistock/backend/pkg/enums"
)

// User is an admin or worker account. Clinic is the home clinic the account
// operates from; ExtraClinics grants workers access to additional locations.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	Name         string         `gorm:"column:name;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.Role     `gorm:"column:role;type:text;not null"`
	Clinic       string         `gorm:"column:clinic;not null"`
	ExtraClinics pq.StringArray `gorm:"column:extra_clinics;type:text[]"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
