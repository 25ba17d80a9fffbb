package users

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinistock/backend/pkg/db/models"
	"github.com/clinistock/backend/pkg/enums"
)

// UserDTO is the transport shape that omits the password hash.
type UserDTO struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         enums.Role `json:"role"`
	Clinic       string     `json:"clinic"`
	ExtraClinics []string   `json:"extra_clinics"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new account.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Role         enums.Role
	Clinic       string
	ExtraClinics []string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Clinic:       u.Clinic,
		ExtraClinics: append([]string{}, u.ExtraClinics...),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	extras := c.ExtraClinics
	if extras == nil {
		extras = []string{}
	} else {
		extras = append([]string(nil), extras...)
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		Name:         c.Name,
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
		Clinic:       c.Clinic,
		ExtraClinics: pq.StringArray(extras),
	}
}
