package medicines

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinistock/backend/pkg/db"
	"github.com/clinistock/backend/pkg/db/models"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines inventory operations over medicine records.
type Service interface {
	CreateMedicine(ctx context.Context, input CreateMedicineInput) (*models.Medicine, error)
	UpdateMedicine(ctx context.Context, id uuid.UUID, input UpdateMedicineInput) (*models.Medicine, error)
	DeleteMedicine(ctx context.Context, id uuid.UUID) error
	GetMedicine(ctx context.Context, id uuid.UUID) (*models.Medicine, error)
	ListMedicines(ctx context.Context, clinic string) ([]models.Medicine, error)
}

// CreateMedicineInput captures a new inventory entry. PurchasePrice is the
// cost basis, set once here; selling rates live on individual sales.
type CreateMedicineInput struct {
	Name          string           `json:"name"`
	Description   *string          `json:"description"`
	Quantity      int              `json:"quantity"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
	Clinic        string           `json:"clinic"`
}

// UpdateMedicineInput applies a partial update; nil fields are left untouched.
type UpdateMedicineInput struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Quantity      *int             `json:"quantity"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	ExpiryDate    *time.Time       `json:"expiry_date"`
}

type service struct {
	repo Repository
}

// NewService wires a medicine service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("medicine repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateMedicine(ctx context.Context, input CreateMedicineInput) (*models.Medicine, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Clinic == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "clinic is required")
	}
	if input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.PurchasePrice != nil && input.PurchasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase_price cannot be negative")
	}

	medicine := &models.Medicine{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Quantity:    input.Quantity,
		ExpiryDate:  input.ExpiryDate,
		Clinic:      input.Clinic,
	}
	if input.PurchasePrice != nil {
		medicine.PurchasePrice = decimal.NewNullDecimal(*input.PurchasePrice)
	}

	if err := s.repo.Create(ctx, medicine); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "medicine already exists for this clinic")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create medicine")
	}
	return medicine, nil
}

func (s *service) UpdateMedicine(ctx context.Context, id uuid.UUID, input UpdateMedicineInput) (*models.Medicine, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicine id is required")
	}
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if input.PurchasePrice != nil && input.PurchasePrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase_price cannot be negative")
	}

	medicine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load medicine")
	}

	if input.Name != nil && *input.Name != "" {
		medicine.Name = *input.Name
	}
	if input.Description != nil {
		medicine.Description = input.Description
	}
	if input.Quantity != nil {
		medicine.Quantity = *input.Quantity
	}
	if input.PurchasePrice != nil {
		medicine.PurchasePrice = decimal.NewNullDecimal(*input.PurchasePrice)
	}
	if input.ExpiryDate != nil {
		medicine.ExpiryDate = input.ExpiryDate
	}

	if err := s.repo.Update(ctx, medicine); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "medicine already exists for this clinic")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update medicine")
	}
	return medicine, nil
}

func (s *service) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "medicine id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete medicine")
	}
	return nil
}

func (s *service) GetMedicine(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicine id is required")
	}
	medicine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load medicine")
	}
	return medicine, nil
}

func (s *service) ListMedicines(ctx context.Context, clinic string) ([]models.Medicine, error) {
	medicines, err := s.repo.List(ctx, clinic)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list medicines")
	}
	return medicines, nil
}
