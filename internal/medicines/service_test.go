package medicines

import (
	"context"
	"testing"

	"github.com/clinistock/backend/pkg/db/models"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubMedicineRepo struct {
	Repository
	created   *models.Medicine
	updated   *models.Medicine
	createErr error
	findByID  map[uuid.UUID]*models.Medicine
	deleteErr error
}

func (s *stubMedicineRepo) Create(_ context.Context, medicine *models.Medicine) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = medicine
	return nil
}

func (s *stubMedicineRepo) Update(_ context.Context, medicine *models.Medicine) error {
	s.updated = medicine
	return nil
}

func (s *stubMedicineRepo) Delete(_ context.Context, _ uuid.UUID) error {
	return s.deleteErr
}

func (s *stubMedicineRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Medicine, error) {
	if medicine, ok := s.findByID[id]; ok {
		return medicine, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestNewServiceRequiresRepository(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

func TestCreateMedicineValidatesInput(t *testing.T) {
	svc, err := NewService(&stubMedicineRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cases := []struct {
		name  string
		input CreateMedicineInput
	}{
		{"missing name", CreateMedicineInput{Clinic: "Clinic1"}},
		{"missing clinic", CreateMedicineInput{Name: "Panadol"}},
		{"negative quantity", CreateMedicineInput{Name: "Panadol", Clinic: "Clinic1", Quantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateMedicine(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateMedicineRejectsNegativePrice(t *testing.T) {
	svc, _ := NewService(&stubMedicineRepo{})
	price := decimal.NewFromInt(-5)

	_, err := svc.CreateMedicine(context.Background(), CreateMedicineInput{
		Name:          "Panadol",
		Clinic:        "Clinic1",
		PurchasePrice: &price,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateMedicineAssignsIDAndPrice(t *testing.T) {
	repo := &stubMedicineRepo{}
	svc, _ := NewService(repo)
	price := decimal.NewFromInt(5)

	medicine, err := svc.CreateMedicine(context.Background(), CreateMedicineInput{
		Name:          "Panadol",
		Clinic:        "Clinic1",
		Quantity:      100,
		PurchasePrice: &price,
	})
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}
	if medicine.ID == uuid.Nil {
		t.Fatal("expected id to be assigned")
	}
	if !medicine.PurchasePrice.Valid || !medicine.PurchasePrice.Decimal.Equal(price) {
		t.Fatalf("expected purchase price 5, got %+v", medicine.PurchasePrice)
	}
	if repo.created == nil {
		t.Fatal("expected repository create call")
	}
}

func TestCreateMedicineWithoutPriceStoresNull(t *testing.T) {
	repo := &stubMedicineRepo{}
	svc, _ := NewService(repo)

	medicine, err := svc.CreateMedicine(context.Background(), CreateMedicineInput{
		Name:   "Panadol",
		Clinic: "Clinic1",
	})
	if err != nil {
		t.Fatalf("create medicine: %v", err)
	}
	if medicine.PurchasePrice.Valid {
		t.Fatal("expected null purchase price when none supplied")
	}
}

func TestUpdateMedicineAppliesPartialFields(t *testing.T) {
	id := uuid.New()
	repo := &stubMedicineRepo{
		findByID: map[uuid.UUID]*models.Medicine{
			id: {ID: id, Name: "Panadol", Clinic: "Clinic1", Quantity: 10},
		},
	}
	svc, _ := NewService(repo)

	quantity := 25
	medicine, err := svc.UpdateMedicine(context.Background(), id, UpdateMedicineInput{Quantity: &quantity})
	if err != nil {
		t.Fatalf("update medicine: %v", err)
	}
	if medicine.Quantity != 25 {
		t.Fatalf("expected quantity 25, got %d", medicine.Quantity)
	}
	if medicine.Name != "Panadol" {
		t.Fatalf("expected untouched name, got %s", medicine.Name)
	}
	if repo.updated == nil {
		t.Fatal("expected repository update call")
	}
}

func TestUpdateMedicineNotFound(t *testing.T) {
	svc, _ := NewService(&stubMedicineRepo{findByID: map[uuid.UUID]*models.Medicine{}})

	_, err := svc.UpdateMedicine(context.Background(), uuid.New(), UpdateMedicineInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeleteMedicineNotFound(t *testing.T) {
	svc, _ := NewService(&stubMedicineRepo{deleteErr: gorm.ErrRecordNotFound})

	err := svc.DeleteMedicine(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}
