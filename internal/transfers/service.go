package transfers

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/clinistock/backend/internal/medicines"
	"github.com/clinistock/backend/pkg/db/models"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
	"github.com/clinistock/backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// clinicAnnotationRe matches the trailing worker-list annotation the UI
// appends to clinic labels, e.g. "Clinic1 (Alice, Bob)".
var clinicAnnotationRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service moves stock between clinics and manages the transfer audit log.
type Service interface {
	Transfer(ctx context.Context, input TransferInput) (*models.Transfer, error)
	History(ctx context.Context, clinic string) ([]models.Transfer, error)
	UpdateTransfer(ctx context.Context, id uuid.UUID, input UpdateTransferInput) (*models.Transfer, error)
	DeleteTransfer(ctx context.Context, id uuid.UUID) error
}

// TransferInput captures an inter-clinic stock move.
type TransferInput struct {
	FromClinic   string    `json:"from_clinic"`
	ToClinic     string    `json:"to_clinic"`
	MedicineID   uuid.UUID `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	Quantity     int       `json:"quantity"`
}

// UpdateTransferInput rewrites audit fields only. Stock is never replayed:
// the transfer log is a historical record, not a ledger.
type UpdateTransferInput struct {
	MedicineName *string    `json:"medicine_name"`
	Quantity     *int       `json:"quantity"`
	FromClinic   *string    `json:"from_clinic"`
	ToClinic     *string    `json:"to_clinic"`
	Date         *time.Time `json:"date"`
}

type service struct {
	repo      Repository
	medicines medicines.Repository
	tx        txRunner
	metrics   *metrics.OpsMetrics
	now       func() time.Time
}

// NewService wires a transfer service with its repositories and transaction runner.
func NewService(repo Repository, medicineRepo medicines.Repository, tx txRunner, ops *metrics.OpsMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transfer repository required")
	}
	if medicineRepo == nil {
		return nil, fmt.Errorf("medicine repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:      repo,
		medicines: medicineRepo,
		tx:        tx,
		metrics:   ops,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// NormalizeClinic strips the trailing worker-list annotation from a clinic label.
func NormalizeClinic(label string) string {
	return strings.TrimSpace(clinicAnnotationRe.ReplaceAllString(label, ""))
}

func (s *service) Transfer(ctx context.Context, input TransferInput) (*models.Transfer, error) {
	from := NormalizeClinic(input.FromClinic)
	to := NormalizeClinic(input.ToClinic)

	if from == "" || to == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from_clinic and to_clinic are required")
	}
	if input.MedicineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicine_id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if strings.EqualFold(from, to) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source and destination clinics must differ")
	}

	var transfer *models.Transfer
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txMedicines := s.medicines.WithTx(tx)
		txTransfers := s.repo.WithTx(tx)

		source, err := txMedicines.FindByIDForClinic(ctx, input.MedicineID, from)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found in source clinic")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load source medicine")
		}

		if _, err := txMedicines.AdjustQuantity(ctx, source.ID, -input.Quantity); err != nil {
			switch {
			case errors.Is(err, medicines.ErrInsufficientStock):
				s.metrics.IncStockRejection("transfer")
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for transfer").
					WithDetails(map[string]int{
						"available": source.Quantity,
						"requested": input.Quantity,
					})
			case errors.Is(err, gorm.ErrRecordNotFound):
				return pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found in source clinic")
			default:
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement source stock")
			}
		}

		name := input.MedicineName
		if name == "" {
			name = source.Name
		}

		destination, err := txMedicines.FindByNameAndClinic(ctx, name, to)
		switch {
		case err == nil:
			if _, err := txMedicines.AdjustQuantity(ctx, destination.ID, input.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment destination stock")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			created := &models.Medicine{
				ID:            uuid.New(),
				Name:          name,
				Description:   source.Description,
				Quantity:      input.Quantity,
				PurchasePrice: source.PurchasePrice,
				ExpiryDate:    source.ExpiryDate,
				Clinic:        to,
			}
			if err := txMedicines.Create(ctx, created); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create destination medicine")
			}
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load destination medicine")
		}

		transfer = &models.Transfer{
			ID:           uuid.New(),
			MedicineName: source.Name,
			Quantity:     input.Quantity,
			FromClinic:   from,
			ToClinic:     to,
			Date:         s.now(),
		}
		if err := txTransfers.Create(ctx, transfer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create transfer record")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransferCompleted(from)
	return transfer, nil
}

func (s *service) History(ctx context.Context, clinic string) ([]models.Transfer, error) {
	transfers, err := s.repo.ListByClinic(ctx, NormalizeClinic(clinic))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transfers")
	}
	return transfers, nil
}

func (s *service) UpdateTransfer(ctx context.Context, id uuid.UUID, input UpdateTransferInput) (*models.Transfer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transfer id is required")
	}
	if input.Quantity != nil && *input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	transfer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transfer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load transfer")
	}

	if input.MedicineName != nil && *input.MedicineName != "" {
		transfer.MedicineName = *input.MedicineName
	}
	if input.Quantity != nil {
		transfer.Quantity = *input.Quantity
	}
	if input.FromClinic != nil && *input.FromClinic != "" {
		transfer.FromClinic = NormalizeClinic(*input.FromClinic)
	}
	if input.ToClinic != nil && *input.ToClinic != "" {
		transfer.ToClinic = NormalizeClinic(*input.ToClinic)
	}
	if input.Date != nil {
		transfer.Date = input.Date.UTC()
	}

	if err := s.repo.Update(ctx, transfer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update transfer")
	}
	return transfer, nil
}

func (s *service) DeleteTransfer(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "transfer id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "transfer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete transfer")
	}
	return nil
}
