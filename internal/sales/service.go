package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinistock/backend/internal/medicines"
	"github.com/clinistock/backend/pkg/config"
	"github.com/clinistock/backend/pkg/db/models"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
	"github.com/clinistock/backend/pkg/metrics"
	"github.com/clinistock/backend/pkg/pagination"
	"github.com/clinistock/backend/pkg/timewindow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines sale recording and reporting operations.
type Service interface {
	RecordSale(ctx context.Context, input RecordSaleInput) (*models.Sale, error)
	EditSale(ctx context.Context, saleID uuid.UUID, input EditSaleInput) (*models.Sale, error)
	DeleteSale(ctx context.Context, saleID uuid.UUID) error
	SalesToday(ctx context.Context, clinic string) ([]models.Sale, error)
	SalesByDate(ctx context.Context, clinic, date, timezone string) ([]models.Sale, error)
	SalesByMonth(ctx context.Context, clinic, month string) ([]models.Sale, error)
	ListSales(ctx context.Context, input ListSalesInput) (*SaleList, error)
}

// RecordSaleInput captures a new POS transaction.
type RecordSaleInput struct {
	MedicineID   uuid.UUID       `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Clinic       string          `json:"clinic"`
	Quantity     int             `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
	SoldBy       string          `json:"sold_by"`
	SoldByName   string          `json:"sold_by_name"`
	SoldAt       *time.Time      `json:"sold_at"`
}

// EditSaleInput rewrites an existing sale. Quantity and Rate are mandatory;
// the medicine reference and sold_at change only when supplied.
type EditSaleInput struct {
	MedicineID   *uuid.UUID      `json:"medicine_id"`
	MedicineName *string         `json:"medicine_name"`
	Quantity     int             `json:"quantity"`
	Rate         decimal.Decimal `json:"rate"`
	SoldAt       *time.Time      `json:"sold_at"`
}

// ListSalesInput filters the paginated range listing.
type ListSalesInput struct {
	Clinic string
	From   string
	To     string
	Page   pagination.Params
}

type service struct {
	repo      Repository
	medicines medicines.Repository
	tx        txRunner
	loc       *time.Location
	metrics   *metrics.OpsMetrics
	now       func() time.Time
}

// NewService wires a sale service with its repositories and transaction runner.
func NewService(repo Repository, medicineRepo medicines.Repository, tx txRunner, reportCfg config.ReportConfig, ops *metrics.OpsMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sale repository required")
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
		loc:       timewindow.Resolve(reportCfg.Timezone),
		metrics:   ops,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) RecordSale(ctx context.Context, input RecordSaleInput) (*models.Sale, error) {
	if input.MedicineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "medicine_id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.Rate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate cannot be negative")
	}

	var sale *models.Sale
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txMedicines := s.medicines.WithTx(tx)
		txSales := s.repo.WithTx(tx)

		medicine, err := txMedicines.FindByID(ctx, input.MedicineID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load medicine")
		}

		if _, err := txMedicines.AdjustQuantity(ctx, medicine.ID, -input.Quantity); err != nil {
			return s.mapAdjustError(err, "sale", medicine.Quantity, input.Quantity)
		}

		soldAt := s.now()
		if input.SoldAt != nil {
			soldAt = input.SoldAt.UTC()
		}
		name := input.MedicineName
		if name == "" {
			name = medicine.Name
		}
		clinic := input.Clinic
		if clinic == "" {
			clinic = medicine.Clinic
		}

		sale = &models.Sale{
			ID:           uuid.New(),
			MedicineID:   medicine.ID,
			MedicineName: name,
			Clinic:       clinic,
			Quantity:     input.Quantity,
			Rate:         input.Rate,
			Total:        input.Rate.Mul(decimal.NewFromInt(int64(input.Quantity))),
			SoldBy:       input.SoldBy,
			SoldByName:   input.SoldByName,
			SoldAt:       soldAt,
		}
		if err := txSales.Create(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sale")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSaleRecorded(sale.Clinic)
	return sale, nil
}

func (s *service) EditSale(ctx context.Context, saleID uuid.UUID, input EditSaleInput) (*models.Sale, error) {
	if saleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sale id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.Rate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rate cannot be negative")
	}

	var sale *models.Sale
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txMedicines := s.medicines.WithTx(tx)
		txSales := s.repo.WithTx(tx)

		existing, err := txSales.FindByID(ctx, saleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
		}

		// Reverse the original decrement before applying the new one;
		// computing the new decrement against the pre-restoration quantity
		// would double-count. A missing row means the medicine was deleted
		// after the sale, which leaves nothing to restore.
		if _, err := txMedicines.AdjustQuantity(ctx, existing.MedicineID, existing.Quantity); err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
		}

		targetID := existing.MedicineID
		targetName := existing.MedicineName
		if input.MedicineID != nil && *input.MedicineID != existing.MedicineID {
			medicine, err := txMedicines.FindByID(ctx, *input.MedicineID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load medicine")
			}
			targetID = medicine.ID
			targetName = medicine.Name
		}
		if input.MedicineName != nil && *input.MedicineName != "" {
			targetName = *input.MedicineName
		}

		// The sufficiency check applies on both branches, including a changed
		// medicine reference: quantity must never go negative.
		if _, err := txMedicines.AdjustQuantity(ctx, targetID, -input.Quantity); err != nil {
			return s.mapAdjustError(err, "sale_edit", 0, input.Quantity)
		}

		existing.MedicineID = targetID
		existing.MedicineName = targetName
		existing.Quantity = input.Quantity
		existing.Rate = input.Rate
		existing.Total = input.Rate.Mul(decimal.NewFromInt(int64(input.Quantity)))
		if input.SoldAt != nil {
			existing.SoldAt = input.SoldAt.UTC()
		}

		if err := txSales.Update(ctx, existing); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sale")
		}
		sale = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func (s *service) DeleteSale(ctx context.Context, saleID uuid.UUID) error {
	if saleID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale id is required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txMedicines := s.medicines.WithTx(tx)
		txSales := s.repo.WithTx(tx)

		sale, err := txSales.FindByID(ctx, saleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sale")
		}

		// Restoring stock for a deleted medicine is a documented soft no-op.
		if _, err := txMedicines.AdjustQuantity(ctx, sale.MedicineID, sale.Quantity); err != nil &&
			!errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore stock")
		}

		if err := txSales.Delete(ctx, sale.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete sale")
		}
		return nil
	})
}

func (s *service) SalesToday(ctx context.Context, clinic string) ([]models.Sale, error) {
	from, to := timewindow.Day(s.now().In(s.loc))
	return s.listRange(ctx, clinic, from, to)
}

func (s *service) SalesByDate(ctx context.Context, clinic, date, timezone string) ([]models.Sale, error) {
	loc := s.loc
	if timezone != "" {
		loc = timewindow.Resolve(timezone)
	}
	day, err := timewindow.ParseDate(date, loc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date")
	}
	from, to := timewindow.Day(day)
	return s.listRange(ctx, clinic, from, to)
}

func (s *service) SalesByMonth(ctx context.Context, clinic, month string) ([]models.Sale, error) {
	start, err := timewindow.ParseMonth(month, s.loc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid month")
	}
	from, to := timewindow.Month(start)
	return s.listRange(ctx, clinic, from, to)
}

func (s *service) ListSales(ctx context.Context, input ListSalesInput) (*SaleList, error) {
	from, to, err := s.parseRange(input.From, input.To)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListPage(ctx, input.Clinic, from, to, input.Page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	return list, nil
}

func (s *service) listRange(ctx context.Context, clinic string, from, to time.Time) ([]models.Sale, error) {
	sales, err := s.repo.ListByRange(ctx, clinic, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	return sales, nil
}

func (s *service) parseRange(fromValue, toValue string) (time.Time, time.Time, error) {
	var from, to time.Time
	if fromValue != "" {
		parsed, err := timewindow.ParseDate(fromValue, s.loc)
		if err != nil {
			return from, to, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from date")
		}
		from = parsed
	}
	if toValue != "" {
		parsed, err := timewindow.ParseDate(toValue, s.loc)
		if err != nil {
			return from, to, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to date")
		}
		to = timewindow.EndOfDay(parsed)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return from, to, pkgerrors.New(pkgerrors.CodeValidation, "to date precedes from date")
	}
	return from, to, nil
}

func (s *service) mapAdjustError(err error, operation string, available, requested int) error {
	switch {
	case errors.Is(err, medicines.ErrInsufficientStock):
		s.metrics.IncStockRejection(operation)
		stockErr := pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for sale")
		if available > 0 {
			return stockErr.WithDetails(map[string]int{
				"available": available,
				"requested": requested,
			})
		}
		return stockErr.WithDetails(map[string]int{"requested": requested})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "medicine not found")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
	}
}
