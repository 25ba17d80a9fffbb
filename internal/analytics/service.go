package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/clinistock/backend/pkg/config"
	"github.com/clinistock/backend/pkg/db/models"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
	"github.com/clinistock/backend/pkg/timewindow"
)

type salesSource interface {
	ListByRange(ctx context.Context, clinic string, from, to time.Time) ([]models.Sale, error)
}

type medicineSource interface {
	List(ctx context.Context, clinic string) ([]models.Medicine, error)
}

// Service computes revenue/profit aggregates over sale windows.
type Service interface {
	Range(ctx context.Context, clinic, from, to string) (*Result, error)
	Monthly(ctx context.Context, clinic, month string) (*Result, error)
}

type service struct {
	sales     salesSource
	medicines medicineSource
	loc       *time.Location
}

// NewService wires an analytics service over the sale and medicine stores.
func NewService(sales salesSource, medicines medicineSource, reportCfg config.ReportConfig) (Service, error) {
	if sales == nil {
		return nil, fmt.Errorf("sales source required")
	}
	if medicines == nil {
		return nil, fmt.Errorf("medicine source required")
	}
	return &service{
		sales:     sales,
		medicines: medicines,
		loc:       timewindow.Resolve(reportCfg.Timezone),
	}, nil
}

func (s *service) Range(ctx context.Context, clinic, fromValue, toValue string) (*Result, error) {
	var from, to time.Time
	if fromValue != "" {
		parsed, err := timewindow.ParseDate(fromValue, s.loc)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from date")
		}
		from = parsed
	}
	if toValue != "" {
		parsed, err := timewindow.ParseDate(toValue, s.loc)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to date")
		}
		to = timewindow.EndOfDay(parsed)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "to date precedes from date")
	}
	return s.aggregate(ctx, clinic, from, to)
}

func (s *service) Monthly(ctx context.Context, clinic, month string) (*Result, error) {
	start, err := timewindow.ParseMonth(month, s.loc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid month")
	}
	from, to := timewindow.Month(start)
	return s.aggregate(ctx, clinic, from, to)
}

func (s *service) aggregate(ctx context.Context, clinic string, from, to time.Time) (*Result, error) {
	sales, err := s.sales.ListByRange(ctx, clinic, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}

	// The medicine index spans every clinic: fuzzy matching may resolve a
	// purchase price from a sibling clinic's record.
	index, err := s.medicines.List(ctx, "")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list medicines")
	}

	result := Aggregate(sales, index)
	return &result, nil
}
