package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinistock/backend/api/middleware"
	"github.com/clinistock/backend/api/responses"
	"github.com/clinistock/backend/api/validators"
	salesvc "github.com/clinistock/backend/internal/sales"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
	"github.com/clinistock/backend/pkg/logger"
	"github.com/clinistock/backend/pkg/pagination"
)

type recordSaleRequest struct {
	MedicineID   uuid.UUID       `json:"medicine_id" validate:"required"`
	MedicineName string          `json:"medicine_name,omitempty"`
	Clinic       string          `json:"clinic,omitempty"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
	Rate         decimal.Decimal `json:"rate" validate:"required"`
	SoldAt       *time.Time      `json:"sold_at,omitempty"`
}

type editSaleRequest struct {
	MedicineID   *uuid.UUID      `json:"medicine_id,omitempty"`
	MedicineName *string         `json:"medicine_name,omitempty"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
	Rate         decimal.Decimal `json:"rate" validate:"required"`
	SoldAt       *time.Time      `json:"sold_at,omitempty"`
}

// RecordSale books a POS transaction against the actor's clinic stock.
func RecordSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		var payload recordSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clinic := payload.Clinic
		if clinic == "" {
			clinic = middleware.ClinicFromContext(r.Context())
		}

		sale, err := svc.RecordSale(r.Context(), salesvc.RecordSaleInput{
			MedicineID:   payload.MedicineID,
			MedicineName: payload.MedicineName,
			Clinic:       clinic,
			Quantity:     payload.Quantity,
			Rate:         payload.Rate,
			SoldBy:       middleware.UserIDFromContext(r.Context()),
			SoldByName:   middleware.UserNameFromContext(r.Context()),
			SoldAt:       payload.SoldAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, sale)
	}
}

// EditSale rewrites a sale, restoring the old stock delta and applying the new one.
func EditSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sale id"))
			return
		}

		var payload editSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.EditSale(r.Context(), id, salesvc.EditSaleInput{
			MedicineID:   payload.MedicineID,
			MedicineName: payload.MedicineName,
			Quantity:     payload.Quantity,
			Rate:         payload.Rate,
			SoldAt:       payload.SoldAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}

// DeleteSale removes a sale and restores its quantity to stock.
func DeleteSale(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sale id"))
			return
		}

		if err := svc.DeleteSale(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListSales returns a cursor-paginated range listing.
func ListSales(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListSales(r.Context(), salesvc.ListSalesInput{
			Clinic: validators.QueryString(r, "clinic", ""),
			From:   validators.QueryString(r, "from", ""),
			To:     validators.QueryString(r, "to", ""),
			Page: pagination.Params{
				Limit:  limit,
				Cursor: validators.QueryString(r, "cursor", ""),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SalesToday lists today's sales in the report timezone.
func SalesToday(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		clinic := validators.QueryString(r, "clinic", middleware.ClinicFromContext(r.Context()))
		sales, err := svc.SalesToday(r.Context(), clinic)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sales)
	}
}

// SalesByDate lists one calendar day's sales, honoring an optional tz override.
func SalesByDate(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		date := validators.QueryString(r, "date", "")
		if date == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "date is required"))
			return
		}

		clinic := validators.QueryString(r, "clinic", middleware.ClinicFromContext(r.Context()))
		sales, err := svc.SalesByDate(r.Context(), clinic, date, validators.QueryString(r, "tz", ""))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sales)
	}
}

// SalesByMonth lists one calendar month's sales.
func SalesByMonth(svc salesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sale service unavailable"))
			return
		}

		month := validators.QueryString(r, "month", "")
		if month == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "month is required"))
			return
		}

		clinic := validators.QueryString(r, "clinic", middleware.ClinicFromContext(r.Context()))
		sales, err := svc.SalesByMonth(r.Context(), clinic, month)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sales)
	}
}
