package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinistock/backend/api/responses"
	"github.com/clinistock/backend/api/validators"
	medicinesvc "github.com/clinistock/backend/internal/medicines"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
	"github.com/clinistock/backend/pkg/logger"
)

type createMedicineRequest struct {
	Name          string           `json:"name" validate:"required"`
	Description   *string          `json:"description,omitempty"`
	Quantity      int              `json:"quantity" validate:"min=0"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	Clinic        string           `json:"clinic" validate:"required"`
}

type updateMedicineRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Quantity      *int             `json:"quantity,omitempty" validate:"omitempty,min=0"`
	PurchasePrice *decimal.Decimal `json:"purchase_price,omitempty"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
}

// ListMedicines returns the inventory, optionally scoped to one clinic.
func ListMedicines(svc medicinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "medicine service unavailable"))
			return
		}

		clinic := validators.QueryString(r, "clinic", "")
		medicines, err := svc.ListMedicines(r.Context(), clinic)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, medicines)
	}
}

// GetMedicine returns one inventory entry by id.
func GetMedicine(svc medicinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "medicine service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid medicine id"))
			return
		}

		medicine, err := svc.GetMedicine(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, medicine)
	}
}

// CreateMedicine registers a new inventory entry.
func CreateMedicine(svc medicinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "medicine service unavailable"))
			return
		}

		var payload createMedicineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		medicine, err := svc.CreateMedicine(r.Context(), medicinesvc.CreateMedicineInput{
			Name:          payload.Name,
			Description:   payload.Description,
			Quantity:      payload.Quantity,
			PurchasePrice: payload.PurchasePrice,
			ExpiryDate:    payload.ExpiryDate,
			Clinic:        payload.Clinic,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, medicine)
	}
}

// UpdateMedicine applies a partial update to one inventory entry.
func UpdateMedicine(svc medicinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "medicine service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid medicine id"))
			return
		}

		var payload updateMedicineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		medicine, err := svc.UpdateMedicine(r.Context(), id, medicinesvc.UpdateMedicineInput{
			Name:          payload.Name,
			Description:   payload.Description,
			Quantity:      payload.Quantity,
			PurchasePrice: payload.PurchasePrice,
			ExpiryDate:    payload.ExpiryDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, medicine)
	}
}

// DeleteMedicine removes an inventory entry. Historical sales keep their
// snapshotted name and resolve cost bases through the analytics matcher.
func DeleteMedicine(svc medicinesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "medicine service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid medicine id"))
			return
		}

		if err := svc.DeleteMedicine(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
