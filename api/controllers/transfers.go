package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinistock/backend/api/middleware"
	"github.com/clinistock/backend/api/responses"
	"github.com/clinistock/backend/api/validators"
	transfersvc "github.com/clinistock/backend/internal/transfers"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
	"github.com/clinistock/backend/pkg/logger"
)

type createTransferRequest struct {
	FromClinic   string    `json:"from_clinic" validate:"required"`
	ToClinic     string    `json:"to_clinic" validate:"required"`
	MedicineID   uuid.UUID `json:"medicine_id" validate:"required"`
	MedicineName string    `json:"medicine_name,omitempty"`
	Quantity     int       `json:"quantity" validate:"required,min=1"`
}

type updateTransferRequest struct {
	MedicineName *string    `json:"medicine_name,omitempty"`
	Quantity     *int       `json:"quantity,omitempty" validate:"omitempty,min=1"`
	FromClinic   *string    `json:"from_clinic,omitempty"`
	ToClinic     *string    `json:"to_clinic,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
}

// CreateTransfer atomically moves stock between clinics and records the audit row.
func CreateTransfer(svc transfersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transfer service unavailable"))
			return
		}

		var payload createTransferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transfer, err := svc.Transfer(r.Context(), transfersvc.TransferInput{
			FromClinic:   payload.FromClinic,
			ToClinic:     payload.ToClinic,
			MedicineID:   payload.MedicineID,
			MedicineName: payload.MedicineName,
			Quantity:     payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, transfer)
	}
}

// TransferHistory lists transfers where the clinic is sender or receiver.
func TransferHistory(svc transfersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transfer service unavailable"))
			return
		}

		clinic := validators.QueryString(r, "clinic", middleware.ClinicFromContext(r.Context()))
		if clinic == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "clinic is required"))
			return
		}

		transfers, err := svc.History(r.Context(), clinic)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, transfers)
	}
}

// UpdateTransfer edits the audit record only; stock is never replayed.
func UpdateTransfer(svc transfersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transfer service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transfer id"))
			return
		}

		var payload updateTransferRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		transfer, err := svc.UpdateTransfer(r.Context(), id, transfersvc.UpdateTransferInput{
			MedicineName: payload.MedicineName,
			Quantity:     payload.Quantity,
			FromClinic:   payload.FromClinic,
			ToClinic:     payload.ToClinic,
			Date:         payload.Date,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, transfer)
	}
}

// DeleteTransfer removes an audit record without touching stock.
func DeleteTransfer(svc transfersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "transfer service unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transfer id"))
			return
		}

		if err := svc.DeleteTransfer(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
