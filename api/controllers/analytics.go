package controllers

import (
	"net/http"

	"github.com/clinistock/backend/api/middleware"
	"github.com/clinistock/backend/api/responses"
	"github.com/clinistock/backend/api/validators"
	analyticsvc "github.com/clinistock/backend/internal/analytics"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
	"github.com/clinistock/backend/pkg/logger"
)

// AnalyticsRange computes totals and top medicines over an optional date window.
func AnalyticsRange(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		result, err := svc.Range(
			r.Context(),
			validators.QueryString(r, "clinic", middleware.ClinicFromContext(r.Context())),
			validators.QueryString(r, "from", ""),
			validators.QueryString(r, "to", ""),
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AnalyticsMonthly computes the aggregate for one calendar month.
func AnalyticsMonthly(svc analyticsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		month := validators.QueryString(r, "month", "")
		if month == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "month is required"))
			return
		}

		result, err := svc.Monthly(
			r.Context(),
			validators.QueryString(r, "clinic", middleware.ClinicFromContext(r.Context())),
			month,
		)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
