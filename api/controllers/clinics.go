package controllers

import (
	"net/http"

	"github.com/clinistock/backend/api/responses"
	clinicsvc "github.com/clinistock/backend/internal/clinics"
	pkgerrors "github.com/clinistock/backend/pkg/errors"
	"github.com/clinistock/backend/pkg/logger"
)

// ListClinics returns the derived clinic directory with worker annotations.
func ListClinics(svc clinicsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "clinic service unavailable"))
			return
		}

		directory, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, directory)
	}
}
