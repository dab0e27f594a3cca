package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bicisena/bicisena-backend/api/responses"
	"github.com/bicisena/bicisena-backend/api/validators"
	"github.com/bicisena/bicisena-backend/internal/movements"
	pkgerrors "github.com/bicisena/bicisena-backend/pkg/errors"
	"github.com/bicisena/bicisena-backend/pkg/logger"
)

func MovementRecord(svc movements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movement service unavailable"))
			return
		}

		result, err := svc.Record(r.Context(), codigoParam(r), chi.URLParam(r, "accion"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func MovementHistory(svc movements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movement service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", movements.DefaultHistoryLimit, 1, movements.MaxHistoryLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.History(r.Context(), codigoParam(r), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
