package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/bicisena/bicisena-backend/api/responses"
	"github.com/bicisena/bicisena-backend/pkg/config"
	"github.com/bicisena/bicisena-backend/pkg/db"
	pkgerrors "github.com/bicisena/bicisena-backend/pkg/errors"
	"github.com/bicisena/bicisena-backend/pkg/logger"
	"github.com/bicisena/bicisena-backend/pkg/types"
)

const (
	readyTimeout = 2 * time.Second
	envHeader    = "X-BiciSENA-Env"
)

func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, types.WelcomeResponse{Message: "BiciSENA API - Bienvenido"})
	}
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, types.HealthResponse{
			Status:  "ok",
			Message: "BiciSENA Backend operativo",
		})
	}
}

// HealthReady additionally pings the database.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database not configured"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable").
				WithDetails(map[string]string{"database": "unreachable"}))
			return
		}
		responses.WriteSuccess(w, types.HealthResponse{Status: "ready", Message: "base de datos disponible"})
	}
}
