package controllers

import (
	"context"
	"net/http"

	"github.com/rlmonteiro/essencia-backend/api/responses"
	"github.com/rlmonteiro/essencia-backend/pkg/config"
	pkgerrors "github.com/rlmonteiro/essencia-backend/pkg/errors"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
)

const envHeader = "X-Essencia-Env"

// Pinger is the readiness probe surface of a backing dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, db, kv Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		checks := map[string]string{}
		healthy := true

		if db != nil {
			checks["db"] = "ok"
			if err := db.Ping(r.Context()); err != nil {
				checks["db"] = err.Error()
				healthy = false
			}
		}
		if kv != nil {
			checks["redis"] = "ok"
			if err := kv.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			}
		}

		if !healthy {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
