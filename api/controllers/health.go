package controllers

import (
	"net/http"

	"go.uber.org/multierr"

	"github.com/pinnlabs/varejo-backend/api/responses"
	"github.com/pinnlabs/varejo-backend/pkg/config"
	"github.com/pinnlabs/varejo-backend/pkg/db"
	pkgerrors "github.com/pinnlabs/varejo-backend/pkg/errors"
	"github.com/pinnlabs/varejo-backend/pkg/logger"
	"github.com/pinnlabs/varejo-backend/pkg/redis"
)

const envHeader = "X-Varejo-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every hard dependency and reports per-component status.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		components := map[string]string{}
		var errs error

		if dbP != nil {
			if err := dbP.Ping(r.Context()); err != nil {
				components["database"] = "down"
				errs = multierr.Append(errs, err)
			} else {
				components["database"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(r.Context()); err != nil {
				components["redis"] = "down"
				errs = multierr.Append(errs, err)
			} else {
				components["redis"] = "ok"
			}
		}

		if errs != nil {
			err := pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "dependency not ready").
				WithDetails(components)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "components": components})
	}
}
