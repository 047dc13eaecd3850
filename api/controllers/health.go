package controllers

import (
	"context"
	"net/http"

	"github.com/theyashdedhia/shopwave-backend/api/responses"
	"github.com/theyashdedhia/shopwave-backend/pkg/config"
	pkgerrors "github.com/theyashdedhia/shopwave-backend/pkg/errors"
	"github.com/theyashdedhia/shopwave-backend/pkg/logger"
)

const envHeader = "X-Shopwave-Env"

// Pinger is the readiness probe each backing dependency exposes.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				ctx := logg.WithField(r.Context(), "dependency", name)
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
