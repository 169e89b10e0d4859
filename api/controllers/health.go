package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/aldousari/sooqfresh-backend/api/responses"
	"github.com/aldousari/sooqfresh-backend/pkg/db"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
	"github.com/aldousari/sooqfresh-backend/pkg/logger"
	"github.com/aldousari/sooqfresh-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the hard dependencies so load balancers only route to
// instances that can serve traffic.
func HealthReady(logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				healthy = false
				checks["database"] = "down"
				if logg != nil {
					logg.Error(ctx, "readiness database ping failed", err)
				}
			} else {
				checks["database"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				healthy = false
				checks["redis"] = "down"
				if logg != nil {
					logg.Error(ctx, "readiness redis ping failed", err)
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		if !healthy {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").
					WithDetails(map[string]any{"checks": checks}))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
