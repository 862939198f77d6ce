package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AnshRaj112/fittrack-backend/pkg/response"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// Health is the liveness probe.
func Health(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// Ready pings each dependency and answers 503 if any is down.
func Ready(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]string, len(deps))
		status := http.StatusOK
		for name, ping := range deps {
			if err := ping(ctx); err != nil {
				checks[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "up"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not_ready"
		}
		response.JSON(w, status, map[string]any{"status": state, "checks": checks})
	}
}
