package http

import (
	"net/http"
	"time"

	"github.com/arborlabs/gatehouse/internal/gatehouse/store"
	"github.com/arborlabs/gatehouse/pkg/httpx"
)

// ReadyzHandler is the readiness probe. It pings every backing store and
// reports degraded with a 503 if any of them are unreachable.
func ReadyzHandler(startTime time.Time, version string, pingers ...store.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		checks := ""
		statusCode := http.StatusOK

		for _, p := range pingers {
			if err := p.Ping(r.Context()); err != nil {
				status = "degraded"
				checks = "store: " + err.Error()
				statusCode = http.StatusServiceUnavailable
				break
			}
		}

		httpx.WriteJSON(w, statusCode, healthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
