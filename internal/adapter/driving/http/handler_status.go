package httphandler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/servicehub/internal/application"
)

// CheckStatus probes a single URL on demand. Probe failures are reported as
// an offline status, never as an error response.
func (h *Handler) CheckStatus(w http.ResponseWriter, r *http.Request) {
	var req CheckStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	writeJSON(w, http.StatusOK, toProbeResponse(h.status.Check(r.Context(), url)))
}

// Status returns the latest probe cycle results.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toStatusResponse(h.status.Snapshot()))
}

// OfflineServices returns up to MaxOfflineAlerts services that were offline
// in the latest cycle.
func (h *Handler) OfflineServices(w http.ResponseWriter, _ *http.Request) {
	offline := h.status.Offline(application.MaxOfflineAlerts)

	resp := make([]ServiceStatusResponse, 0, len(offline))
	for _, st := range offline {
		resp = append(resp, toServiceStatusResponse(st))
	}

	writeJSON(w, http.StatusOK, resp)
}

// refreshWaitTimeout bounds ?wait=1 refreshes below the server write timeout.
const refreshWaitTimeout = 25 * time.Second

// RefreshStatus schedules a probe cycle and returns 202 immediately. With
// ?wait=1 it runs the cycle, waits for it and returns the new snapshot.
func (h *Handler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	if !isTruthy(r.URL.Query().Get("wait")) {
		h.status.TriggerRefresh()
		writeJSON(w, http.StatusAccepted, messageResponse{Message: "status refresh scheduled"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), refreshWaitTimeout)
	defer cancel()

	if err := h.status.Refresh(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			h.logger.Warn("status refresh did not complete", "error", err)
			writeError(w, http.StatusServiceUnavailable, "status refresh did not complete")
			return
		}
		h.writeAppError(w, "refresh status", err)
		return
	}

	writeJSON(w, http.StatusOK, toStatusResponse(h.status.Snapshot()))
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
