package httphandler

import (
	"net/http"
)

// ListServices returns every service in persisted order.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.services.List(r.Context())
	if err != nil {
		h.writeAppError(w, "list services", err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponses(services))
}

// ReplaceServices overwrites the whole services list. Records without an id
// are given one; the stored list is returned.
func (h *Handler) ReplaceServices(w http.ResponseWriter, r *http.Request) {
	var req []ServiceJSON
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req == nil {
		writeError(w, http.StatusBadRequest, "expected a JSON array of services")
		return
	}

	stored, err := h.services.ReplaceAll(r.Context(), fromServiceRequests(req))
	if err != nil {
		h.writeAppError(w, "replace services", err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceResponses(stored))
}

// GetService returns one service by id.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.services.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeAppError(w, "get service", err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceJSON(svc))
}

// AddService appends a service and returns it with its new id.
func (h *Handler) AddService(w http.ResponseWriter, r *http.Request) {
	var req ServiceJSON
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.services.Add(r.Context(), req.toModel())
	if err != nil {
		h.writeAppError(w, "add service", err)
		return
	}

	writeJSON(w, http.StatusCreated, toServiceJSON(created))
}

// UpdateService replaces the service with the path id.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req ServiceJSON
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.services.Update(r.Context(), r.PathValue("id"), req.toModel())
	if err != nil {
		h.writeAppError(w, "update service", err)
		return
	}

	writeJSON(w, http.StatusOK, toServiceJSON(updated))
}

// RemoveService deletes the service with the path id.
func (h *Handler) RemoveService(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Remove(r.Context(), r.PathValue("id")); err != nil {
		h.writeAppError(w, "remove service", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
