// Package httphandler serves the JSON REST API under /api.
package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/servicehub/internal/application"
)

// maxBodyBytes caps request bodies; documents are small hand-curated lists.
const maxBodyBytes = 1 << 20

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	categories *application.CategoryService
	services   *application.ServiceCatalog
	status     *application.StatusService
	logger     *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	categories *application.CategoryService,
	services *application.ServiceCatalog,
	status *application.StatusService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		categories: categories,
		services:   services,
		status:     status,
		logger:     logger,
	}
}

// RegisterAPIRoutes registers every REST route on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("POST /api/categories", h.ReplaceCategories)
	mux.HandleFunc("POST /api/categories/add", h.AddCategory)
	mux.HandleFunc("PUT /api/categories/{id}", h.UpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", h.DeleteCategory)
	mux.HandleFunc("POST /api/fix-undefined-categories", h.RepairCategories)

	mux.HandleFunc("GET /api/services", h.ListServices)
	mux.HandleFunc("POST /api/services", h.ReplaceServices)
	mux.HandleFunc("POST /api/services/add", h.AddService)
	mux.HandleFunc("GET /api/services/{id}", h.GetService)
	mux.HandleFunc("PUT /api/services/{id}", h.UpdateService)
	mux.HandleFunc("DELETE /api/services/{id}", h.RemoveService)

	mux.HandleFunc("POST /api/check-status", h.CheckStatus)
	mux.HandleFunc("GET /api/status", h.Status)
	mux.HandleFunc("GET /api/status/offline", h.OfflineServices)
	mux.HandleFunc("POST /api/status/refresh", h.RefreshStatus)

	mux.HandleFunc("GET /api/health", h.Health)
}

// ApplyMiddleware wraps handler with request logging and panic recovery.
func ApplyMiddleware(handler http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, handler)
	return loggingMiddleware(logger, wrapped)
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// writeAppError maps application errors to HTTP status codes. Anything that
// is not a known domain error is logged and reported as a generic 500.
func (h *Handler) writeAppError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, application.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, application.ErrCategoryNotFound.Error())
	case errors.Is(err, application.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, application.ErrServiceNotFound.Error())
	case errors.Is(err, application.ErrCategoryExists):
		writeError(w, http.StatusBadRequest, application.ErrCategoryExists.Error())
	case errors.Is(err, application.ErrDefaultCategoryProtected):
		writeError(w, http.StatusBadRequest, application.ErrDefaultCategoryProtected.Error())
	case errors.Is(err, application.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, application.ErrInvalidCategory.Error())
	case errors.Is(err, application.ErrInvalidService):
		writeError(w, http.StatusBadRequest, application.ErrInvalidService.Error())
	default:
		h.logger.Error("request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON decodes the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
