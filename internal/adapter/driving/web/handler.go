// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/servicehub/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/servicehub/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/servicehub/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/servicehub/internal/application"
	"github.com/ericfisherdev/servicehub/internal/domain/model"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	categories *application.CategoryService
	services   *application.ServiceCatalog
	status     *application.StatusService
	logger     *slog.Logger
	now        func() time.Time
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
		now:        time.Now,
	}
}

// Directory renders the service directory, grouped by category and filtered
// by the q query parameter.
func (h *Handler) Directory(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	services, err := h.services.List(r.Context())
	var categories []model.Category
	if err == nil {
		categories, err = h.categories.List(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to load directory", "error", err)
		h.render(w, r, http.StatusInternalServerError, "ServiceHub", pages.DirectoryPage(vm.DirectoryViewModel{
			Greeting:   application.Greeting(h.now()),
			Query:      query,
			LoadFailed: true,
		}))
		return
	}

	page := toDirectoryViewModel(
		services,
		categories,
		h.status.Snapshot(),
		h.status.Offline(application.MaxOfflineAlerts),
		query,
		h.now(),
	)
	h.render(w, r, http.StatusOK, "ServiceHub", pages.DirectoryPage(page))
}

// Admin renders the management page. It only reads; ids are assigned at
// startup and when the services document changes on disk.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	toast := toastFromQuery(r.URL.Query())

	services, err := h.services.List(r.Context())
	var categories []model.Category
	if err == nil {
		categories, err = h.categories.List(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to load admin page", "error", err)
		h.render(w, r, http.StatusInternalServerError, "ServiceHub · Admin", pages.AdminPage(vm.AdminViewModel{
			CSRFToken:  token,
			Toast:      toast,
			LoadFailed: true,
		}))
		return
	}

	page := toAdminViewModel(services, categories, token, toast)
	h.render(w, r, http.StatusOK, "ServiceHub · Admin", pages.AdminPage(page))
}

// AddService handles the add service form.
func (h *Handler) AddService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.services.Add(r.Context(), serviceFromForm(r))
	if err != nil {
		h.redirectError(w, r, "add service", err)
		return
	}
	h.status.TriggerRefresh()
	h.redirectSuccess(w, r, fmt.Sprintf("Added %s", svc.Name))
}

// UpdateService handles a service row's save form.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.services.Update(r.Context(), r.PathValue("id"), serviceFromForm(r))
	if err != nil {
		h.redirectError(w, r, "update service", err)
		return
	}
	h.status.TriggerRefresh()
	h.redirectSuccess(w, r, fmt.Sprintf("Saved %s", svc.Name))
}

// DeleteService handles a service row's delete form.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Remove(r.Context(), r.PathValue("id")); err != nil {
		h.redirectError(w, r, "delete service", err)
		return
	}
	h.status.TriggerRefresh()
	h.redirectSuccess(w, r, "Service deleted")
}

// AddCategory handles the add category form.
func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.Add(r.Context(), categoryFromForm(r))
	if err != nil {
		h.redirectError(w, r, "add category", err)
		return
	}
	h.redirectSuccess(w, r, fmt.Sprintf("Added category %s", c.Name))
}

// UpdateCategory handles a category row's save form.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.Update(r.Context(), r.PathValue("id"), categoryFromForm(r))
	if err != nil {
		h.redirectError(w, r, "update category", err)
		return
	}
	h.redirectSuccess(w, r, fmt.Sprintf("Saved category %s", c.Name))
}

// DeleteCategory handles a category row's delete form.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	result, err := h.categories.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.redirectError(w, r, "delete category", err)
		return
	}
	h.redirectSuccess(w, r, fmt.Sprintf("Category deleted, %d services moved to default", result.MovedCount))
}

// Repair handles the fix undefined categories form.
func (h *Handler) Repair(w http.ResponseWriter, r *http.Request) {
	result, err := h.categories.Repair(r.Context())
	if err != nil {
		h.redirectError(w, r, "repair categories", err)
		return
	}

	if result.FixedCount == 0 {
		h.redirectSuccess(w, r, "No services with undefined categories")
		return
	}
	h.redirectSuccess(w, r, fmt.Sprintf("Fixed %d services: %s", result.FixedCount, strings.Join(result.Names, ", ")))
}

// RefreshStatus schedules a probe cycle.
func (h *Handler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	h.status.TriggerRefresh()
	h.redirectSuccess(w, r, "Status refresh scheduled")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, title string, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	ctx := templ.WithChildren(r.Context(), page)
	if err := templates.Layout(title).Render(ctx, w); err != nil {
		h.logger.Error("failed to render page", "path", r.URL.Path, "error", err)
	}
}

func (h *Handler) redirectSuccess(w http.ResponseWriter, r *http.Request, message string) {
	redirectToAdmin(w, r, message, "success")
}

// redirectError reports a failed admin action as an error toast. Storage
// failures are logged and shown with a generic message.
func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, op string, err error) {
	message := userMessage(err)
	if message == "" {
		h.logger.Error("admin action failed", "op", op, "error", err)
		message = "Could not save changes"
	}
	redirectToAdmin(w, r, message, "error")
}

// userMessage returns a display message for domain errors and "" for
// anything else.
func userMessage(err error) string {
	switch {
	case errors.Is(err, application.ErrCategoryNotFound):
		return "Category not found"
	case errors.Is(err, application.ErrCategoryExists):
		return "A category with that id already exists"
	case errors.Is(err, application.ErrDefaultCategoryProtected):
		return "The default category cannot be deleted"
	case errors.Is(err, application.ErrInvalidCategory):
		return "Category id is required"
	case errors.Is(err, application.ErrServiceNotFound):
		return "Service not found"
	case errors.Is(err, application.ErrInvalidService):
		return "Service name and url are required"
	default:
		return ""
	}
}

func redirectToAdmin(w http.ResponseWriter, r *http.Request, message, kind string) {
	q := url.Values{}
	q.Set("toast", message)
	q.Set("kind", kind)
	http.Redirect(w, r, "/admin?"+q.Encode(), http.StatusSeeOther)
}

func serviceFromForm(r *http.Request) model.Service {
	return model.Service{
		Name:        strings.TrimSpace(r.FormValue("name")),
		URL:         strings.TrimSpace(r.FormValue("url")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		IP:          strings.TrimSpace(r.FormValue("ip")),
		Icon:        strings.TrimSpace(r.FormValue("icon")),
		DisplayURL:  strings.TrimSpace(r.FormValue("displayUrl")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
}

func categoryFromForm(r *http.Request) model.Category {
	return model.Category{
		ID:   strings.TrimSpace(r.FormValue("id")),
		Name: strings.TrimSpace(r.FormValue("name")),
	}
}
