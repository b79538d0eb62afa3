package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Directory)
	mux.HandleFunc("GET /admin", h.Admin)

	mux.HandleFunc("POST /admin/services", requireCSRF(h.AddService))
	mux.HandleFunc("POST /admin/services/{id}", requireCSRF(h.UpdateService))
	mux.HandleFunc("POST /admin/services/{id}/delete", requireCSRF(h.DeleteService))
	mux.HandleFunc("POST /admin/categories", requireCSRF(h.AddCategory))
	mux.HandleFunc("POST /admin/categories/{id}", requireCSRF(h.UpdateCategory))
	mux.HandleFunc("POST /admin/categories/{id}/delete", requireCSRF(h.DeleteCategory))
	mux.HandleFunc("POST /admin/repair", requireCSRF(h.Repair))
	mux.HandleFunc("POST /admin/status/refresh", requireCSRF(h.RefreshStatus))
}
