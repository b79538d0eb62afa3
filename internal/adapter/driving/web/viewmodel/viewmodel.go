// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// StatusViewModel is a probe outcome ready for display.
type StatusViewModel struct {
	Status string // "online", "offline" or "unknown"; also used as the CSS modifier.
	Label  string
	Detail string // Tooltip text, e.g. "200 OK · 34ms".
}

// ServiceCardViewModel holds presentation-ready data for a directory card.
type ServiceCardViewModel struct {
	ID              string
	Name            string
	URL             string
	DisplayURL      string // Falls back to URL when the service has none.
	IP              string
	Icon            string
	DescriptionHTML string // Sanitized HTML rendered from markdown.
	CategoryLabel   string
	Status          StatusViewModel
}

// CategoryGroupViewModel is one category section of the directory.
type CategoryGroupViewModel struct {
	ID       string
	Label    string
	Services []ServiceCardViewModel
}

// OfflineAlertViewModel is an entry in the offline services panel.
type OfflineAlertViewModel struct {
	Name   string
	URL    string
	Detail string
}

// DirectoryViewModel holds everything the directory page renders.
type DirectoryViewModel struct {
	Greeting     string
	Query        string
	Groups       []CategoryGroupViewModel
	ServiceCount int // Services shown after filtering.
	Online       int
	Offline      int
	Unknown      int
	CheckedAt    string // Empty before the first probe cycle.
	OfflineAlert []OfflineAlertViewModel
	LoadFailed   bool
}

// ToastViewModel is a one-shot notification shown after an admin action.
type ToastViewModel struct {
	Message string
	Kind    string // "success" or "error".
}

// CategoryOptionViewModel is an entry of the category select box.
type CategoryOptionViewModel struct {
	ID    string
	Label string
}

// AdminServiceRowViewModel is one row of the services table.
type AdminServiceRowViewModel struct {
	ID            string
	Name          string
	URL           string
	Category      string
	CategoryLabel string
	IP            string
	Icon          string
	DisplayURL    string
	Description   string
	Orphaned      bool // Category is empty or does not exist.
	UpdateURL     string
	DeleteURL     string
}

// AdminCategoryRowViewModel is one row of the categories table.
type AdminCategoryRowViewModel struct {
	ID           string
	Name         string
	ServiceCount int
	IsDefault    bool
	UpdateURL    string
	DeleteURL    string
}

// AdminViewModel holds everything the admin page renders.
type AdminViewModel struct {
	CSRFToken       string
	Toast           *ToastViewModel
	Services        []AdminServiceRowViewModel
	Categories      []AdminCategoryRowViewModel
	CategoryOptions []CategoryOptionViewModel
	OrphanCount     int
	LoadFailed      bool
}
