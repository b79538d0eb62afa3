package model

// Service is a directory entry linking to an internal tool.
type Service struct {
	ID          string // Immutable identifier assigned on first write.
	Name        string // Display name; not guaranteed unique.
	URL         string
	Category    string // Category ID; may be empty or reference a missing category.
	IP          string
	Icon        string // Image URL.
	DisplayURL  string // Cosmetic alternative to URL.
	Description string // Markdown notes.
}

// HasCategory reports whether the service references a category at all.
// A service may still reference a category that no longer exists.
func (s Service) HasCategory() bool {
	return s.Category != ""
}
