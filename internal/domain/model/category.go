package model

// Identity of the protected fallback category that orphaned services are
// reassigned to.
const (
	DefaultCategoryID   = "default"
	DefaultCategoryName = "Uncategorized"
)

// Category is a named grouping that services reference by ID.
type Category struct {
	ID   string
	Name string
}

// DefaultCategory returns the fallback category record.
func DefaultCategory() Category {
	return Category{ID: DefaultCategoryID, Name: DefaultCategoryName}
}

// IsDefault reports whether c is the protected fallback category.
func (c Category) IsDefault() bool {
	return c.ID == DefaultCategoryID
}
