package application

import (
	"strings"
	"time"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
)

// DirectoryEntry is a single service card in the directory listing.
type DirectoryEntry struct {
	Service       model.Service
	CategoryLabel string
	Status        model.ProbeResult
}

// DirectoryGroup is one category section of the directory listing.
type DirectoryGroup struct {
	CategoryID string
	Label      string
	Entries    []DirectoryEntry
}

// BuildDirectory groups services by category for display. Groups follow the
// registry order; services whose category is empty or unknown are shown under
// the default category. Services not matching query (case-insensitive
// substring of name, URL, category ID or label) are left out, as are groups
// that end up empty. statuses is keyed by service ID; missing entries are
// reported as unknown.
func BuildDirectory(
	services []model.Service,
	categories []model.Category,
	statuses map[string]model.ProbeResult,
	query string,
) []DirectoryGroup {
	labels := make(map[string]string, len(categories)+1)
	for _, c := range categories {
		labels[c.ID] = c.Name
	}
	if _, ok := labels[model.DefaultCategoryID]; !ok {
		labels[model.DefaultCategoryID] = model.DefaultCategoryName
	}

	query = strings.ToLower(strings.TrimSpace(query))
	byCategory := make(map[string][]DirectoryEntry)

	for _, svc := range services {
		key := svc.Category
		if _, ok := labels[key]; !ok || key == "" {
			key = model.DefaultCategoryID
		}
		label := labels[key]

		if query != "" && !matchesQuery(svc, label, query) {
			continue
		}

		status, ok := statuses[svc.ID]
		if !ok {
			status = model.ProbeResult{URL: svc.URL, Status: model.ProbeStatusUnknown}
		}

		byCategory[key] = append(byCategory[key], DirectoryEntry{
			Service:       svc,
			CategoryLabel: label,
			Status:        status,
		})
	}

	groups := make([]DirectoryGroup, 0, len(byCategory))
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		if entries := byCategory[c.ID]; len(entries) > 0 {
			groups = append(groups, DirectoryGroup{CategoryID: c.ID, Label: labels[c.ID], Entries: entries})
		}
	}
	if !seen[model.DefaultCategoryID] {
		if entries := byCategory[model.DefaultCategoryID]; len(entries) > 0 {
			groups = append(groups, DirectoryGroup{
				CategoryID: model.DefaultCategoryID,
				Label:      model.DefaultCategoryName,
				Entries:    entries,
			})
		}
	}

	return groups
}

func matchesQuery(svc model.Service, categoryLabel, query string) bool {
	for _, field := range []string{svc.Name, svc.URL, svc.Category, categoryLabel} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// CategoryUsage counts services per category ID.
func CategoryUsage(services []model.Service) map[string]int {
	usage := make(map[string]int)
	for _, svc := range services {
		usage[svc.Category]++
	}
	return usage
}

// IsOrphaned reports whether svc has no category or references one that is
// not in categories.
func IsOrphaned(svc model.Service, categories []model.Category) bool {
	if !svc.HasCategory() {
		return true
	}
	return indexOfCategory(categories, svc.Category) < 0
}

// Greeting returns a salutation for the time of day.
func Greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good morning"
	case h < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
