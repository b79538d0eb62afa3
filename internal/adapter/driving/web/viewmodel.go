package web

import (
	"fmt"
	"net/url"
	"time"

	vm "github.com/ericfisherdev/servicehub/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/servicehub/internal/application"
	"github.com/ericfisherdev/servicehub/internal/domain/model"
)

// toStatusViewModel converts a probe result for display.
func toStatusViewModel(r model.ProbeResult) vm.StatusViewModel {
	status := r.Status
	if status == "" {
		status = model.ProbeStatusUnknown
	}

	return vm.StatusViewModel{
		Status: string(status),
		Label:  status.Label(),
		Detail: probeDetail(r),
	}
}

// probeDetail summarizes a probe result, e.g. "200 OK · 34ms".
func probeDetail(r model.ProbeResult) string {
	switch {
	case r.StatusCode > 0:
		return fmt.Sprintf("%d %s · %dms", r.StatusCode, r.StatusText, r.Latency.Milliseconds())
	case r.Error != "":
		return r.Error
	case r.Status == model.ProbeStatusUnknown || r.Status == "":
		return "Not checked"
	default:
		return ""
	}
}

func toServiceCardViewModel(e application.DirectoryEntry) vm.ServiceCardViewModel {
	display := e.Service.DisplayURL
	if display == "" {
		display = e.Service.URL
	}

	return vm.ServiceCardViewModel{
		ID:              e.Service.ID,
		Name:            e.Service.Name,
		URL:             e.Service.URL,
		DisplayURL:      display,
		IP:              e.Service.IP,
		Icon:            e.Service.Icon,
		DescriptionHTML: RenderMarkdown(e.Service.Description),
		CategoryLabel:   e.CategoryLabel,
		Status:          toStatusViewModel(e.Status),
	}
}

// toDirectoryViewModel assembles the directory page from the catalog and the
// latest status snapshot.
func toDirectoryViewModel(
	services []model.Service,
	categories []model.Category,
	snapshot application.StatusSnapshot,
	offline []model.ServiceStatus,
	query string,
	now time.Time,
) vm.DirectoryViewModel {
	groups := application.BuildDirectory(services, categories, snapshot.ByServiceID(), query)

	dir := vm.DirectoryViewModel{
		Greeting:     application.Greeting(now),
		Query:        query,
		Groups:       make([]vm.CategoryGroupViewModel, 0, len(groups)),
		OfflineAlert: make([]vm.OfflineAlertViewModel, 0, len(offline)),
	}

	for _, g := range groups {
		cards := make([]vm.ServiceCardViewModel, 0, len(g.Entries))
		for _, e := range g.Entries {
			cards = append(cards, toServiceCardViewModel(e))
		}
		dir.ServiceCount += len(cards)
		dir.Groups = append(dir.Groups, vm.CategoryGroupViewModel{
			ID:       g.CategoryID,
			Label:    g.Label,
			Services: cards,
		})
	}

	dir.Online, dir.Offline, dir.Unknown = snapshot.Counts()
	if !snapshot.CheckedAt.IsZero() {
		dir.CheckedAt = snapshot.CheckedAt.Local().Format("15:04:05")
	}

	for _, st := range offline {
		dir.OfflineAlert = append(dir.OfflineAlert, vm.OfflineAlertViewModel{
			Name:   st.Name,
			URL:    st.URL,
			Detail: probeDetail(st.Result),
		})
	}

	return dir
}

// toAdminViewModel assembles the admin page.
func toAdminViewModel(services []model.Service, categories []model.Category, csrf string, toast *vm.ToastViewModel) vm.AdminViewModel {
	labels := make(map[string]string, len(categories))
	for _, c := range categories {
		labels[c.ID] = c.Name
	}
	usage := application.CategoryUsage(services)

	admin := vm.AdminViewModel{
		CSRFToken:       csrf,
		Toast:           toast,
		Services:        make([]vm.AdminServiceRowViewModel, 0, len(services)),
		Categories:      make([]vm.AdminCategoryRowViewModel, 0, len(categories)),
		CategoryOptions: make([]vm.CategoryOptionViewModel, 0, len(categories)),
	}

	for _, s := range services {
		orphaned := application.IsOrphaned(s, categories)
		if orphaned {
			admin.OrphanCount++
		}

		label := labels[s.Category]
		if orphaned {
			label = "Undefined"
		}

		admin.Services = append(admin.Services, vm.AdminServiceRowViewModel{
			ID:            s.ID,
			Name:          s.Name,
			URL:           s.URL,
			Category:      s.Category,
			CategoryLabel: label,
			IP:            s.IP,
			Icon:          s.Icon,
			DisplayURL:    s.DisplayURL,
			Description:   s.Description,
			Orphaned:      orphaned,
			UpdateURL:     "/admin/services/" + url.PathEscape(s.ID),
			DeleteURL:     "/admin/services/" + url.PathEscape(s.ID) + "/delete",
		})
	}

	for _, c := range categories {
		admin.Categories = append(admin.Categories, vm.AdminCategoryRowViewModel{
			ID:           c.ID,
			Name:         c.Name,
			ServiceCount: usage[c.ID],
			IsDefault:    c.IsDefault(),
			UpdateURL:    "/admin/categories/" + url.PathEscape(c.ID),
			DeleteURL:    "/admin/categories/" + url.PathEscape(c.ID) + "/delete",
		})
		admin.CategoryOptions = append(admin.CategoryOptions, vm.CategoryOptionViewModel{ID: c.ID, Label: c.Name})
	}

	return admin
}

// toastFromQuery reads the toast left by a post-redirect-get cycle.
func toastFromQuery(q url.Values) *vm.ToastViewModel {
	msg := q.Get("toast")
	if msg == "" {
		return nil
	}

	kind := q.Get("kind")
	if kind != "error" {
		kind = "success"
	}
	return &vm.ToastViewModel{Message: msg, Kind: kind}
}
