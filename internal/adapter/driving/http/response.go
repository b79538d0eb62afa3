package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/servicehub/internal/application"
	"github.com/ericfisherdev/servicehub/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ServiceJSON is the wire representation of a service, used for both
// requests and responses.
type ServiceJSON struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Category    string `json:"category"`
	IP          string `json:"ip,omitempty"`
	Icon        string `json:"icon,omitempty"`
	DisplayURL  string `json:"displayUrl,omitempty"`
	Description string `json:"description,omitempty"`
}

// CategoryJSON is the wire representation of a category.
type CategoryJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CheckStatusRequest is the body of POST /api/check-status.
type CheckStatusRequest struct {
	URL string `json:"url"`
}

// DeleteCategoryResponse reports a category deletion.
type DeleteCategoryResponse struct {
	Message       string `json:"message"`
	MovedServices int    `json:"movedServices"`
}

// RepairResponse reports a repair run.
type RepairResponse struct {
	Message       string   `json:"message"`
	FixedServices int      `json:"fixedServices"`
	Services      []string `json:"services"`
}

// ProbeResponse is the outcome of a single reachability probe.
type ProbeResponse struct {
	URL        string `json:"url"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode,omitempty"`
	StatusText string `json:"statusText,omitempty"`
	Reason     string `json:"reason,omitempty"`
	LatencyMS  int64  `json:"latencyMs"`
	CheckedAt  string `json:"checkedAt"`
}

// ServiceStatusResponse is the probe outcome for one catalog service.
type ServiceStatusResponse struct {
	ServiceID  string `json:"serviceId"`
	Name       string `json:"name"`
	URL        string `json:"url"`
	Category   string `json:"category"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode,omitempty"`
	StatusText string `json:"statusText,omitempty"`
	CheckedAt  string `json:"checkedAt,omitempty"`
}

// StatusResponse is the latest probe cycle.
type StatusResponse struct {
	CheckedAt string                  `json:"checkedAt,omitempty"`
	Online    int                     `json:"online"`
	Offline   int                     `json:"offline"`
	Unknown   int                     `json:"unknown"`
	Services  []ServiceStatusResponse `json:"services"`
}

// HealthResponse is the JSON response for the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func (s ServiceJSON) toModel() model.Service {
	return model.Service{
		ID:          s.ID,
		Name:        s.Name,
		URL:         s.URL,
		Category:    s.Category,
		IP:          s.IP,
		Icon:        s.Icon,
		DisplayURL:  s.DisplayURL,
		Description: s.Description,
	}
}

func (c CategoryJSON) toModel() model.Category {
	return model.Category{ID: c.ID, Name: c.Name}
}

func toServiceJSON(s model.Service) ServiceJSON {
	return ServiceJSON{
		ID:          s.ID,
		Name:        s.Name,
		URL:         s.URL,
		Category:    s.Category,
		IP:          s.IP,
		Icon:        s.Icon,
		DisplayURL:  s.DisplayURL,
		Description: s.Description,
	}
}

func toCategoryJSON(c model.Category) CategoryJSON {
	return CategoryJSON{ID: c.ID, Name: c.Name}
}

func toServiceResponses(services []model.Service) []ServiceJSON {
	resp := make([]ServiceJSON, 0, len(services))
	for _, s := range services {
		resp = append(resp, toServiceJSON(s))
	}
	return resp
}

func toCategoryResponses(categories []model.Category) []CategoryJSON {
	resp := make([]CategoryJSON, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, toCategoryJSON(c))
	}
	return resp
}

func fromServiceRequests(req []ServiceJSON) []model.Service {
	services := make([]model.Service, 0, len(req))
	for _, s := range req {
		services = append(services, s.toModel())
	}
	return services
}

func fromCategoryRequests(req []CategoryJSON) []model.Category {
	categories := make([]model.Category, 0, len(req))
	for _, c := range req {
		categories = append(categories, c.toModel())
	}
	return categories
}

func toProbeResponse(r model.ProbeResult) ProbeResponse {
	return ProbeResponse{
		URL:        r.URL,
		Status:     string(r.Status),
		StatusCode: r.StatusCode,
		StatusText: r.StatusText,
		Reason:     r.Error,
		LatencyMS:  r.Latency.Milliseconds(),
		CheckedAt:  formatTime(r.CheckedAt),
	}
}

func toServiceStatusResponse(st model.ServiceStatus) ServiceStatusResponse {
	return ServiceStatusResponse{
		ServiceID:  st.ServiceID,
		Name:       st.Name,
		URL:        st.URL,
		Category:   st.Category,
		Status:     string(st.Result.Status),
		StatusCode: st.Result.StatusCode,
		StatusText: st.Result.StatusText,
		CheckedAt:  formatTime(st.Result.CheckedAt),
	}
}

func toStatusResponse(snap application.StatusSnapshot) StatusResponse {
	online, offline, unknown := snap.Counts()

	services := make([]ServiceStatusResponse, 0, len(snap.Statuses))
	for _, st := range snap.Statuses {
		services = append(services, toServiceStatusResponse(st))
	}

	return StatusResponse{
		CheckedAt: formatTime(snap.CheckedAt),
		Online:    online,
		Offline:   offline,
		Unknown:   unknown,
		Services:  services,
	}
}

// formatTime renders t as RFC 3339 UTC, or "" for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
