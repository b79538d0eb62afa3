package model

import "time"

// ProbeResult is the outcome of a single reachability probe. It is held in
// memory for display and never persisted.
type ProbeResult struct {
	URL        string
	Status     ProbeStatus
	StatusCode int    // HTTP status code when a response was received.
	StatusText string // HTTP status text when a response was received.
	Error      string // Transport error when offline.
	CheckedAt  time.Time
	Latency    time.Duration
}

// ServiceStatus pairs a service with its latest probe result.
type ServiceStatus struct {
	ServiceID string
	Name      string
	URL       string
	Category  string
	Result    ProbeResult
}
