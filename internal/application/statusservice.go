// Package application contains use-case orchestration services.
package application

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

const (
	// MaxOfflineAlerts caps the number of offline services surfaced as alerts.
	MaxOfflineAlerts = 3

	defaultStatusInterval = 30 * time.Second
)

// StatusOptions configures a StatusService.
type StatusOptions struct {
	Interval         time.Duration
	Concurrency      int
	SkipCategories   []string // Category IDs that are never probed.
	SkipNameKeywords []string // Services whose name contains one of these are never probed.
}

// StatusSnapshot is the result of the latest probe cycle, in catalog order.
type StatusSnapshot struct {
	CheckedAt time.Time
	Statuses  []model.ServiceStatus
}

// Counts returns the number of online, offline and unknown services.
func (s StatusSnapshot) Counts() (online, offline, unknown int) {
	for _, st := range s.Statuses {
		switch st.Result.Status {
		case model.ProbeStatusOnline:
			online++
		case model.ProbeStatusOffline:
			offline++
		default:
			unknown++
		}
	}
	return online, offline, unknown
}

// ByServiceID indexes the probe results by service ID.
func (s StatusSnapshot) ByServiceID() map[string]model.ProbeResult {
	out := make(map[string]model.ProbeResult, len(s.Statuses))
	for _, st := range s.Statuses {
		out[st.ServiceID] = st.Result
	}
	return out
}

// refreshRequest represents a manual refresh trigger.
type refreshRequest struct {
	done chan error
}

// StatusService periodically probes every service and keeps the latest
// results in memory. Results are display-only and never persisted.
type StatusService struct {
	prober driven.Prober
	store  driven.DocumentReader
	opts   StatusOptions

	refreshCh chan refreshRequest
	triggerCh chan struct{}

	mu       sync.RWMutex
	snapshot StatusSnapshot
}

// NewStatusService creates a StatusService. A non-positive concurrency probes
// one URL at a time; a non-positive interval falls back to 30s.
func NewStatusService(prober driven.Prober, store driven.DocumentReader, opts StatusOptions) *StatusService {
	if opts.Interval <= 0 {
		opts.Interval = defaultStatusInterval
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &StatusService{
		prober:    prober,
		store:     store,
		opts:      opts,
		refreshCh: make(chan refreshRequest),
		triggerCh: make(chan struct{}, 1),
	}
}

// Start runs an immediate probe cycle, then probes on the configured interval.
// It also serves manual refresh requests. Start blocks until the context is
// canceled.
func (s *StatusService) Start(ctx context.Context) {
	if err := s.checkAll(ctx); err != nil {
		slog.Error("initial status check failed", "error", err)
	}

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("status service stopped")
			return
		case <-ticker.C:
			if err := s.checkAll(ctx); err != nil {
				slog.Error("status check cycle failed", "error", err)
			}
		case <-s.triggerCh:
			if err := s.checkAll(ctx); err != nil {
				slog.Error("triggered status check failed", "error", err)
			}
		case req := <-s.refreshCh:
			req.done <- s.checkAll(ctx)
		}
	}
}

// Refresh runs a probe cycle outside the interval and blocks until it
// completes or the context is canceled.
func (s *StatusService) Refresh(ctx context.Context) error {
	req := refreshRequest{done: make(chan error, 1)}

	select {
	case s.refreshCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerRefresh schedules a probe cycle without waiting for it. Triggers
// arriving while one is already pending are coalesced.
func (s *StatusService) TriggerRefresh() {
	select {
	case s.triggerCh <- struct{}{}:
	default:
	}
}

// Check probes a single URL immediately.
func (s *StatusService) Check(ctx context.Context, rawURL string) model.ProbeResult {
	return s.prober.Probe(ctx, rawURL)
}

// Snapshot returns the results of the latest probe cycle.
func (s *StatusService) Snapshot() StatusSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]model.ServiceStatus, len(s.snapshot.Statuses))
	copy(statuses, s.snapshot.Statuses)
	return StatusSnapshot{CheckedAt: s.snapshot.CheckedAt, Statuses: statuses}
}

// Offline returns up to limit offline services from the latest cycle.
func (s *StatusService) Offline(limit int) []model.ServiceStatus {
	offline := []model.ServiceStatus{}
	for _, st := range s.Snapshot().Statuses {
		if len(offline) >= limit {
			break
		}
		if st.Result.Status == model.ProbeStatusOffline {
			offline = append(offline, st)
		}
	}
	return offline
}

// IsCheckable reports whether svc should be probed. Services in a skipped
// category, or whose name contains a skipped keyword, are reported as unknown
// instead.
func (s *StatusService) IsCheckable(svc model.Service) bool {
	for _, c := range s.opts.SkipCategories {
		if strings.EqualFold(svc.Category, c) {
			return false
		}
	}

	name := strings.ToLower(svc.Name)
	for _, kw := range s.opts.SkipNameKeywords {
		if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}

// checkAll probes every checkable service with bounded parallelism and
// replaces the snapshot.
func (s *StatusService) checkAll(ctx context.Context) error {
	start := time.Now()

	services, err := s.store.Services(ctx)
	if err != nil {
		return err
	}

	statuses := make([]model.ServiceStatus, len(services))

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)

	for i, svc := range services {
		statuses[i] = model.ServiceStatus{
			ServiceID: svc.ID,
			Name:      svc.Name,
			URL:       svc.URL,
			Category:  svc.Category,
		}

		if !s.IsCheckable(svc) {
			statuses[i].Result = model.ProbeResult{
				URL:       svc.URL,
				Status:    model.ProbeStatusUnknown,
				CheckedAt: time.Now().UTC(),
			}
			continue
		}

		g.Go(func() error {
			statuses[i].Result = s.prober.Probe(ctx, svc.URL)
			return nil
		})
	}

	_ = g.Wait() // Probe never fails; errors are classified as offline.

	snapshot := StatusSnapshot{CheckedAt: time.Now().UTC(), Statuses: statuses}

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	online, offline, unknown := snapshot.Counts()
	slog.Info("status check complete",
		"services", len(statuses),
		"online", online,
		"offline", offline,
		"unknown", unknown,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return nil
}
