package driven

import (
	"context"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
)

// Prober defines the driven port for reachability checks. Probe never returns
// an error: failures are reported as model.ProbeStatusOffline and URLs that
// cannot be probed as model.ProbeStatusUnknown. Implementations enforce their
// own time budget.
type Prober interface {
	Probe(ctx context.Context, rawURL string) model.ProbeResult
}
