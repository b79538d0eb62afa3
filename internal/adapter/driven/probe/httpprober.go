// Package probe checks whether service URLs answer over HTTP.
package probe

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Prober = (*HTTPProber)(nil)

// DefaultTimeout is the per-URL probe budget.
const DefaultTimeout = 3 * time.Second

// HTTPProber sends a HEAD request and treats any HTTP response, whatever its
// status code, as online. Transport failures and timeouts are offline; URLs
// that cannot be requested at all are unknown. Redirects are not followed.
type HTTPProber struct {
	client  *http.Client
	timeout time.Duration
}

// NewHTTPProber creates an HTTPProber. A non-positive timeout uses DefaultTimeout.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 2

	return &HTTPProber{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout: timeout,
	}
}

// Probe checks rawURL within the configured timeout. It never returns an
// error; the outcome is carried in the result. A URL that cannot be probed
// (unparsable, not http(s), or without a host) is offline with the reason in
// Error.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) (result model.ProbeResult) {
	start := time.Now()
	result = model.ProbeResult{URL: rawURL, Status: model.ProbeStatusOffline}
	defer func() {
		result.CheckedAt = time.Now().UTC()
		result.Latency = time.Since(start)
	}()

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		result.Error = "unsupported url"
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	req.Header.Set("User-Agent", "servicehub-probe/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		result.Error = err.Error()
		slog.Debug("probe failed", "url", rawURL, "error", err)
		return result
	}
	_ = resp.Body.Close()

	result.Status = model.ProbeStatusOnline
	result.StatusCode = resp.StatusCode
	result.StatusText = http.StatusText(resp.StatusCode)
	return result
}
