package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
)

func TestHTTPProber_AnyResponseIsOnline(t *testing.T) {
	tests := []struct {
		name string
		code int
	}{
		{"ok", http.StatusOK},
		{"not found", http.StatusNotFound},
		{"server error", http.StatusInternalServerError},
		{"redirect is not followed", http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var method string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				method = r.Method
				if tt.code == http.StatusFound {
					http.Redirect(w, r, "http://127.0.0.1:1/unreachable", tt.code)
					return
				}
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			got := NewHTTPProber(time.Second).Probe(context.Background(), srv.URL)

			assert.Equal(t, model.ProbeStatusOnline, got.Status)
			assert.Equal(t, tt.code, got.StatusCode)
			assert.Equal(t, http.StatusText(tt.code), got.StatusText)
			assert.Equal(t, http.MethodHead, method)
			assert.Equal(t, srv.URL, got.URL)
			assert.False(t, got.CheckedAt.IsZero())
		})
	}
}

func TestHTTPProber_TimeoutIsOffline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	got := NewHTTPProber(50*time.Millisecond).Probe(context.Background(), srv.URL)

	assert.Equal(t, model.ProbeStatusOffline, got.Status)
	assert.NotEmpty(t, got.Error)
	assert.Less(t, got.Latency, 2*time.Second)
}

func TestHTTPProber_ConnectionRefusedIsOffline(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	got := NewHTTPProber(time.Second).Probe(context.Background(), addr)

	assert.Equal(t, model.ProbeStatusOffline, got.Status)
	assert.Zero(t, got.StatusCode)
}

func TestHTTPProber_UnsupportedURLIsOffline(t *testing.T) {
	for _, raw := range []string{"", "not a url", "jira.local", "ftp://x", "http://", "://missing-scheme"} {
		got := NewHTTPProber(time.Second).Probe(context.Background(), raw)
		require.Equal(t, model.ProbeStatusOffline, got.Status, raw)
		assert.Equal(t, "unsupported url", got.Error, raw)
		assert.Zero(t, got.StatusCode, raw)
		assert.False(t, got.CheckedAt.IsZero(), raw)
	}
}

func TestNewHTTPProber_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewHTTPProber(0).timeout)
}
