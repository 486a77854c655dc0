package fetch

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/apkfetch/apkfetch/fetch/throttle"
)

// Option is a functional option for configuring a [Fetcher] via [Build].
type Option func(*options) error

type options struct {
	client       *http.Client
	rt           http.RoundTripper
	timeout      *time.Duration
	userAgent    string
	throttle     *throttleConfig
	logger       *slog.Logger
	tracer       trace.Tracer
	maxRedirects *int
	tempRoot     string
	progress     bool
}

type throttleConfig struct {
	rps   int
	burst int
}

// WithClient replaces the default [http.Client] used by the [Fetcher].
// The client is copied; its CheckRedirect is always overridden so that
// redirects stay under the Fetcher's control.
func WithClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		o.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		o.rt = rt
		return nil
	}
}

// WithTimeout sets the per-hop request timeout on the underlying [http.Client].
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(o *options) error {
		o.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given
// requests per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		o.throttle = &throttleConfig{rps: rps, burst: burst}
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Fetcher].
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithTracer injects an OpenTelemetry tracer. A no-op tracer is used
// when unset.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) error {
		o.tracer = tracer
		return nil
	}
}

// WithMaxRedirects overrides the default redirect budget of
// [DefaultMaxRedirects]. Zero disables redirect following entirely.
func WithMaxRedirects(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.New("max redirects must not be negative")
		}
		o.maxRedirects = &n
		return nil
	}
}

// WithTempRoot places staging directories under dir instead of the
// platform temp root.
func WithTempRoot(dir string) Option {
	return func(o *options) error {
		if dir == "" {
			return errors.New("temp root must not be empty")
		}
		o.tempRoot = dir
		return nil
	}
}

// WithProgress enables periodic transfer progress logging via the
// Fetcher's logger.
func WithProgress() Option {
	return func(o *options) error {
		o.progress = true
		return nil
	}
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
